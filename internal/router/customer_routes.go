package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/photo-marketplace/internal/handler"
	"github.com/iliyamo/photo-marketplace/internal/middleware"
	"github.com/iliyamo/photo-marketplace/internal/model"
)

// RegisterCustomer registers customer-scoped endpoints under /v1.  All routes
// require a valid JWT and the CUSTOMER role.  Customers book sessions, see
// their own bookings and apply coupons.
func RegisterCustomer(e *echo.Echo, b *handler.BookingHandler, cp *handler.CouponHandler, jwtSecret string) {
	customer := []echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleCustomer),
	}
	e.POST("/v1/bookings", b.Create, customer...)
	e.GET("/v1/my-bookings", b.Mine, customer...)

	e.POST("/v1/coupons/validate", cp.Validate, customer...)
	e.POST("/v1/coupons/redeem", cp.Redeem, customer...)
}
