package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/photo-marketplace/internal/handler"
	"github.com/iliyamo/photo-marketplace/internal/middleware"
	"github.com/iliyamo/photo-marketplace/internal/model"
)

// RegisterSeller registers SELLER-scoped endpoints.  All routes require a
// valid JWT and the SELLER role; handlers scope every query to the caller.
func RegisterSeller(e *echo.Echo, b *handler.BookingHandler, t *handler.TeamHandler, p *handler.ProfileHandler, jwtSecret string) {
	seller := []echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleSeller),
	}

	// ---- Bookings dashboard ----
	g := e.Group("/v1/seller", seller...)
	g.GET("/bookings", b.SellerList)
	g.GET("/bookings/:id", b.SellerGet)
	g.PATCH("/bookings/:id/status", b.UpdateStatus)

	// ---- Profile ----
	g.GET("/profile", p.Get)
	g.PUT("/profile", p.Put)

	// ---- Team members ----
	tm := e.Group("/v1/team-members", seller...)
	tm.GET("", t.List)
	tm.POST("", t.Create)
	tm.PUT("/:id", t.Update)
	tm.DELETE("/:id", t.Delete)
}
