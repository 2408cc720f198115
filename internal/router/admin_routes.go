package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/photo-marketplace/internal/handler"
	"github.com/iliyamo/photo-marketplace/internal/middleware"
	"github.com/iliyamo/photo-marketplace/internal/model"
)

// RegisterAdmin registers the platform dashboards under /v1/admin.  All
// routes require a valid JWT and the ADMIN role.
func RegisterAdmin(e *echo.Echo, b *handler.BookingHandler, cp *handler.CouponHandler, p *handler.PromotionHandler, t *handler.TicketHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)

	g.GET("/bookings", b.AdminList)

	// ---- Coupons ----
	g.GET("/coupons", cp.List)
	g.POST("/coupons", cp.Create)
	g.GET("/coupons/:id", cp.Get)
	g.PUT("/coupons/:id", cp.Update)
	g.DELETE("/coupons/:id", cp.Delete)

	// ---- Gifts ----
	g.GET("/gifts", p.ListGifts)
	g.POST("/gifts", p.CreateGift)
	g.GET("/gifts/:id", p.GetGift)
	g.PUT("/gifts/:id", p.UpdateGift)
	g.DELETE("/gifts/:id", p.DeleteGift)

	// ---- Advertisements ----
	g.GET("/advertisements", p.ListAdvertisements)
	g.POST("/advertisements", p.CreateAdvertisement)
	g.GET("/advertisements/:id", p.GetAdvertisement)
	g.PUT("/advertisements/:id", p.UpdateAdvertisement)
	g.DELETE("/advertisements/:id", p.DeleteAdvertisement)

	// ---- Support tickets ----
	g.GET("/tickets", t.AdminList)
	g.PATCH("/tickets/:id", t.AdminUpdate)
}
