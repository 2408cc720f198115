package router // package router defines how HTTP routes are registered for the API

import (
	"database/sql"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/photo-marketplace/internal/handler"
	"github.com/iliyamo/photo-marketplace/internal/middleware"
	"github.com/iliyamo/photo-marketplace/internal/model"
)

// RegisterRoutes registers routes that need no authentication: the health
// check used by load balancers.
func RegisterRoutes(e *echo.Echo, db *sql.DB, rdb *redis.Client) {
	e.GET("/healthz", handler.Health(db, rdb))
}

// RegisterAuth registers the session endpoints under /v1/auth and the
// authenticated /v1/me.  Logout needs no JWT; it accepts either a refresh
// token in the body or a bearer token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	g.POST("/logout", a.Logout)

	e.GET("/v1/me", a.Me,
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleCustomer, model.RoleSeller, model.RoleAdmin),
	)
}

// RegisterPublic registers the guest-facing promotion listings.  Both are
// served through the response cache, which admin writes purge.
func RegisterPublic(e *echo.Echo, p *handler.PromotionHandler, cache *middleware.ResponseCache) {
	cached := cache.Middleware()
	e.GET("/v1/advertisements", p.PublicAdvertisements, cached)
	e.GET("/v1/gifts", p.PublicGifts, cached)
}

// RegisterTickets registers support ticket submission, open to every role.
// The submitter type is derived from the caller's role in the handler.
func RegisterTickets(e *echo.Echo, t *handler.TicketHandler, jwtSecret string) {
	auth := []echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleCustomer, model.RoleSeller, model.RoleAdmin),
	}
	e.POST("/v1/tickets", t.Create, auth...)
	e.GET("/v1/my-tickets", t.Mine, auth...)
}
