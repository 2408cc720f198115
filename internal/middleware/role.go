package middleware

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/photo-marketplace/internal/response"
)

// RequireRole aborts with 403 unless the role stored by JWTAuth is one of
// roles.
func RequireRole(roles ...string) echo.MiddlewareFunc {
    allowed := make(map[string]bool, len(roles))
    for _, r := range roles {
        allowed[r] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if !allowed[Role(c)] {
                return response.Forbidden(c, "forbidden")
            }
            return next(c)
        }
    }
}
