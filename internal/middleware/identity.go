package middleware

// identity.go exposes the caller identity JWTAuth leaves in the context.

import (
    "strconv"

    "github.com/labstack/echo/v4"
)

// UserID returns the authenticated user's ID, or false on public routes.
func UserID(c echo.Context) (uint64, bool) {
    id, ok := c.Get(CtxUserID).(uint64)
    return id, ok && id != 0
}

// Role returns the authenticated user's role, or "" on public routes.
func Role(c echo.Context) string {
    r, _ := c.Get(CtxRole).(string)
    return r
}

// currentUserID renders the caller for log lines.
func currentUserID(c echo.Context) string {
    if id, ok := UserID(c); ok {
        return strconv.FormatUint(id, 10)
    }
    return "anon"
}
