package middleware // middleware holds the Echo middleware shared by every route group

import (
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/photo-marketplace/internal/response"
    "github.com/iliyamo/photo-marketplace/internal/utils"
)

// Context keys set by JWTAuth.
const (
    CtxUserID = "user_id" // uint64
    CtxRole   = "role"    // string
)

// JWTAuth validates the Bearer access token and stores the caller's ID and
// role in the context.  Handlers read them through UserID and Role.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            raw, ok := BearerToken(c)
            if !ok {
                return response.Unauthorized(c, "missing bearer token")
            }
            claims, err := utils.ParseAccessToken(secret, raw)
            if err != nil {
                return response.Unauthorized(c, "invalid token")
            }
            uid, _ := claims.UserID()
            c.Set(CtxUserID, uid)
            c.Set(CtxRole, claims.Role)
            return next(c)
        }
    }
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(c echo.Context) (string, bool) {
    auth := c.Request().Header.Get(echo.HeaderAuthorization)
    if !strings.HasPrefix(auth, "Bearer ") {
        return "", false
    }
    raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
    return raw, raw != ""
}
