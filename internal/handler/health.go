package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/photo-marketplace/internal/response"
)

// Health reports liveness plus the state of MySQL and Redis.  Redis being
// down only degrades the service; MySQL being down fails the check.
func Health(db *sql.DB, rdb *redis.Client) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		status := map[string]string{"mysql": "ok", "redis": "disabled"}
		if db != nil {
			if err := db.PingContext(ctx); err != nil {
				status["mysql"] = "down"
				return c.JSON(http.StatusServiceUnavailable, response.Response{Success: false, Data: status, Message: "mysql unavailable"})
			}
		}
		if rdb != nil {
			status["redis"] = "ok"
			if err := rdb.Ping(ctx).Err(); err != nil {
				status["redis"] = "down"
			}
		}
		return response.OK(c, status)
	}
}
