package handler // handler defines http handlers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/photo-marketplace/internal/middleware"
	"github.com/iliyamo/photo-marketplace/internal/queue"
	"github.com/iliyamo/photo-marketplace/internal/repository"
	"github.com/iliyamo/photo-marketplace/internal/response"
	"github.com/iliyamo/photo-marketplace/internal/validation"
)

const dbTimeout = 5 * time.Second

var errUnauthorized = errors.New("invalid user_id in context")

// getUserID returns the authenticated caller set by middleware.JWTAuth.
func getUserID(c echo.Context) (uint64, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return 0, errUnauthorized
	}
	return id, nil
}

// parseID reads a positive numeric path parameter.
func parseID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

// bindValid binds the request body into dst and runs the registered
// validator.  On failure it has already written the 400 response and
// returns false.
func bindValid(c echo.Context, dst any) (bool, error) {
	if err := c.Bind(dst); err != nil {
		return false, response.BadRequest(c, "invalid request body")
	}
	if err := c.Validate(dst); err != nil {
		return false, response.BadRequest(c, validation.Message(err))
	}
	return true, nil
}

// storeError maps repository sentinels onto HTTP responses.  what names
// the resource in 404 messages.
func storeError(c echo.Context, log *zap.Logger, err error, what string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return response.NotFound(c, what+" not found")
	case errors.Is(err, repository.ErrForbidden):
		return response.Forbidden(c, "forbidden")
	case errors.Is(err, repository.ErrOwnerProtected):
		return response.Forbidden(c, repository.ErrOwnerProtected.Error())
	case errors.Is(err, repository.ErrDuplicate):
		return response.Conflict(c, what+" already exists")
	case errors.Is(err, repository.ErrConflict):
		return response.Conflict(c, "conflict")
	}
	log.Error("store call failed", zap.String("resource", what), zap.String("path", c.Path()), zap.Error(err))
	return response.InternalError(c)
}

// emit hands ev to the publisher.  The publisher is expected to return
// without waiting on the broker, and its errors never reach the client.
func emit(pub EventPublisher, ev queue.Event) {
	if pub == nil {
		return
	}
	_ = pub.Publish(context.Background(), ev)
}

// purge drops cached public listings after an admin write.
func purge(ctx context.Context, cache CachePurger, log *zap.Logger) {
	if cache == nil {
		return
	}
	if err := cache.Purge(ctx); err != nil {
		log.Warn("cache purge failed", zap.Error(err))
	}
}
