// Package response writes the JSON envelope every endpoint returns:
// {"success": true, "data": ...} or {"success": false, "message": "..."}.
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func OK(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func Created(c echo.Context, data any) error {
	return c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

func Fail(c echo.Context, status int, message string) error {
	return c.JSON(status, Response{Success: false, Message: message})
}

func BadRequest(c echo.Context, message string) error {
	return Fail(c, http.StatusBadRequest, message)
}

func Unauthorized(c echo.Context, message string) error {
	return Fail(c, http.StatusUnauthorized, message)
}

func Forbidden(c echo.Context, message string) error {
	return Fail(c, http.StatusForbidden, message)
}

func NotFound(c echo.Context, message string) error {
	return Fail(c, http.StatusNotFound, message)
}

func Conflict(c echo.Context, message string) error {
	return Fail(c, http.StatusConflict, message)
}

func InternalError(c echo.Context) error {
	return Fail(c, http.StatusInternalServerError, "internal server error")
}

// ErrorHandler renders errors returned by handlers and middleware (for
// example echo's 404 and 405) in the same envelope.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status := http.StatusInternalServerError
	message := "internal server error"
	if he, ok := err.(*echo.HTTPError); ok {
		status = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(status)
		}
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = Fail(c, status, message)
}
