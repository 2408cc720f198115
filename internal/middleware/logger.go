package middleware

import (
    "time"

    "github.com/labstack/echo/v4"
    "go.uber.org/zap"
)

// RequestLogger logs one line per request.  5xx responses log at error
// level, 4xx at warn and everything else at info.  The request id is the
// one set by Echo's RequestID middleware.
func RequestLogger(log *zap.Logger) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            start := time.Now()
            err := next(c)
            if err != nil {
                // Let Echo write the error response so the status is final.
                c.Error(err)
            }

            req := c.Request()
            res := c.Response()
            fields := []zap.Field{
                zap.String("request_id", res.Header().Get(echo.HeaderXRequestID)),
                zap.Int("status", res.Status),
                zap.String("method", req.Method),
                zap.String("path", c.Path()),
                zap.String("uri", req.RequestURI),
                zap.String("ip", c.RealIP()),
                zap.String("user", currentUserID(c)),
                zap.Duration("latency", time.Since(start)),
                zap.Int64("bytes_out", res.Size),
            }
            if err != nil {
                fields = append(fields, zap.Error(err))
            }

            switch {
            case res.Status >= 500:
                log.Error("request", fields...)
            case res.Status >= 400:
                log.Warn("request", fields...)
            default:
                log.Info("request", fields...)
            }
            return nil
        }
    }
}
