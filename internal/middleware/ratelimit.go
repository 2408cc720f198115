package middleware

import (
    "fmt"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
    "go.uber.org/zap"

    "github.com/iliyamo/photo-marketplace/internal/config"
    "github.com/iliyamo/photo-marketplace/internal/response"
)

// tokenBucket refills continuously at capacity/window_ms tokens per
// millisecond and takes one token per call.  Fractional tokens are kept in
// the hash.  It returns {allowed, whole tokens left, wait_ms}.
var tokenBucket = redis.NewScript(`
local key      = KEYS[1]
local now      = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local per_ms   = capacity / tonumber(ARGV[3])
local ttl      = tonumber(ARGV[4])

local b      = redis.call('HMGET', key, 'tokens', 'at')
local tokens = tonumber(b[1]) or capacity
local at     = tonumber(b[2]) or now
tokens = math.min(capacity, tokens + math.max(0, now - at) * per_ms)

local allowed, wait = 0, 0
if tokens >= 1 then
  allowed = 1
  tokens = tokens - 1
else
  wait = math.ceil((1 - tokens) / per_ms)
end

redis.call('HSET', key, 'tokens', tostring(tokens), 'at', now)
redis.call('EXPIRE', key, ttl)
return { allowed, math.floor(tokens), wait }
`)

// RateLimit throttles requests per client with the Redis token bucket.
// With rate limiting disabled or no Redis client it is a pass-through and
// Redis errors fail open.
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client, log *zap.Logger) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            tier, bucket := cfg.BucketFor(c.Request().URL.Path)
            key := rateKey(cfg, tier, c)
            vals, err := tokenBucket.Run(c.Request().Context(), rdb, []string{key},
                time.Now().UnixMilli(), bucket.Capacity, bucket.Window.Milliseconds(),
                int64(bucket.TTL()/time.Second)).Int64Slice()
            if err != nil || len(vals) != 3 {
                log.Warn("rate limit check failed", zap.String("key", key), zap.Error(err))
                return next(c)
            }

            h := c.Response().Header()
            h.Set("X-RateLimit-Limit", strconv.Itoa(bucket.Capacity))
            h.Set("X-RateLimit-Remaining", strconv.FormatInt(vals[1], 10))
            if cfg.Debug {
                h.Set("X-RateLimit-Key", key)
            }
            if vals[0] == 1 {
                return next(c)
            }
            secs := (vals[2] + 999) / 1000
            h.Set("Retry-After", strconv.FormatInt(secs, 10))
            log.Debug("rate limited", zap.String("key", key), zap.Int64("wait_ms", vals[2]))
            return response.Fail(c, http.StatusTooManyRequests, fmt.Sprintf("too many requests, retry in %ds", secs))
        }
    }
}

// rateKey is prefix:tier:ip[:route].  Route uses the registered path so
// /v1/seller/bookings/1 and /v1/seller/bookings/2 share a bucket.
func rateKey(cfg config.RateLimitConfig, tier string, c echo.Context) string {
    ip := c.RealIP()
    if ip == "" {
        ip = "unknown"
    }
    parts := []string{cfg.Prefix, tier, ip}
    if strings.ToLower(cfg.KeyStrategy) != "ip" {
        route := c.Path()
        if route == "" {
            route = c.Request().URL.Path
        }
        parts = append(parts, c.Request().Method+" "+route)
    }
    return strings.Join(parts, ":")
}
