package config

import (
    "strings"
    "time"
)

// Bucket is one token bucket: Capacity requests of burst, refilled at
// Capacity per Window.
type Bucket struct {
    Capacity int
    Window   time.Duration
}

// RateLimitConfig configures the Redis token buckets in front of every
// route.  Requests under AuthPrefix draw from the stricter Auth bucket so
// credential guessing on login and register is throttled separately from
// dashboard browsing.
type RateLimitConfig struct {
    Enabled     bool
    Prefix      string
    KeyStrategy string // "ip" or "ip_route"
    Default     Bucket
    Auth        Bucket
    AuthPrefix  string
    Debug       bool
}

// LoadRateLimitConfig reads the RATE_LIMIT_* variables.
func LoadRateLimitConfig() RateLimitConfig {
    return RateLimitConfig{
        Enabled:     envBool("RATE_LIMIT_ENABLED", true),
        Prefix:      envStr("RATE_LIMIT_PREFIX", "pm:rl"),
        KeyStrategy: envStr("RATE_LIMIT_KEY_STRATEGY", "ip_route"),
        Default:     loadBucket("RATE_LIMIT", Bucket{Capacity: 120, Window: time.Minute}),
        Auth:        loadBucket("RATE_LIMIT_AUTH", Bucket{Capacity: 10, Window: time.Minute}),
        AuthPrefix:  envStr("RATE_LIMIT_AUTH_PREFIX", "/v1/auth/"),
        Debug:       envBool("RATE_LIMIT_DEBUG", false),
    }
}

// loadBucket reads <prefix>_CAPACITY and <prefix>_WINDOW.
func loadBucket(prefix string, def Bucket) Bucket {
    b := Bucket{
        Capacity: envInt(prefix+"_CAPACITY", def.Capacity),
        Window:   envDur(prefix+"_WINDOW", def.Window),
    }
    if b.Capacity < 1 {
        b.Capacity = 1
    }
    if b.Window <= 0 {
        b.Window = def.Window
    }
    return b
}

// BucketFor picks the bucket that governs path and names it for the key.
func (c RateLimitConfig) BucketFor(path string) (string, Bucket) {
    if c.AuthPrefix != "" && strings.HasPrefix(path, c.AuthPrefix) {
        return "auth", c.Auth
    }
    return "api", c.Default
}

// TTL keeps an idle bucket around long enough to refill completely.
func (b Bucket) TTL() time.Duration {
    return b.Window + time.Minute
}
