package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"match-backend/internal/delivery/http/response"
	"match-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Time window duration
	Window time.Duration
	// Key prefix for Redis (default: "rl:ip:")
	KeyPrefix string
	// Custom key extractor (default: client IP)
	KeyFunc func(*gin.Context) string
}

// Lua script for atomic increment with TTL on first set
// KEYS[1] = counter key
// ARGV[1] = TTL in seconds
// Returns: [current_count, ttl_remaining]
var rateLimitScript = goredis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`)

func DefaultRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{
		Limit:     limit,
		Window:    window,
		KeyPrefix: "rl:ip:",
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	}
}

func LoginRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	cfg := DefaultRateLimitConfig(limit, window)
	cfg.KeyPrefix = "rl:login:"
	return cfg
}

// localLimiters is the in-process fallback: one token bucket per key that
// refills Limit tokens per Window. A bucket idle for a whole window is full
// again, so it is dropped and recreated on demand.
type localLimiters struct {
	mu        sync.Mutex
	entries   map[string]*localEntry
	limit     rate.Limit
	burst     int
	idle      time.Duration
	lastPrune time.Time
	now       func() time.Time
}

type localEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLocalLimiters(cfg RateLimitConfig) *localLimiters {
	return &localLimiters{
		entries: make(map[string]*localEntry),
		limit:   rate.Limit(float64(cfg.Limit) / cfg.Window.Seconds()),
		burst:   cfg.Limit,
		idle:    cfg.Window,
		now:     time.Now,
	}
}

func (l *localLimiters) allow(key string) bool {
	now := l.now()

	l.mu.Lock()
	if now.Sub(l.lastPrune) >= l.idle {
		l.prune(now)
	}
	e, ok := l.entries[key]
	if !ok {
		e = &localEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[key] = e
	}
	e.lastSeen = now
	l.mu.Unlock()

	return e.limiter.AllowN(now, 1)
}

// prune must be called with l.mu held.
func (l *localLimiters) prune(now time.Time) {
	for key, e := range l.entries {
		if now.Sub(e.lastSeen) >= l.idle {
			delete(l.entries, key)
		}
	}
	l.lastPrune = now
}

// RateLimitMiddleware limits requests per key. It counts in Redis when a
// client is given and falls back to in-process token buckets otherwise or
// when Redis errors.
func RateLimitMiddleware(client *goredis.Client, cfg RateLimitConfig) gin.HandlerFunc {
	local := newLocalLimiters(cfg)

	return func(c *gin.Context) {
		key := cfg.KeyPrefix + cfg.KeyFunc(c)

		allowed := true
		if client != nil {
			count, ttl, err := checkRateLimitRedis(c.Request.Context(), client, key, cfg.Window)
			if err == nil {
				allowed = count <= cfg.Limit
				c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
				c.Header("X-RateLimit-Remaining", strconv.Itoa(max(cfg.Limit-count, 0)))
				if !allowed {
					c.Header("Retry-After", strconv.Itoa(ttl))
				}
			} else {
				logger.Log.Warn("Rate limit redis error, using local limiter", "error", err)
				allowed = local.allow(key)
			}
		} else {
			allowed = local.allow(key)
		}

		if !allowed {
			response.Error(c, http.StatusTooManyRequests, "Too many requests. Please try again later.", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

func checkRateLimitRedis(ctx context.Context, client *goredis.Client, key string, window time.Duration) (int, int, error) {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	res, err := rateLimitScript.Run(ctx, client, []string{key}, int(window.Seconds())).Int64Slice()
	if err != nil {
		return 0, 0, err
	}
	return int(res[0]), int(res[1]), nil
}
