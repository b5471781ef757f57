package verify

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/certforge/certforge/internal/pkg/cache"
)

// Default lookup budget per origin: 30 attempts per minute.
const (
	defaultRateLimit  = 30
	defaultRateWindow = time.Minute
)

// CacheRateLimiter is a fixed-window limiter on top of the shared Redis
// cache. It fails open: when the cache is unreachable, lookups are allowed.
type CacheRateLimiter struct {
	Limit  int
	Window time.Duration
}

func NewCacheRateLimiter() *CacheRateLimiter {
	return &CacheRateLimiter{Limit: defaultRateLimit, Window: defaultRateWindow}
}

func (l *CacheRateLimiter) Allow(origin string) bool {
	if origin == "" {
		return true
	}
	key := fmt.Sprintf("verify:ratelimit:%s", origin)
	count, err := cache.IncrWithExpiry(key, l.Window)
	if err != nil {
		log.Warnf("[Verify] rate limiter unavailable, allowing %s: %v", origin, err)
		return true
	}
	return count <= int64(l.Limit)
}
