package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sahilchouksey/syllabus-planner/utils/cache"
	"github.com/sahilchouksey/syllabus-planner/utils/response"
)

// RateLimiter throttles expensive endpoints per client IP using Redis
// counters. Each extraction run fans out into several inference calls, so
// an unthrottled client can burn through the model quota quickly.
type RateLimiter struct {
	redisCache *cache.RedisCache
	limit      int64
	window     time.Duration
}

// NewRateLimiter creates a limiter allowing `limit` requests per `window`
// per IP.
func NewRateLimiter(redisCache *cache.RedisCache, limit int64, window time.Duration) *RateLimiter {
	return &RateLimiter{
		redisCache: redisCache,
		limit:      limit,
		window:     window,
	}
}

// Limit is the fiber middleware. When Redis is unreachable requests pass
// through; cache trouble should not take the API down with it.
func (r *RateLimiter) Limit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if r.redisCache == nil {
			return c.Next()
		}

		key := fmt.Sprintf("rate_limit:%s:%s", c.Path(), c.IP())

		count, err := r.redisCache.Increment(c.Context(), key)
		if err != nil {
			return c.Next()
		}

		// First hit in the window sets the expiry
		if count == 1 {
			if err := r.redisCache.Expire(c.Context(), key, r.window); err != nil {
				return c.Next()
			}
		}

		if count > r.limit {
			ttl, _ := r.redisCache.TTL(c.Context(), key)
			retryAfter := int(ttl.Seconds())
			if retryAfter < 0 {
				retryAfter = int(r.window.Seconds())
			}

			c.Set("Retry-After", fmt.Sprintf("%d", retryAfter))
			return response.TooManyRequests(c, fmt.Sprintf("Rate limit exceeded. Try again in %d seconds", retryAfter))
		}

		return c.Next()
	}
}
