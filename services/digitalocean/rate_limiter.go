package digitalocean

import (
	"context"
	"sync"
	"time"
)

// RateLimiter implements a token bucket limiter for inference requests.
// The GenAI endpoints throttle aggressively, so calls wait for a token
// instead of burning attempts on 429 responses.
type RateLimiter struct {
	mu sync.Mutex

	tokens         float64
	maxTokens      float64
	refillRate     float64 // tokens per second
	lastRefillTime time.Time
	lastRequest    time.Time
	minInterval    time.Duration
}

// RateLimiterConfig holds configuration for the rate limiter
type RateLimiterConfig struct {
	MaxTokens   float64       // Max burst capacity (default: 5)
	RefillRate  float64       // Tokens per second (default: 0.5)
	MinInterval time.Duration // Minimum time between requests (default: 500ms)
}

// DefaultRateLimiterConfig returns sensible defaults for the inference API
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		MaxTokens:   5,
		RefillRate:  0.5,
		MinInterval: 500 * time.Millisecond,
	}
}

// NewRateLimiter creates a new rate limiter with the given config
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.MaxTokens <= 0 {
		config.MaxTokens = 5
	}
	if config.RefillRate <= 0 {
		config.RefillRate = 0.5
	}
	if config.MinInterval <= 0 {
		config.MinInterval = 500 * time.Millisecond
	}

	now := time.Now()
	return &RateLimiter{
		tokens:         config.MaxTokens,
		maxTokens:      config.MaxTokens,
		refillRate:     config.RefillRate,
		lastRefillTime: now,
		minInterval:    config.MinInterval,
	}
}

// Wait blocks until a token is available or the context is cancelled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		r.mu.Lock()
		r.refillTokens()

		sinceLast := time.Since(r.lastRequest)
		if r.tokens >= 1 && sinceLast >= r.minInterval {
			r.tokens--
			r.lastRequest = time.Now()
			r.mu.Unlock()
			return nil
		}

		// Figure out how long until either constraint clears
		wait := r.minInterval - sinceLast
		if r.tokens < 1 {
			tokenWait := time.Duration((1 - r.tokens) / r.refillRate * float64(time.Second))
			if tokenWait > wait {
				wait = tokenWait
			}
		}
		r.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// refillTokens adds tokens based on elapsed time. Caller must hold the lock.
func (r *RateLimiter) refillTokens() {
	now := time.Now()
	elapsed := now.Sub(r.lastRefillTime).Seconds()
	r.tokens += elapsed * r.refillRate
	if r.tokens > r.maxTokens {
		r.tokens = r.maxTokens
	}
	r.lastRefillTime = now
}

// AvailableTokens returns the current token count (for diagnostics)
func (r *RateLimiter) AvailableTokens() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refillTokens()
	return r.tokens
}
