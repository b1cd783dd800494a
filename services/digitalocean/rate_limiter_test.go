package digitalocean

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiterAllowsFirstRequestImmediately(t *testing.T) {
	limiter := NewRateLimiter(DefaultRateLimiterConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx); err != nil {
		t.Fatalf("first request should not wait: %v", err)
	}
}

func TestRateLimiterEnforcesMinInterval(t *testing.T) {
	limiter := NewRateLimiter(RateLimiterConfig{
		MaxTokens:   5,
		RefillRate:  100,
		MinInterval: 50 * time.Millisecond,
	})

	ctx := context.Background()
	if err := limiter.Wait(ctx); err != nil {
		t.Fatal(err)
	}

	start := time.Now()
	if err := limiter.Wait(ctx); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("second request waited only %v", elapsed)
	}
}

func TestRateLimiterHonorsContextCancellation(t *testing.T) {
	limiter := NewRateLimiter(RateLimiterConfig{
		MaxTokens:   1,
		RefillRate:  0.01,
		MinInterval: time.Millisecond,
	})

	if err := limiter.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx); err == nil {
		t.Error("expected context deadline error while starved of tokens")
	}
}

func TestRateLimiterDefaultsZeroConfig(t *testing.T) {
	limiter := NewRateLimiter(RateLimiterConfig{})

	if tokens := limiter.AvailableTokens(); tokens != 5 {
		t.Errorf("default bucket should start full at 5, got %f", tokens)
	}
}
