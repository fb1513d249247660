// internal/infrastructure/database/redis/limiter.go
package redis

import (
	"context"
	"fmt"
	"time"
)

// Allowance is the outcome of one rate limit check
type Allowance struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RateLimiter counts requests per key in fixed windows
type RateLimiter struct {
	client *Client
	limit  int
	window time.Duration
}

// NewRateLimiter allows limit requests per key in each window
func NewRateLimiter(client *Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, limit: limit, window: window}
}

// Allow records a request for key and reports whether it fits the window
func (l *RateLimiter) Allow(ctx context.Context, key string) (Allowance, error) {
	key = "rate_limit:" + key

	count, err := l.client.Redis.Incr(ctx, key).Result()
	if err != nil {
		return Allowance{}, fmt.Errorf("rate limit check failed: %w", err)
	}
	if count == 1 {
		if err := l.client.Redis.Expire(ctx, key, l.window).Err(); err != nil {
			return Allowance{}, fmt.Errorf("rate limit check failed: %w", err)
		}
	}

	reset, err := l.client.Redis.PTTL(ctx, key).Result()
	if err != nil || reset <= 0 {
		reset = l.window
	}

	remaining := l.limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return Allowance{
		Allowed:   int(count) <= l.limit,
		Limit:     l.limit,
		Remaining: remaining,
		ResetAt:   time.Now().Add(reset),
	}, nil
}
