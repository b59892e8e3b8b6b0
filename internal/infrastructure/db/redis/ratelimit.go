package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// FixedWindowLimiter counts admissions per key in a fixed window using
// INCR + EXPIRE. The first increment of a key starts its window.
type FixedWindowLimiter struct {
	client *redis.Client
}

// NewFixedWindowLimiter creates a FixedWindowLimiter wrapping the given client.
func NewFixedWindowLimiter(client *redis.Client) *FixedWindowLimiter {
	return &FixedWindowLimiter{client: client}
}

// Allow increments the counter for key and reports whether the count is
// still within limit for the current window.
func (l *FixedWindowLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("ratelimit incr: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, key, window).Err(); err != nil {
			return false, fmt.Errorf("ratelimit expire: %w", err)
		}
	}
	return n <= int64(limit), nil
}
