package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed-window counter shared across processes.
// Key format: ratelimit:<identifier>; the key's TTL is the window.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewRedisLimiter creates a limiter backed by the given Redis client.
func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	if limit <= 0 {
		limit = defaultLimit
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &RedisLimiter{client: client, limit: limit, window: window}
}

// Allow increments the identifier's counter, starting a new window when the
// key does not exist. The expiry is set only on the first increment so the
// window does not slide. At or past the limit the attempt is denied and the
// counter is rolled back, matching the increment-then-compare contract.
func (l *RedisLimiter) Allow(ctx context.Context, identifier string) (bool, error) {
	key := l.key(identifier)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("ratelimit incr: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return false, fmt.Errorf("ratelimit expire: %w", err)
		}
	}

	if count > int64(l.limit) {
		// Denied attempts do not consume budget.
		if err := l.client.Decr(ctx, key).Err(); err != nil {
			return false, fmt.Errorf("ratelimit decr: %w", err)
		}
		return false, nil
	}

	return true, nil
}

func (l *RedisLimiter) key(identifier string) string {
	return "ratelimit:" + identifier
}
