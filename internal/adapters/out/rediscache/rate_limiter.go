package rediscache

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const rateLimitKeyPrefix = "rl:"

// RateLimiter counts requests per key within a rolling window.
type RateLimiter struct {
	c      *redis.Client
	limit  int64
	window time.Duration
}

func NewRateLimiter(c *redis.Client, limit int64, window time.Duration) *RateLimiter {
	return &RateLimiter{c: c, limit: limit, window: window}
}

// Allow increments the counter for key and refreshes its expiry, so a caller that
// keeps hammering stays blocked until it backs off for a full window.
// Returns whether the request is within the limit and the current count.
func (rl *RateLimiter) Allow(ctx context.Context, key string) (bool, int64, error) {
	key = rateLimitKeyPrefix + key

	pipe := rl.c.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, rl.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, errors.Wrap(err, "redis ratelimit")
	}

	n := incr.Val()
	return n <= rl.limit, n, nil
}
