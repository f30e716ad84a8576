package rediscache

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const trackingKeyPrefix = "track:"

// DefaultTrackingTTL bounds how stale a driver position in a cached view can get.
const DefaultTrackingTTL = 30 * time.Second

// TrackingCache implements ports.TrackingCache.
type TrackingCache struct {
	c   *redis.Client
	ttl time.Duration
}

func NewTrackingCache(c *redis.Client, ttl time.Duration) *TrackingCache {
	if ttl <= 0 {
		ttl = DefaultTrackingTTL
	}
	return &TrackingCache{c: c, ttl: ttl}
}

func (r *TrackingCache) Get(ctx context.Context, code string) ([]byte, bool, error) {
	val, err := r.c.Get(ctx, trackingKeyPrefix+code).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "redis get")
	}
	return val, true, nil
}

func (r *TrackingCache) Set(ctx context.Context, code string, payload []byte) error {
	if err := r.c.Set(ctx, trackingKeyPrefix+code, payload, r.ttl).Err(); err != nil {
		return errors.Wrap(err, "redis set")
	}
	return nil
}

func (r *TrackingCache) Delete(ctx context.Context, code string) error {
	if err := r.c.Del(ctx, trackingKeyPrefix+code).Err(); err != nil {
		return errors.Wrap(err, "redis del")
	}
	return nil
}
