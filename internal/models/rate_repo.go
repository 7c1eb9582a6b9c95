package models

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateWindowStore counts hits inside fixed expiring windows.
type RateWindowStore interface {
	IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// IncrementWindow bumps the counter at key, starting a window of the given
// length on the first hit, and returns the count and the time left.
func (r *RedisRepo) IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	if r.client == nil {
		return 0, 0, fmt.Errorf("redis client is nil")
	}
	if key == "" || window <= 0 {
		return 0, 0, fmt.Errorf("invalid rate window payload")
	}

	var incr *redis.IntCmd
	var ttlCmd *redis.DurationCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		ttlCmd = pipe.TTL(ctx, key)
		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("increment rate key: %w", err)
	}

	count, ttl := incr.Val(), ttlCmd.Val()
	// a fresh key, or one left without expiry, starts a new window
	if ttl < 0 {
		if err := r.client.Expire(ctx, key, window).Err(); err != nil {
			return 0, 0, fmt.Errorf("set rate key ttl: %w", err)
		}
		ttl = window
	}
	return count, ttl, nil
}
