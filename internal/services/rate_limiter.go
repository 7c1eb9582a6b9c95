package services

import (
	"context"
	"fmt"
	"time"

	"github.com/joshua-takyi/rendez/internal/models"
)

const rateWindow = time.Minute

// RateLimiter caps attempts per key inside a fixed one minute window.
type RateLimiter struct {
	store     models.RateWindowStore
	perMinute int
}

// NewRateLimiter returns a limiter over store. Without a store the limiter
// lets every request through.
func NewRateLimiter(store models.RateWindowStore, perMinute int) *RateLimiter {
	if perMinute < 0 || store == nil {
		perMinute = 0
	}
	return &RateLimiter{
		store:     store,
		perMinute: perMinute,
	}
}

// Allow records one attempt for scope/key. When the window is exhausted it
// returns allowed=false and the seconds until the window resets. A zero
// limit disables the check.
func (l *RateLimiter) Allow(ctx context.Context, scope, key string) (int64, bool, error) {
	if l.perMinute == 0 {
		return 0, true, nil
	}
	if scope == "" || key == "" {
		return 0, false, fmt.Errorf("invalid rate limit key")
	}

	count, ttl, err := l.store.IncrementWindow(ctx, "rate:"+scope+":"+key, rateWindow)
	if err != nil {
		return 0, false, err
	}
	if count > int64(l.perMinute) {
		return ceilSeconds(ttl), false, nil
	}
	return 0, true, nil
}

// Enabled reports whether requests are being counted.
func (l *RateLimiter) Enabled() bool {
	return l.perMinute > 0
}

func ceilSeconds(d time.Duration) int64 {
	if d <= 0 {
		return 1
	}
	sec := int64(d / time.Second)
	if d%time.Second != 0 {
		sec++
	}
	return sec
}
