package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/joshua-takyi/rendez/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, perMinute int) (*RateLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRateLimiter(models.RedisNewRepo(client), perMinute), mr
}

func TestRateLimiterBlocksAfterLimit(t *testing.T) {
	limiter, mr := newTestLimiter(t, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, ok, err := limiter.Allow(ctx, "login", "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, ok)
	}

	retry, ok, err := limiter.Allow(ctx, "login", "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(60), retry)

	// other keys and scopes are counted separately
	_, ok, err = limiter.Allow(ctx, "login", "5.6.7.8")
	require.NoError(t, err)
	assert.True(t, ok)
	_, ok, err = limiter.Allow(ctx, "register", "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(time.Minute + time.Second)
	_, ok, err = limiter.Allow(ctx, "login", "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRateLimiterDisabled(t *testing.T) {
	limiter := NewRateLimiter(nil, 0)
	for i := 0; i < 100; i++ {
		_, ok, err := limiter.Allow(context.Background(), "login", "k")
		require.NoError(t, err)
		require.True(t, ok)
	}
}

func TestRateLimiterWithoutStoreIsDisabled(t *testing.T) {
	limiter := NewRateLimiter(nil, 5)
	assert.False(t, limiter.Enabled())
	for i := 0; i < 10; i++ {
		_, ok, err := limiter.Allow(context.Background(), "login", "1.2.3.4")
		require.NoError(t, err)
		require.True(t, ok)
	}
}

func TestCeilSeconds(t *testing.T) {
	assert.Equal(t, int64(1), ceilSeconds(0))
	assert.Equal(t, int64(2), ceilSeconds(1500*time.Millisecond))
	assert.Equal(t, int64(3), ceilSeconds(3*time.Second))
}
