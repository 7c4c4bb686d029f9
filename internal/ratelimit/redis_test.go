package ratelimit

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRedisLimiter runs against a real server and is skipped unless
// REDIS_TEST_ADDR is set (e.g. REDIS_TEST_ADDR=localhost:6379).
func TestRedisLimiter(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	ctx := context.Background()
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer func() { _ = rdb.Close() }()
	require.NoError(t, rdb.Ping(ctx).Err())

	l := NewRedisLimiter(rdb, 5, 200*time.Millisecond)
	client := uuid.NewString()
	t.Cleanup(func() { rdb.Del(context.Background(), l.key(client)) })

	for i := 1; i <= 5; i++ {
		d, err := l.Allow(ctx, client)
		require.NoError(t, err)
		assert.True(t, d.Allowed)
		assert.Equal(t, 5-i, d.Remaining)
	}

	d, err := l.Allow(ctx, client)
	require.NoError(t, err)
	assert.False(t, d.Allowed)

	count, err := rdb.Get(ctx, l.key(client)).Int()
	require.NoError(t, err)
	assert.Equal(t, 5, count, "a denied message is not counted")

	assert.Eventually(t, func() bool {
		d, err := l.Allow(ctx, client)
		return err == nil && d.Allowed
	}, 2*time.Second, 50*time.Millisecond)
}
