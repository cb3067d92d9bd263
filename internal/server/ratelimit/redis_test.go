package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisCounterStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisCounterStore(rdb), mr
}

func TestRedisIncrement_CountsAttempts(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := store.Increment(ctx, "ratelimit:signin:10.0.0.1", 15*time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestRedisIncrement_KeysAreIndependent(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	_, err := store.Increment(ctx, "ratelimit:signin:10.0.0.1", 15*time.Minute)
	require.NoError(t, err)

	got, err := store.Increment(ctx, "ratelimit:signup:10.0.0.1", 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got, "purpose is part of the key")
}

func TestRedisIncrement_PrunesExpiredAttempts(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	current := time.Now()
	store.now = func() time.Time { return current }

	for i := 0; i < 3; i++ {
		_, err := store.Increment(ctx, "ratelimit:signin:10.0.0.2", time.Minute)
		require.NoError(t, err)
	}

	// Slide past the window: the old attempts no longer count.
	current = current.Add(2 * time.Minute)

	got, err := store.Increment(ctx, "ratelimit:signin:10.0.0.2", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestRedisIncrement_SetsExpiry(t *testing.T) {
	store, mr := newRedisStore(t)

	_, err := store.Increment(context.Background(), "ratelimit:signin:10.0.0.3", time.Minute)
	require.NoError(t, err)

	ttl := mr.TTL("ratelimit:signin:10.0.0.3")
	assert.Greater(t, ttl, time.Duration(0), "idle windows must age out via TTL")
	assert.LessOrEqual(t, ttl, time.Minute)
}

func TestRedisIncrement_ErrorWhenUnreachable(t *testing.T) {
	store, mr := newRedisStore(t)
	mr.Close()

	_, err := store.Increment(context.Background(), "ratelimit:signin:10.0.0.4", time.Minute)
	require.Error(t, err)
}
