package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// incrementScript prunes entries older than the trailing window, records the
// new attempt, refreshes the key TTL, and returns the resulting count in one
// atomic step, so concurrent checks on the same key serialize inside Redis
// and no two callers observe the same count.
var incrementScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local member = ARGV[3]
redis.call('ZREMRANGEBYSCORE', key, 0, now - window)
redis.call('ZADD', key, now, member)
redis.call('PEXPIRE', key, window)
return redis.call('ZCARD', key)
`)

// RedisCounterStore implements CounterStore on a shared Redis instance using
// a per-key sorted set as a sliding attempt log. Idle windows expire via the
// key TTL; no explicit deletion is needed.
type RedisCounterStore struct {
	rdb *redis.Client
	now func() time.Time
}

func NewRedisCounterStore(rdb *redis.Client) *RedisCounterStore {
	return &RedisCounterStore{rdb: rdb, now: time.Now}
}

// Increment records one attempt under key and returns the number of attempts
// within the trailing window, including this one.
func (s *RedisCounterStore) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	now := s.now().UnixMilli()
	// Random member suffix keeps concurrent attempts in the same
	// millisecond distinct.
	member := fmt.Sprintf("%d-%s", now, uuid.NewString())

	count, err := incrementScript.Run(ctx, s.rdb, []string{key}, now, window.Milliseconds(), member).Int64()
	if err != nil {
		return 0, fmt.Errorf("redis increment: %w", err)
	}
	return count, nil
}
