package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryCounterStore keeps sliding-window attempt logs in process memory.
// It serves tests and single-node development; deployments with more than
// one gateway instance need the Redis store so the quota stays correct
// under scale-out.
type MemoryCounterStore struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	now      func() time.Time
}

func NewMemoryCounterStore() *MemoryCounterStore {
	return &MemoryCounterStore{
		attempts: make(map[string][]time.Time),
		now:      time.Now,
	}
}

// Increment records one attempt under key and returns the number of attempts
// within the trailing window. The mutex serializes concurrent increments on
// the same key, so no two callers observe the same count.
func (s *MemoryCounterStore) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	cutoff := now.Add(-window)

	kept := s.attempts[key][:0]
	for _, ts := range s.attempts[key] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	kept = append(kept, now)
	s.attempts[key] = kept

	return int64(len(kept)), nil
}
