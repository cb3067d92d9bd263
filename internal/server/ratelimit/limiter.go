// Package ratelimit enforces per-identity-key sliding-window quotas in front
// of authentication operations. Each purpose (sign-in, sign-up) has an
// independent quota; the counter store is the single source of truth so the
// quota holds across gateway instances.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authgate/internal/common"
)

// Purpose distinguishes independent rate-limit buckets.
type Purpose string

const (
	PurposeSignIn Purpose = "signin"
	PurposeSignUp Purpose = "signup"
)

// FallbackIdentityKey buckets callers whose network address could not be
// determined. All such callers share one quota: an unidentified caller must
// never bypass throttling.
const FallbackIdentityKey = "unknown"

// Quota is the number of attempts admitted within any trailing window.
type Quota struct {
	Limit  int64
	Window time.Duration
}

// Decision is the outcome of a rate-limit check. RetryAfter is a coarse
// hint only; it is deliberately too imprecise to aid an attacker's timing.
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

// CounterStore records attempts and counts them within a trailing window.
// Increment must be atomic relative to concurrent calls on the same key:
// two concurrent increments may never observe the same count.
type CounterStore interface {
	// Increment records one attempt under key and returns the number of
	// attempts within the trailing window, including this one.
	Increment(ctx context.Context, key string, window time.Duration) (int64, error)
}

// Limiter decides whether a new attempt for a purpose/identity key is
// admitted. It is safe for concurrent use.
type Limiter struct {
	store  CounterStore
	quotas map[Purpose]Quota
}

func NewLimiter(store CounterStore, quotas map[Purpose]Quota) *Limiter {
	return &Limiter{store: store, quotas: quotas}
}

// Check records an attempt and reports whether it is admitted.
//
// The attempt is counted regardless of what the caller does afterwards:
// the quota limits attempt volume, not success volume, and consumed quota
// is never rolled back on downstream failure or caller cancellation.
//
// A counter-store failure fails closed: Check returns a denying Decision
// together with an error wrapping common.ErrorUnavailable so the caller can
// log the cause.
func (l *Limiter) Check(ctx context.Context, purpose Purpose, identityKey string) (Decision, error) {
	if identityKey == "" {
		identityKey = FallbackIdentityKey
	}

	quota, ok := l.quotas[purpose]
	if !ok {
		return Decision{}, fmt.Errorf("no quota configured for purpose %q", purpose)
	}

	count, err := l.store.Increment(ctx, bucketKey(purpose, identityKey), quota.Window)
	if err != nil {
		return Decision{RetryAfter: retryHint(quota.Window)},
			fmt.Errorf("counter store: %w: %w", common.ErrorUnavailable, err)
	}

	if count > quota.Limit {
		return Decision{RetryAfter: retryHint(quota.Window)}, nil
	}
	return Decision{Allowed: true}, nil
}

func bucketKey(purpose Purpose, identityKey string) string {
	return fmt.Sprintf("ratelimit:%s:%s", purpose, identityKey)
}

// retryHint rounds the window up to whole seconds.
func retryHint(window time.Duration) time.Duration {
	return window.Round(time.Second)
}
