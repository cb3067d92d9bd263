// Package common defines shared constants and sentinel errors used across
// the gateway. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// ErrorInvalidCredentials covers both "no such account" and
	// "wrong password"; callers must never distinguish the two.
	ErrorInvalidCredentials = errors.New("invalid username or password")

	// Rate-limit errors.
	ErrorThrottled = errors.New("too many attempts")

	// Token lifecycle errors (bad signature, malformed payload, expiry).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Infrastructure errors. A backing store being unreachable is reported
	// as unavailable; rate-limit checks treat it fail-closed.
	ErrorUnavailable = errors.New("dependency unavailable")
)
