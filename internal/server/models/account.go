package models

import "time"

// Account is a persisted identity. The ID is assigned by the store and
// immutable; Username is unique and case-sensitive; PasswordHash is an
// opaque bcrypt digest, never the plaintext.
type Account struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
