package auth

import (
	"crypto/rand"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword produces a salted bcrypt digest of password at the given cost.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the stored bcrypt hash.
// bcrypt compares digests in constant time; the plaintext is never compared
// directly.
func VerifyPassword(hash string, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// NewDummyHash returns a bcrypt hash of random bytes at the given cost.
// Comparing a candidate password against it takes as long as a comparison
// against a real stored hash, which keeps the unknown-username path
// indistinguishable from the wrong-password path. The comparison result is
// always discarded.
func NewDummyHash(cost int) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword(buf, cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
