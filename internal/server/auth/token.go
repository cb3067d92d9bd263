// Package auth implements the stateless session credential: a signed,
// time-bounded token embedding the account ID, plus password hashing
// helpers. Tokens are verified by recomputing the signature under the same
// process-wide secret, so no server-side session state exists and rotating
// the secret invalidates every outstanding session.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/authgate/internal/common"
)

// Claims carries the registered claim set plus the account the session
// belongs to.
type Claims struct {
	jwt.RegisteredClaims
	AccountID int64 `json:"aid"`
}

// GenerateToken mints a signed HS256 token embedding accountID with
// exp = now + validityDuration.
func GenerateToken(accountID int64, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		AccountID: accountID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetAccountIDFromToken verifies the signature and expiry of tokenString and
// returns the embedded account ID. Malformed or tampered tokens yield
// common.ErrInvalidToken; expired ones common.ErrTokenExpired. Callers must
// collapse both to a single "not authenticated" outcome; the split exists
// for internal logging only.
func GetAccountIDFromToken(tokenString string, secretKey []byte) (int64, error) {
	claims := &Claims{}

	// Strict decoding: without it a flipped trailing base64 bit can decode
	// to the same payload and slip past the signature check.
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithStrictDecoding())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, common.ErrTokenExpired
		}
		return 0, common.ErrInvalidToken
	}

	if !token.Valid {
		return 0, common.ErrInvalidToken
	}

	return claims.AccountID, nil
}
