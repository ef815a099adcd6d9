// Package admin issues and verifies the bearer tokens of the admin API.
package admin

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Audience is the aud claim every admin token carries.
const Audience = "kitchen-admin"

var ErrMissingSecret = errors.New("ADMIN_JWT_SECRET environment variable not set")

// NewToken creates an HS256 token valid for ttl.
func NewToken(secret string, ttl time.Duration) (string, error) {
	return newTokenAt(secret, ttl, time.Now())
}

func newTokenAt(secret string, ttl time.Duration, now time.Time) (string, error) {
	if secret == "" {
		return "", ErrMissingSecret
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "admin",
		Audience:  jwt.ClaimStrings{Audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign admin token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, audience and expiry of an admin token.
func Verify(secret, tokenString string) error {
	if secret == "" {
		return ErrMissingSecret
	}
	_, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(*jwt.Token) (interface{}, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(Audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return fmt.Errorf("invalid admin token: %w", err)
	}
	return nil
}
