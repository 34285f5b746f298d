package api

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry reads the exp claim of a bearer token without verifying the
// signature; verification is the server's job, this is only for telling the
// operator to log in again before a scanning session starts with a dead
// token. A token without an exp claim returns the zero time.
func TokenExpiry(token string) (time.Time, error) {
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return time.Time{}, fmt.Errorf("api: parse token: %w", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, nil
	}
	return claims.ExpiresAt.Time, nil
}

// TokenExpired reports whether the token carries an exp claim in the past.
// Unparseable tokens count as expired; the server would reject them anyway.
func TokenExpired(token string, now time.Time) bool {
	expiry, err := TokenExpiry(token)
	if err != nil {
		return true
	}
	if expiry.IsZero() {
		return false
	}
	return now.After(expiry)
}
