package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpiry reads the exp claim of a JWT without verifying its signature.
// The client cannot verify tokens; the value is informational only.
func tokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}

	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}

	return claims.ExpiresAt.Time, true
}
