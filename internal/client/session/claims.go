package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims are the registered claims read from a JWT bearer token.
type TokenClaims struct {
	Subject   string
	ExpiresAt time.Time
}

// Expired reports whether the token carries an expiry that has passed.
func (c TokenClaims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// ParseClaims reads sub and exp without verifying the signature; the client
// never holds the signing key. ok is false for tokens that are not JWTs.
func ParseClaims(token string) (TokenClaims, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return TokenClaims{}, false
	}

	var tc TokenClaims
	tc.Subject = claims.Subject
	if claims.ExpiresAt != nil {
		tc.ExpiresAt = claims.ExpiresAt.Time
	}
	return tc, true
}
