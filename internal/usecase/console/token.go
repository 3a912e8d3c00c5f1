package console

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenClaims are the claims the console reads from its bearer token.
type tokenClaims struct {
	Subject   string
	ExpiresAt time.Time
}

// parseTokenClaims reads the subject and expiry of a JWT without verifying its
// signature; the backend remains the authority. Opaque tokens yield zero claims.
func parseTokenClaims(token string) tokenClaims {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return tokenClaims{}
	}

	out := tokenClaims{Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out
}
