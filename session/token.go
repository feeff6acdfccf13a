package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpired reports whether a stored bearer token carries an exp claim
// that has already passed. The token is parsed unverified: the client holds
// no signing key and the server remains the authority, this only avoids
// restoring a session the first authenticated call would immediately reject.
// Tokens that do not parse as JWTs are treated as opaque and kept.
func TokenExpired(token string) bool {
	if token == "" {
		return true
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return false
	}

	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
