package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type tokenClaims struct {
	SID string `json:"sid"`
	jwt.RegisteredClaims
}

// mintToken signs a session id into a compact HS256 token.
func mintToken(secret []byte, sid string, now time.Time, ttl time.Duration) (string, error) {
	claims := tokenClaims{
		SID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// verifyToken extracts the session id from a token. Any failure, expiry
// included, reads as sessionless: ok is false and the caller mints a fresh
// session.
func verifyToken(secret []byte, token string) (string, bool) {
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid || claims.SID == "" {
		return "", false
	}
	return claims.SID, true
}
