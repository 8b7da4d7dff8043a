package session

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/avetisovm/amora/internal/common"
)

// SubjectFromToken decodes the access token's payload locally, without
// signature verification, and returns its subject (the caller's own user id).
//
// The value is display-only: it labels optimistic chat messages so the UI can
// render a send without a round trip. It must never feed an authorization
// decision; the server re-derives identity from the verified token.
func SubjectFromToken(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return "", common.ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", common.ErrInvalidToken
	}
	return claims.Subject, nil
}
