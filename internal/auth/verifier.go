package auth

import (
	"errors"
	"strings"

	"bookstore/internal/platform/crypto"
)

const bearerPrefix = "Bearer "

type Verifier struct {
	secret string
}

// NewVerifier refuses an empty secret; there is no fallback signing key.
func NewVerifier(secret string) (*Verifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("auth: empty signing secret")
	}
	return &Verifier{secret: secret}, nil
}

// Verify checks the token's signature and expiry and returns the identity it
// was issued for.
func (v *Verifier) Verify(token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrMissingToken
	}

	claims, err := crypto.ParseToken(v.secret, token)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	if claims.UserID <= 0 || claims.Role == "" {
		return Identity{}, ErrInvalidToken
	}

	return Identity{SubjectID: claims.UserID, Role: claims.Role}, nil
}

// BearerToken extracts <token> from an "Authorization: Bearer <token>" value.
func BearerToken(header string) (string, error) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", ErrMissingToken
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}
