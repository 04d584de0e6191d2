package auth

import "errors"

var (
	// ErrMissingToken means the request carried no bearer token at all.
	ErrMissingToken = errors.New("access token required")
	// ErrInvalidToken covers bad signatures, expiry and malformed tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrForbidden is returned by the role gate.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthorized is returned by Login for unknown users and wrong passwords.
	ErrUnauthorized = errors.New("invalid email or password")
)

// Identity is the verified caller of a request. It only lives in the request
// context and is never stored.
type Identity struct {
	SubjectID int64
	Role      string
}
