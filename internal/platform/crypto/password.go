package crypto

import (
	"errors"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedPassword), nil
}

func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

var (
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong  = errors.New("password must be at most 72 bytes")
	ErrPasswordNoLetter = errors.New("password must contain at least one letter")
	ErrPasswordNoNumber = errors.New("password must contain at least one number")
)

var (
	letterPattern = regexp.MustCompile(`[A-Za-z]`)
	numberPattern = regexp.MustCompile(`[0-9]`)
)

// ValidatePasswordStrength enforces the signup password policy. bcrypt
// ignores input past 72 bytes, so longer passwords are refused outright.
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return ErrPasswordTooShort
	}
	if len(password) > 72 {
		return ErrPasswordTooLong
	}
	if !letterPattern.MatchString(password) {
		return ErrPasswordNoLetter
	}
	if !numberPattern.MatchString(password) {
		return ErrPasswordNoNumber
	}
	return nil
}
