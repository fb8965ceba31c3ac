package account

import (
	"strings"
	"unicode"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 256
)

type PasswordHasher interface {
	HashPassword(password RawPassword) (PasswordHash, error)
	ValidatePassword(password RawPassword, hash PasswordHash) bool
}

// ValidateNewPassword enforces the strength policy for passwords chosen by users.
func ValidateNewPassword(password RawPassword) error {
	raw := string(password)
	if strings.TrimSpace(raw) == "" {
		return NewValidationError("password must not be empty")
	}
	length := len([]rune(raw))
	if length < MinPasswordLength {
		return NewValidationError("password must be at least 8 characters long")
	}
	if length > MaxPasswordLength {
		return NewValidationError("password must be at most 256 characters long")
	}

	var hasLetter, hasDigit bool
	for _, r := range raw {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return NewValidationError("password must contain at least one letter and one digit")
	}
	return nil
}
