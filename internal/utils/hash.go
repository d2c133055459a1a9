package utils

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is lowered by tests.
var BcryptCost = 12

const (
	MinPasswordLength = 6
	// bcrypt ignores input past this many bytes
	MaxPasswordBytes = 72
)

var (
	ErrPasswordTooShort = fmt.Errorf("must be at least %d characters", MinPasswordLength)
	ErrPasswordTooLong  = fmt.Errorf("must be at most %d bytes", MaxPasswordBytes)
)

// ValidatePassword checks pw against the length bounds bcrypt can honour.
func ValidatePassword(pw string) error {
	switch {
	case len([]rune(pw)) < MinPasswordLength:
		return ErrPasswordTooShort
	case len(pw) > MaxPasswordBytes:
		return ErrPasswordTooLong
	}
	return nil
}

func HashPassword(pw string) (string, error) {
	if err := ValidatePassword(pw); err != nil {
		return "", err
	}
	b, err := bcrypt.GenerateFromPassword([]byte(pw), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// CheckPassword reports whether pw matches hashed. An empty or malformed hash
// never matches.
func CheckPassword(hashed, pw string) bool {
	if hashed == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}
