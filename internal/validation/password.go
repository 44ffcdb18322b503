package validation

import (
	"errors"
)

// ValidatePassword enforces the account password policy: at least 8
// characters, at most 72 bytes (bcrypt silently truncates anything longer).
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	if len(password) > 72 {
		return errors.New("password must not exceed 72 characters")
	}

	return nil
}
