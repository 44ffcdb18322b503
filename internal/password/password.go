// Package password covers the two hashing needs of the auth flows: slow
// bcrypt for user passwords and a fast sha256 fingerprint for high-entropy
// random secrets, which only need protection against database leakage.
package password

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the work factor the service has always used.
const bcryptCost = 10

func Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func Compare(plain, digest string) error {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain))
}

// RandomSecret returns n cryptographically random bytes, hex encoded.
func RandomSecret(n int) (string, error) {
	buf := make([]byte, n)
	_, err := rand.Read(buf)
	if err != nil {
		return "", fmt.Errorf("failed to generate secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Fingerprint returns the sha256 hex digest of secret. Stored instead of the
// raw secret so a leaked row cannot be turned back into a usable token.
func Fingerprint(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
