package model

import (
	"time"
)

type User struct {
	ID           string `db:"id"`
	FullName     string `db:"full_name"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	IsVerified   bool   `db:"is_verified"`

	// Fingerprint (sha256) of the email verification secret, cleared once consumed.
	VerificationFingerprint *string `db:"verification_fingerprint"`

	// Current refresh token. Exactly one active session per user: a new
	// login or refresh overwrites it, logout clears it.
	RefreshToken *string `db:"refresh_token"`

	// Fingerprint of the password reset secret plus its explicit expiry,
	// both cleared after a successful reset.
	ResetFingerprint *string    `db:"reset_fingerprint"`
	ResetExpiresAt   *time.Time `db:"reset_expires_at"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Sanitized returns a copy safe to hand to clients and request contexts:
// credential and token columns are stripped.
func (u *User) Sanitized() *User {
	return &User{
		ID:         u.ID,
		FullName:   u.FullName,
		Email:      u.Email,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}
