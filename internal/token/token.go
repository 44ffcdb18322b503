// Package token signs and verifies the four JWT kinds the app uses. Each kind
// has its own HMAC secret, so a token of one kind can never be replayed as
// another.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type Kind string

const (
	KindAccess        Kind = "access"
	KindRefresh       Kind = "refresh"
	KindEmailVerify   Kind = "email_verify"
	KindPasswordReset Kind = "password_reset"
)

// Claims carried by a signed token. Subject holds the user ID. Email and
// FullName ride on access tokens, Email+Secret on verification tokens and
// Secret on password reset tokens.
type Claims struct {
	jwt.RegisteredClaims
	Email    string `json:"email,omitempty"`
	FullName string `json:"fullName,omitempty"`
	Secret   string `json:"secret,omitempty"`
}

type Service struct {
	secrets map[Kind][]byte
}

func NewService(accessSecret, refreshSecret, emailVerifySecret, passwordResetSecret string) *Service {
	return &Service{
		secrets: map[Kind][]byte{
			KindAccess:        []byte(accessSecret),
			KindRefresh:       []byte(refreshSecret),
			KindEmailVerify:   []byte(emailVerifySecret),
			KindPasswordReset: []byte(passwordResetSecret),
		},
	}
}

// Issue signs claims with the secret for kind and an expiry ttl from now.
func (s *Service) Issue(kind Kind, claims Claims, ttl time.Duration) (string, error) {
	secret, ok := s.secrets[kind]
	if !ok {
		return "", fmt.Errorf("unknown token kind %q", kind)
	}

	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", kind, err)
	}

	return signed, nil
}

// Verify checks signature and expiry for the given kind. Any failure, from a
// malformed token to an expired one, collapses into ErrInvalidToken.
func (s *Service) Verify(kind Kind, tokenString string) (*Claims, error) {
	secret, ok := s.secrets[kind]
	if !ok {
		return nil, fmt.Errorf("unknown token kind %q", kind)
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
