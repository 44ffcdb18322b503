package service

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/openquran/versehub/internal/model"
	"github.com/openquran/versehub/internal/password"
	"github.com/openquran/versehub/internal/repository"
	"github.com/openquran/versehub/internal/token"
	"github.com/openquran/versehub/internal/validation"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrNameTaken          = errors.New("this full name is already taken")
	ErrMissingToken       = errors.New("unauthorized request")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenReuse         = errors.New("refresh token has already been used")
	ErrSecretMismatch     = errors.New("token does not match our records")
	ErrUserNotFound       = errors.New("user does not exist")
	ErrEmailDelivery      = errors.New("failed to send email")
)

const (
	verificationSecretBytes = 32
	resetSecretBytes        = 64
)

// TokenPair is an access/refresh credential pair. The refresh token is
// single-use: each refresh rotates both.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type AuthService struct {
	userRepository repository.UserRepository
	tokens         *token.Service
	emailSender    EmailSender
	isProduction   bool
	accessExpiry   time.Duration
	refreshExpiry  time.Duration
	verifyExpiry   time.Duration
	resetExpiry    time.Duration
}

func NewAuthService(
	userRepository repository.UserRepository,
	tokens *token.Service,
	emailSender EmailSender,
	isProduction bool,
	accessExpiry time.Duration,
	refreshExpiry time.Duration,
	verifyExpiry time.Duration,
	resetExpiry time.Duration,
) *AuthService {
	return &AuthService{
		userRepository: userRepository,
		tokens:         tokens,
		emailSender:    emailSender,
		isProduction:   isProduction,
		accessExpiry:   accessExpiry,
		refreshExpiry:  refreshExpiry,
		verifyExpiry:   verifyExpiry,
		resetExpiry:    resetExpiry,
	}
}

// Register creates an unverified account, sends the verification mail and
// logs the registrant in right away. Verification is not a login gate.
//
// The user row is committed before the mail goes out, so a delivery failure
// surfaces as ErrEmailDelivery with the account (and session) already created.
func (s *AuthService) Register(fullName, email, plainPassword string) (*model.User, *TokenPair, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.TrimSpace(strings.ToLower(email))

	if fullName == "" || email == "" || plainPassword == "" {
		return nil, nil, fmt.Errorf("all fields are required: %w", ErrInvalidInput)
	}
	if err := validation.ValidateName(fullName); err != nil {
		return nil, nil, fmt.Errorf("%v: %w", err, ErrInvalidInput)
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, nil, fmt.Errorf("%v: %w", err, ErrInvalidInput)
	}
	if err := validation.ValidatePassword(plainPassword); err != nil {
		return nil, nil, fmt.Errorf("%v: %w", err, ErrInvalidInput)
	}

	// Friendlier than a bare constraint violation; the unique indexes are
	// what actually holds under concurrent registrations.
	_, err := s.userRepository.ByEmail(email)
	if err == nil {
		return nil, nil, ErrEmailTaken
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, nil, fmt.Errorf("failed to check email: %w", err)
	}
	_, err = s.userRepository.ByFullName(fullName)
	if err == nil {
		return nil, nil, ErrNameTaken
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, nil, fmt.Errorf("failed to check full name: %w", err)
	}

	passwordHash, err := password.Hash(plainPassword)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	verificationSecret, err := password.RandomSecret(verificationSecretBytes)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate verification secret: %w", err)
	}
	fingerprint := password.Fingerprint(verificationSecret)

	now := time.Now()
	user := &model.User{
		ID:                      uuid.New().String(),
		FullName:                fullName,
		Email:                   email,
		PasswordHash:            passwordHash,
		VerificationFingerprint: &fingerprint,
		CreatedAt:               now,
		UpdatedAt:               now,
	}

	err = s.userRepository.Create(user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, nil, ErrEmailTaken
		}
		if errors.Is(err, repository.ErrDuplicateName) {
			return nil, nil, ErrNameTaken
		}
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, nil, err
	}

	verifyToken, err := s.tokens.Issue(token.KindEmailVerify, token.Claims{
		Email:  user.Email,
		Secret: verificationSecret,
	}, s.verifyExpiry)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to issue verification token: %w", err)
	}

	err = s.emailSender.SendVerificationEmail(user.Email, verifyToken)
	if err != nil {
		slog.Error("failed to send verification email", "error", err, "email", user.Email)
		return user.Sanitized(), pair, ErrEmailDelivery
	}

	slog.Info("user registered", "user_id", user.ID, "email", user.Email)
	return user.Sanitized(), pair, nil
}

// Login checks credentials and starts a fresh session, invalidating any
// previous refresh token. Unknown email and wrong password are deliberately
// indistinguishable.
func (s *AuthService) Login(email, plainPassword string) (*model.User, *TokenPair, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}

	err = password.Compare(plainPassword, user.PasswordHash)
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, nil, err
	}

	slog.Info("user logged in", "user_id", user.ID)
	return user.Sanitized(), pair, nil
}

// Logout clears the stored refresh token. Idempotent.
func (s *AuthService) Logout(userID string) error {
	err := s.userRepository.SetRefreshToken(userID, nil)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	return nil
}

// Refresh exchanges a refresh token for a new pair. Tokens are single-use:
// presenting a superseded token fails ErrTokenReuse, which also catches
// replays after the legitimate holder rotated.
func (s *AuthService) Refresh(incoming string) (*TokenPair, error) {
	if incoming == "" {
		return nil, ErrMissingToken
	}

	claims, err := s.tokens.Verify(token.KindRefresh, incoming)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepository.ByID(claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.RefreshToken == nil || *user.RefreshToken != incoming {
		slog.Warn("refresh token reuse detected", "user_id", user.ID)
		return nil, ErrTokenReuse
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, err
	}

	return pair, nil
}

// VerifyEmail consumes a verification token. The raw secret inside the token
// must fingerprint to the stored value; after success the fingerprint is
// cleared, so replaying the same token fails ErrSecretMismatch.
func (s *AuthService) VerifyEmail(tokenString string) error {
	claims, err := s.tokens.Verify(token.KindEmailVerify, tokenString)
	if err != nil {
		return ErrInvalidToken
	}

	user, err := s.userRepository.ByEmail(claims.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if user.VerificationFingerprint == nil || password.Fingerprint(claims.Secret) != *user.VerificationFingerprint {
		return ErrSecretMismatch
	}

	user.IsVerified = true
	user.VerificationFingerprint = nil
	err = s.userRepository.Update(user)
	if err != nil {
		return fmt.Errorf("failed to mark user verified: %w", err)
	}

	slog.Info("email verified", "user_id", user.ID)
	return nil
}

// RequestPasswordReset stores a fingerprint of a fresh reset secret together
// with an explicit expiry, then mails a signed token embedding the raw
// secret. A newer request supersedes any outstanding one.
func (s *AuthService) RequestPasswordReset(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	resetSecret, err := password.RandomSecret(resetSecretBytes)
	if err != nil {
		return fmt.Errorf("failed to generate reset secret: %w", err)
	}

	fingerprint := password.Fingerprint(resetSecret)
	expiresAt := time.Now().Add(s.resetExpiry)
	user.ResetFingerprint = &fingerprint
	user.ResetExpiresAt = &expiresAt

	err = s.userRepository.Update(user)
	if err != nil {
		return fmt.Errorf("failed to store reset fingerprint: %w", err)
	}

	resetToken, err := s.tokens.Issue(token.KindPasswordReset, token.Claims{
		RegisteredClaims: subjectClaims(user.ID),
		Secret:           resetSecret,
	}, s.resetExpiry)
	if err != nil {
		return fmt.Errorf("failed to issue reset token: %w", err)
	}

	err = s.emailSender.SendPasswordResetEmail(user.Email, resetToken)
	if err != nil {
		slog.Error("failed to send password reset email", "error", err, "email", user.Email)
		return ErrEmailDelivery
	}

	slog.Info("password reset link sent", "user_id", user.ID)
	return nil
}

// CompletePasswordReset sets a new password if the token's secret matches the
// stored fingerprint and the stored expiry has not passed. The stored expiry
// double-checks the token's own exp claim. Success clears both reset fields,
// so the token cannot be reused.
func (s *AuthService) CompletePasswordReset(tokenString, newPassword string) error {
	if tokenString == "" || newPassword == "" {
		return fmt.Errorf("reset token and new password are required: %w", ErrInvalidInput)
	}
	if err := validation.ValidatePassword(newPassword); err != nil {
		return fmt.Errorf("%v: %w", err, ErrInvalidInput)
	}

	claims, err := s.tokens.Verify(token.KindPasswordReset, tokenString)
	if err != nil {
		return ErrInvalidToken
	}

	user, err := s.userRepository.ByID(claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if user.ResetFingerprint == nil || password.Fingerprint(claims.Secret) != *user.ResetFingerprint {
		return ErrSecretMismatch
	}
	if user.ResetExpiresAt == nil || time.Now().After(*user.ResetExpiresAt) {
		return ErrSecretMismatch
	}

	passwordHash, err := password.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = passwordHash
	user.ResetFingerprint = nil
	user.ResetExpiresAt = nil
	err = s.userRepository.Update(user)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	slog.Info("password reset completed", "user_id", user.ID)
	return nil
}

// VerifyAccessToken validates an access token and returns its claims.
// Used by the auth middleware.
func (s *AuthService) VerifyAccessToken(tokenString string) (*token.Claims, error) {
	claims, err := s.tokens.Verify(token.KindAccess, tokenString)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func subjectClaims(userID string) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{Subject: userID}
}

// issuePair mints a new access+refresh pair and persists the refresh token,
// invalidating whatever session was active before.
func (s *AuthService) issuePair(user *model.User) (*TokenPair, error) {
	access, err := s.tokens.Issue(token.KindAccess, token.Claims{
		RegisteredClaims: subjectClaims(user.ID),
		Email:            user.Email,
		FullName:         user.FullName,
	}, s.accessExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	// The jti makes every issuance distinct even inside the same second
	// (jwt timestamps have second precision); without it a back-to-back
	// rotation could mint a byte-identical token and reuse detection
	// would never trip.
	refresh, err := s.tokens.Issue(token.KindRefresh, token.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: user.ID,
			ID:      uuid.New().String(),
		},
	}, s.refreshExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	err = s.userRepository.SetRefreshToken(user.ID, &refresh)
	if err != nil {
		return nil, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) SetAuthCookies(w http.ResponseWriter, pair *TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     "accessToken",
		Value:    pair.AccessToken,
		Expires:  time.Now().Add(s.accessExpiry),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "refreshToken",
		Value:    pair.RefreshToken,
		Expires:  time.Now().Add(s.refreshExpiry),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *AuthService) ClearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{"accessToken", "refreshToken"} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Expires:  time.Unix(0, 0),
			Path:     "/",
			HttpOnly: true,
			Secure:   s.isProduction,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
