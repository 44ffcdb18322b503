package service

import (
	"errors"
	"testing"
	"time"

	"github.com/openquran/versehub/internal/model"
	"github.com/openquran/versehub/internal/password"
	"github.com/openquran/versehub/internal/token"
)

func newTestAuth() (*AuthService, *fakeUserRepo, *fakeEmailSender) {
	users := newFakeUserRepo()
	emails := &fakeEmailSender{}
	tokens := token.NewService("access-secret", "refresh-secret", "verify-secret", "reset-secret")

	auth := NewAuthService(users, tokens, emails, false,
		15*time.Minute, // access
		7*24*time.Hour, // refresh
		24*time.Hour,   // email verify
		30*time.Minute, // password reset
	)
	return auth, users, emails
}

func TestRegister_Success(t *testing.T) {
	t.Parallel()

	auth, users, emails := newTestAuth()

	user, pair, err := auth.Register("Labib Wahid", "a@b.com", "password1")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if user.ID == "" || user.Email != "a@b.com" || user.FullName != "Labib Wahid" {
		t.Fatalf("unexpected user projection: %+v", user)
	}
	if user.IsVerified {
		t.Fatal("new user must start unverified")
	}
	if user.PasswordHash != "" || user.RefreshToken != nil {
		t.Fatal("projection leaks credentials")
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("registration must log the user in")
	}

	stored, err := users.ByEmail("a@b.com")
	if err != nil {
		t.Fatalf("stored user missing: %v", err)
	}
	if stored.PasswordHash == "password1" {
		t.Fatal("stored password equals plaintext")
	}
	if err := password.Compare("password1", stored.PasswordHash); err != nil {
		t.Fatalf("stored hash does not match plaintext: %v", err)
	}
	if stored.VerificationFingerprint == nil {
		t.Fatal("verification fingerprint not stored")
	}
	if stored.RefreshToken == nil || *stored.RefreshToken != pair.RefreshToken {
		t.Fatal("refresh token not persisted")
	}
	if emails.lastVerifyToken() == "" {
		t.Fatal("verification email not sent")
	}
}

func TestRegister_NormalizesEmail(t *testing.T) {
	t.Parallel()

	auth, users, _ := newTestAuth()

	_, _, err := auth.Register("Labib Wahid", "  A@B.com ", "password1")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if _, err := users.ByEmail("a@b.com"); err != nil {
		t.Fatalf("email not normalized: %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()

	auth, _, _ := newTestAuth()

	cases := []struct {
		name            string
		fullName, email string
		plainPassword   string
	}{
		{"empty full name", "", "a@b.com", "password1"},
		{"empty email", "Labib", "", "password1"},
		{"empty password", "Labib", "a@b.com", ""},
		{"malformed email", "Labib", "not-an-email", "password1"},
		{"short password", "Labib", "a@b.com", "short"},
	}
	for _, tc := range cases {
		_, _, err := auth.Register(tc.fullName, tc.email, tc.plainPassword)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s: got %v, want ErrInvalidInput", tc.name, err)
		}
	}
}

func TestRegister_Duplicates(t *testing.T) {
	t.Parallel()

	auth, _, _ := newTestAuth()

	_, _, err := auth.Register("Labib Wahid", "a@b.com", "password1")
	if err != nil {
		t.Fatalf("first Register error: %v", err)
	}

	_, _, err = auth.Register("Someone Else", "a@b.com", "password1")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("duplicate email: got %v, want ErrEmailTaken", err)
	}

	_, _, err = auth.Register("Labib Wahid", "c@d.com", "password1")
	if !errors.Is(err, ErrNameTaken) {
		t.Fatalf("duplicate name: got %v, want ErrNameTaken", err)
	}
}

func TestRegister_EmailDeliveryFailureKeepsUser(t *testing.T) {
	t.Parallel()

	auth, users, emails := newTestAuth()
	emails.fail = true

	user, pair, err := auth.Register("Labib Wahid", "a@b.com", "password1")
	if !errors.Is(err, ErrEmailDelivery) {
		t.Fatalf("got %v, want ErrEmailDelivery", err)
	}
	// No rollback: the account and session already exist.
	if user == nil || pair == nil {
		t.Fatal("user and token pair should survive a delivery failure")
	}
	if _, err := users.ByEmail("a@b.com"); err != nil {
		t.Fatalf("user row not committed: %v", err)
	}
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	auth, _, _ := newTestAuth()

	_, _, err := auth.Register("Labib Wahid", "a@b.com", "password1")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	user, pair, err := auth.Login("a@b.com", "password1")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if user.Email != "a@b.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("login must return a token pair")
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	t.Parallel()

	auth, _, _ := newTestAuth()

	_, _, err := auth.Register("Labib Wahid", "a@b.com", "password1")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	// Wrong password and unknown email must be indistinguishable.
	_, _, errWrongPassword := auth.Login("a@b.com", "password2")
	_, _, errUnknownEmail := auth.Login("nobody@b.com", "password1")

	if !errors.Is(errWrongPassword, ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v", errWrongPassword)
	}
	if !errors.Is(errUnknownEmail, ErrInvalidCredentials) {
		t.Fatalf("unknown email: got %v", errUnknownEmail)
	}
	if errWrongPassword.Error() != errUnknownEmail.Error() {
		t.Fatal("error messages leak account existence")
	}
}

func TestLogin_InvalidatesPreviousSession(t *testing.T) {
	t.Parallel()

	auth, _, _ := newTestAuth()

	_, first, err := auth.Register("Labib Wahid", "a@b.com", "password1")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	_, _, err = auth.Login("a@b.com", "password1")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	// The registration-time refresh token was superseded by the login.
	_, err = auth.Refresh(first.RefreshToken)
	if !errors.Is(err, ErrTokenReuse) {
		t.Fatalf("superseded token: got %v, want ErrTokenReuse", err)
	}
}

func TestRefresh_RotatesAndDetectsReuse(t *testing.T) {
	t.Parallel()

	auth, _, _ := newTestAuth()

	_, first, err := auth.Register("Labib Wahid", "a@b.com", "password1")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	second, err := auth.Refresh(first.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh error: %v", err)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Fatal("refresh token was not rotated")
	}

	// Single-use: replaying the first token must fail.
	_, err = auth.Refresh(first.RefreshToken)
	if !errors.Is(err, ErrTokenReuse) {
		t.Fatalf("replay: got %v, want ErrTokenReuse", err)
	}

	// The rotated token still works.
	_, err = auth.Refresh(second.RefreshToken)
	if err != nil {
		t.Fatalf("rotated token rejected: %v", err)
	}
}

func TestRefresh_ConsecutiveTokensAlwaysDiffer(t *testing.T) {
	t.Parallel()

	auth, _, _ := newTestAuth()

	// Back-to-back issuances land inside the same second; the tokens must
	// still be distinct or rotation degrades into a no-op.
	_, first, err := auth.Register("Labib Wahid", "a@b.com", "password1")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	seen := map[string]bool{first.RefreshToken: true}
	pair := first
	for i := 0; i < 5; i++ {
		pair, err = auth.Refresh(pair.RefreshToken)
		if err != nil {
			t.Fatalf("Refresh %d error: %v", i, err)
		}
		if seen[pair.RefreshToken] {
			t.Fatalf("Refresh %d re-issued an already-seen refresh token", i)
		}
		seen[pair.RefreshToken] = true
	}

	_, second, err := auth.Login("a@b.com", "password1")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if seen[second.RefreshToken] {
		t.Fatal("login re-issued an already-seen refresh token")
	}
}

func TestRefresh_MissingAndInvalid(t *testing.T) {
	t.Parallel()

	auth, _, _ := newTestAuth()

	_, err := auth.Refresh("")
	if !errors.Is(err, ErrMissingToken) {
		t.Fatalf("empty token: got %v, want ErrMissingToken", err)
	}

	_, err = auth.Refresh("garbage.token.value")
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("garbage token: got %v, want ErrInvalidToken", err)
	}
}

func TestLogout_Idempotent(t *testing.T) {
	t.Parallel()

	auth, users, _ := newTestAuth()

	user, pair, err := auth.Register("Labib Wahid", "a@b.com", "password1")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	if err := auth.Logout(user.ID); err != nil {
		t.Fatalf("Logout error: %v", err)
	}
	stored, _ := users.ByID(user.ID)
	if stored.RefreshToken != nil {
		t.Fatal("refresh token not cleared")
	}

	// Logging out again is not an error.
	if err := auth.Logout(user.ID); err != nil {
		t.Fatalf("second Logout error: %v", err)
	}

	// The session is gone.
	_, err = auth.Refresh(pair.RefreshToken)
	if !errors.Is(err, ErrTokenReuse) {
		t.Fatalf("refresh after logout: got %v, want ErrTokenReuse", err)
	}
}

func TestVerifyEmail_SuccessAndReplay(t *testing.T) {
	t.Parallel()

	auth, users, emails := newTestAuth()

	user, _, err := auth.Register("Labib Wahid", "a@b.com", "password1")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	verifyToken := emails.lastVerifyToken()
	if err := auth.VerifyEmail(verifyToken); err != nil {
		t.Fatalf("VerifyEmail error: %v", err)
	}

	stored, _ := users.ByID(user.ID)
	if !stored.IsVerified {
		t.Fatal("verified flag not set")
	}
	if stored.VerificationFingerprint != nil {
		t.Fatal("verification fingerprint not cleared")
	}

	// Replay after consumption fails.
	err = auth.VerifyEmail(verifyToken)
	if !errors.Is(err, ErrSecretMismatch) {
		t.Fatalf("replay: got %v, want ErrSecretMismatch", err)
	}
}

func TestVerifyEmail_Tampered(t *testing.T) {
	t.Parallel()

	auth, _, emails := newTestAuth()

	_, _, err := auth.Register("Labib Wahid", "a@b.com", "password1")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	verifyToken := emails.lastVerifyToken()
	tampered := verifyToken[:len(verifyToken)-2] + "xx"
	err = auth.VerifyEmail(tampered)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("tampered token: got %v, want ErrInvalidToken", err)
	}
}

func TestVerifyEmail_SupersededSecret(t *testing.T) {
	t.Parallel()

	auth, users, emails := newTestAuth()

	user, _, err := auth.Register("Labib Wahid", "a@b.com", "password1")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	// A different fingerprint in the row (e.g. a re-sent verification mail)
	// makes the old token's secret fail the comparison.
	other := password.Fingerprint("different-secret")
	users.mutate(user.ID, func(u *model.User) { u.VerificationFingerprint = &other })

	err = auth.VerifyEmail(emails.lastVerifyToken())
	if !errors.Is(err, ErrSecretMismatch) {
		t.Fatalf("superseded secret: got %v, want ErrSecretMismatch", err)
	}
}

func TestPasswordReset_FullFlow(t *testing.T) {
	t.Parallel()

	auth, users, emails := newTestAuth()

	user, _, err := auth.Register("Labib Wahid", "a@b.com", "password1")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	if err := auth.RequestPasswordReset("a@b.com"); err != nil {
		t.Fatalf("RequestPasswordReset error: %v", err)
	}
	stored, _ := users.ByID(user.ID)
	if stored.ResetFingerprint == nil || stored.ResetExpiresAt == nil {
		t.Fatal("reset fingerprint/expiry not stored")
	}

	resetToken := emails.lastResetToken()
	if err := auth.CompletePasswordReset(resetToken, "newpassword1"); err != nil {
		t.Fatalf("CompletePasswordReset error: %v", err)
	}

	stored, _ = users.ByID(user.ID)
	if stored.ResetFingerprint != nil || stored.ResetExpiresAt != nil {
		t.Fatal("reset fields not cleared after use")
	}

	// Old password is dead, new one works.
	if _, _, err := auth.Login("a@b.com", "password1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password still accepted: %v", err)
	}
	if _, _, err := auth.Login("a@b.com", "newpassword1"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}

	// The same token fails on reuse.
	err = auth.CompletePasswordReset(resetToken, "anotherpassword1")
	if !errors.Is(err, ErrSecretMismatch) {
		t.Fatalf("token reuse: got %v, want ErrSecretMismatch", err)
	}
}

func TestRequestPasswordReset_UnknownEmail(t *testing.T) {
	t.Parallel()

	auth, _, _ := newTestAuth()

	err := auth.RequestPasswordReset("nobody@b.com")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("got %v, want ErrUserNotFound", err)
	}
}

func TestCompletePasswordReset_ExpiredWindow(t *testing.T) {
	t.Parallel()

	auth, users, emails := newTestAuth()

	user, _, err := auth.Register("Labib Wahid", "a@b.com", "password1")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if err := auth.RequestPasswordReset("a@b.com"); err != nil {
		t.Fatalf("RequestPasswordReset error: %v", err)
	}

	// Push the stored expiry into the past; the token itself is still
	// within its exp claim, so this exercises the stored-window check.
	past := time.Now().Add(-time.Minute)
	users.mutate(user.ID, func(u *model.User) { u.ResetExpiresAt = &past })

	err = auth.CompletePasswordReset(emails.lastResetToken(), "newpassword1")
	if !errors.Is(err, ErrSecretMismatch) {
		t.Fatalf("expired window: got %v, want ErrSecretMismatch", err)
	}
}

func TestCompletePasswordReset_InvalidInput(t *testing.T) {
	t.Parallel()

	auth, _, _ := newTestAuth()

	if err := auth.CompletePasswordReset("", "newpassword1"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing token: got %v", err)
	}
	if err := auth.CompletePasswordReset("sometoken", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing password: got %v", err)
	}
	if err := auth.CompletePasswordReset("sometoken", "short"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("weak password: got %v", err)
	}
}
