package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

// EmailSender is what the auth workflow needs from the mail layer.
type EmailSender interface {
	SendVerificationEmail(email, token string) error
	SendPasswordResetEmail(email, token string) error
}

type EmailService struct {
	client      *resend.Client
	fromEmail   string
	isDev       bool
	appURL      string
	frontendURL string
	appName     string
}

func NewEmailService(apiKey, fromEmail, appURL, frontendURL, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:      client,
		fromEmail:   fromEmail,
		isDev:       isDev,
		appURL:      appURL,
		frontendURL: frontendURL,
		appName:     appName,
	}
}

// SendVerificationEmail mails the signed email-verification token. The link
// points at the API itself since verification is a plain GET.
func (s *EmailService) SendVerificationEmail(email, token string) error {
	verifyURL := fmt.Sprintf("%s/users/verify-email?token=%s", s.appURL, token)
	subject, body := verificationEmailTemplate(verifyURL, s.appName)
	return s.send("email_verify", email, subject, body, verifyURL)
}

// SendPasswordResetEmail mails the signed reset token. The link points at the
// frontend, which collects the new password and posts it back.
func (s *EmailService) SendPasswordResetEmail(email, token string) error {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.frontendURL, token)
	subject, body := passwordResetEmailTemplate(resetURL, s.appName)
	return s.send("password_reset", email, subject, body, resetURL)
}

func (s *EmailService) send(kind, to, subject, body, url string) error {
	if s.isDev {
		slog.Info("email sent (dev mode)", "type", kind, "to", to, "subject", subject, "url", url)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(context.Background(), params)
	if err == nil {
		slog.Info("email sent", "type", kind, "to", to)
	}
	return err
}
