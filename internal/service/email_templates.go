package service

import "fmt"

func verificationEmailTemplate(verifyURL, appName string) (string, string) {
	subject := fmt.Sprintf("Verify your email for %s", appName)
	body := fmt.Sprintf(`Welcome to %s!

Click this link to verify your email address:
%s

If you didn't create an account, you can safely ignore this email.

Best,
The %s Team`, appName, verifyURL, appName)

	return subject, body
}

func passwordResetEmailTemplate(resetURL, appName string) (string, string) {
	subject := fmt.Sprintf("Reset your password for %s", appName)
	body := fmt.Sprintf(`You requested a password reset.

Click the link below to choose a new password:
%s

This link expires in 30 minutes and can only be used once.

If you didn't request this, please ignore this email. Your password won't be changed.

Best,
The %s Team`, resetURL, appName)

	return subject, body
}
