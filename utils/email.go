// utils/email.go
package utils

import (
	"fmt"

	"github.com/keighl/postmark"
)

// Mailer sends outbound mail. Satisfied by EmailService; faked in tests.
type Mailer interface {
	SendEmail(toEmail, subject, textBody string) error
	SendVerificationEmail(toEmail, name, token string) error
	SendPasswordResetEmail(toEmail, name, token string) error
}

// EmailService sends transactional email through Postmark.
type EmailService struct {
	client    *postmark.Client
	sender    string
	clientURL string
}

// NewEmailService initializes the Postmark-backed mailer.
func NewEmailService(apiToken, sender, clientURL string) *EmailService {
	return &EmailService{
		client:    postmark.NewClient(apiToken, ""),
		sender:    sender,
		clientURL: clientURL,
	}
}

// SendEmail sends a plain-text email to the specified recipient.
func (es *EmailService) SendEmail(toEmail, subject, textBody string) error {
	_, err := es.client.SendEmail(postmark.Email{
		From:     es.sender,
		To:       toEmail,
		Subject:  subject,
		TextBody: textBody,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendVerificationEmail sends the email verification link. The link expires
// in 24 hours.
func (es *EmailService) SendVerificationEmail(toEmail, name, token string) error {
	verificationURL := fmt.Sprintf("%s/verify-email/%s", es.clientURL, token)
	message := fmt.Sprintf(`Hi %s,

Welcome to Pumpkin Store!

Please verify your email address to activate your account and start shopping.

Click the link below to verify your email:

%s

This link will expire in 24 hours.

If you didn't create this account, please ignore this email.
`, name, verificationURL)

	return es.SendEmail(toEmail, "Verify Your Email - Pumpkin Store", message)
}

// SendPasswordResetEmail sends the password reset link. The link expires in
// 15 minutes.
func (es *EmailService) SendPasswordResetEmail(toEmail, name, token string) error {
	resetURL := fmt.Sprintf("%s/reset/%s", es.clientURL, token)
	message := fmt.Sprintf(`Hi %s,

We received a request to reset the password for your Pumpkin Store account.

Click the link below to set up a new password:

%s

For your security, this link will expire in 15 minutes.
If you didn't request a password reset, you can safely ignore this email.
`, name, resetURL)

	return es.SendEmail(toEmail, "Password Reset Request", message)
}
