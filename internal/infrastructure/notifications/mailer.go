package notifications

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/caresync/authsvc/domain"
)

// MailerImpl implements domain.Mailer over SMTP.
type MailerImpl struct {
	dialer *gomail.Dialer
	sender string
}

// NewMailer creates a new SMTP mailer.
func NewMailer(host string, port int, username, password, sender string) domain.Mailer {
	return &MailerImpl{
		dialer: gomail.NewDialer(host, port, username, password),
		sender: sender,
	}
}

// SendVerificationCode implements domain.Mailer
func (m *MailerImpl) SendVerificationCode(to, name, code string) error {
	subject := "Verify your account"
	body := fmt.Sprintf(
		"Hi %s,\n\nYour account verification code is %s. It expires in 5 minutes.\n\nIf you did not request this, please contact support.",
		displayName(name), code,
	)
	return m.send(to, subject, body)
}

// SendPasswordResetCode implements domain.Mailer
func (m *MailerImpl) SendPasswordResetCode(to, name, code string) error {
	subject := "Reset your password"
	body := fmt.Sprintf(
		"Hi %s,\n\nYour password reset code is %s. It expires in 5 minutes.\n\nIf you did not request a reset, please contact support.",
		displayName(name), code,
	)
	return m.send(to, subject, body)
}

// SendCredentials implements domain.Mailer
func (m *MailerImpl) SendCredentials(to, name, password string) error {
	subject := "Your account credentials"
	body := fmt.Sprintf(
		"Hi %s,\n\nAn account has been created for you.\n\nEmail: %s\nPassword: %s\n\nPlease change this password after your first login.",
		displayName(name), to, password,
	)
	return m.send(to, subject, body)
}

func (m *MailerImpl) send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.sender)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}

func displayName(name string) string {
	if name == "" {
		return "user"
	}
	return name
}
