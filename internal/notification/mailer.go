// Package notification delivers invite emails and in-app notifications.
// Everything here is best-effort from the caller's perspective: failures
// are logged, never propagated into the booking or payment flows.
package notification

import (
	"context"
	"fmt"
	"net/smtp"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// BaseURL is the public address used to build invite links.
	BaseURL string
}

type Mailer struct {
	cfg SMTPConfig
}

func NewMailer(cfg SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// SendInvite emails an invitation link carrying the registration token.
func (m *Mailer) SendInvite(_ context.Context, to, eventTitle, token string) error {
	subject := fmt.Sprintf("You're Invited to %s", eventTitle)
	link := fmt.Sprintf("%s/v1/auth/register?token=%s", m.cfg.BaseURL, token)
	body := fmt.Sprintf("<p>Click <a href=%q>here</a> to join the event!</p>", link)

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s\r\n",
		m.cfg.From, to, subject, body,
	))

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("send invite email: %w", err)
	}
	return nil
}
