package mail

import (
	"context"
	"fmt"
	"net/smtp"

	"billionaireable/internal/config"
	"billionaireable/internal/domain/ports/adapter"
)

// Compile-time assurance this mailer satisfies the port
var _ adapter.Mailer = (*SMTPMailer)(nil)

// SMTPMailer delivers notification emails over plain SMTP.
type SMTPMailer struct {
	addr   string
	auth   smtp.Auth
	sender string
}

func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	var auth smtp.Auth
	if cfg.Username != "" && cfg.Password != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	sender := cfg.Sender
	if sender == "" {
		sender = "no-reply@billionaireable.com"
	}
	return &SMTPMailer{
		addr:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		auth:   auth,
		sender: sender,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := []byte(
		fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n", m.sender, to, subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=UTF-8\r\n\r\n" +
			htmlBody,
	)
	return smtp.SendMail(m.addr, m.auth, m.sender, []string{to}, msg)
}
