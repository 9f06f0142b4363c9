package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/victorydiv/fojournapp-sub001/internal/config"
)

// SMTPMailer sends plain-text mail over a configured SMTP relay.
type SMTPMailer struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func NewSMTP(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
		From:     cfg.SMTPFrom,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	_ = ctx
	if m.Host == "" {
		return fmt.Errorf("smtp host not configured")
	}
	from := m.From
	if from == "" {
		from = m.Username
	}
	if from == "" {
		return fmt.Errorf("smtp from not configured")
	}

	headers := []string{
		fmt.Sprintf("From: %s", from),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
	}
	data := strings.Join(headers, "\r\n") + "\r\n\r\n" + body

	addr := fmt.Sprintf("%s:%s", m.Host, m.Port)
	var auth smtp.Auth
	if m.Username != "" || m.Password != "" {
		auth = smtp.PlainAuth("", m.Username, m.Password, m.Host)
	}
	return smtp.SendMail(addr, auth, from, []string{to}, []byte(data))
}

var _ Mailer = (*SMTPMailer)(nil)
