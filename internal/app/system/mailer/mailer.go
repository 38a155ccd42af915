// Package mailer sends transactional email over SMTP. The only message
// the platform sends today is the login code; templates live in
// templates.go.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

// Email is a single outbound message with text and HTML alternatives.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Config is the SMTP connection block from app configuration.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer sends email through one SMTP account. A Mailer with an empty
// host logs instead of sending, which keeps dev setups working without
// an SMTP server.
type Mailer struct {
	cfg    Config
	logger *zap.Logger
}

// New returns a mailer for the given SMTP config.
func New(cfg Config, logger *zap.Logger) *Mailer {
	return &Mailer{cfg: cfg, logger: logger}
}

// Send delivers the email. Multipart body when both alternatives are set.
func (m *Mailer) Send(e Email) error {
	if m.cfg.Host == "" {
		m.logger.Info("smtp not configured, email not sent",
			zap.String("to", e.To),
			zap.String("subject", e.Subject))
		return nil
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	msg := m.buildMessage(e)
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{e.To}, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", e.To, err)
	}
	return nil
}

func (m *Mailer) buildMessage(e Email) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", e.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", e.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")

	const boundary = "classhub-alt"
	switch {
	case e.HTMLBody != "" && e.TextBody != "":
		fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)
		fmt.Fprintf(&b, "--%s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n", boundary, e.TextBody)
		fmt.Fprintf(&b, "--%s\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s\r\n", boundary, e.HTMLBody)
		fmt.Fprintf(&b, "--%s--\r\n", boundary)
	case e.HTMLBody != "":
		fmt.Fprintf(&b, "Content-Type: text/html; charset=utf-8\r\n\r\n%s\r\n", e.HTMLBody)
	default:
		fmt.Fprintf(&b, "Content-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n", e.TextBody)
	}
	return []byte(b.String())
}
