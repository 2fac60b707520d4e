package mail

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/msomdec/user-accounts/internal/domain"
	"gopkg.in/gomail.v2"
)

// SMTPConfig holds the SMTP transport settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// dialSender is the part of *gomail.Dialer used by SMTPSender.
type dialSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender delivers messages over SMTP. Port 465 uses implicit TLS,
// other ports negotiate STARTTLS when the server offers it.
type SMTPSender struct {
	dialer dialSender
	from   string
}

// NewSMTPSender creates an SMTPSender from cfg.
func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// Send builds a multipart/alternative message and sends it. A message is
// never sent once ctx is done.
func (s *SMTPSender) Send(ctx context.Context, msg domain.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.TextBody)
	if msg.HTMLBody != "" {
		m.AddAlternative("text/html", msg.HTMLBody)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// LogSender writes messages to the log instead of sending them. It is meant
// for local development when no SMTP server is configured; bodies are logged
// at debug level because they carry one-time links.
type LogSender struct{}

// Send logs the message.
func (LogSender) Send(ctx context.Context, msg domain.Message) error {
	slog.InfoContext(ctx, "email not sent: no SMTP server configured", "to", msg.To, "subject", msg.Subject)
	slog.DebugContext(ctx, "email body", "to", msg.To, "body", msg.TextBody)
	return nil
}
