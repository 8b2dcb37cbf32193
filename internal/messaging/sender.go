package messaging

import (
	"context"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"

	"admissions_crm_backend/platform/config"
	"admissions_crm_backend/platform/logger"
)

// Sender delivers one rendered message.
type Sender interface {
	Send(ctx context.Context, toEmail, subject, body string) error
}

// SMTPSender delivers mail through the configured SMTP server via go-mail.
type SMTPSender struct {
	cfg config.MailConfig
}

// NewSMTPSender creates an SMTP-backed sender.
func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

var _ Sender = (*SMTPSender)(nil)

// Send delivers a plain-text message to one recipient.
func (s *SMTPSender) Send(ctx context.Context, toEmail, subject, body string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.cfg.GetMailFromName(), s.cfg.GetMailFromAddress()); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	client, err := gomail.NewClient(s.cfg.GetSMTPHost(),
		gomail.WithPort(s.cfg.GetSMTPPort()),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.cfg.GetSMTPUsername()),
		gomail.WithPassword(s.cfg.GetSMTPPassword()),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// DryRunSender logs messages instead of delivering them. Used when outbound
// mail is disabled.
type DryRunSender struct {
	log *logger.Logger
}

// NewDryRunSender creates a logging-only sender.
func NewDryRunSender(log *logger.Logger) *DryRunSender {
	return &DryRunSender{log: log}
}

var _ Sender = (*DryRunSender)(nil)

func (s *DryRunSender) Send(_ context.Context, toEmail, subject, _ string) error {
	s.log.Info("mail delivery disabled, message dropped", "to", toEmail, "subject", subject)
	return nil
}
