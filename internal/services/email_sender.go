package services

import (
	"fmt"
	"log/slog"

	"fleetmaster/internal/config"
	"fleetmaster/internal/logger"
)

// EmailSender delivers an HTML message to a single recipient.
type EmailSender interface {
	Send(to string, subject string, body string) error
}

// NewEmailSender picks the transport named by cfg.EmailProvider.
func NewEmailSender(cfg *config.Config) (EmailSender, error) {
	switch cfg.EmailProvider {
	case "smtp":
		return &SMTPSender{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPassword,
			From: cfg.SMTPFrom,
		}, nil
	case "sendgrid":
		return NewSendGridSender(cfg.SendGridAPIKey, cfg.SendGridFromEmail, cfg.SendGridFromName), nil
	case "log", "":
		return NewLogSender(), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.EmailProvider)
	}
}

// LogSender writes messages to the log instead of delivering them.
// Useful in development where no mail server is reachable.
type LogSender struct {
	log *slog.Logger
}

func NewLogSender() *LogSender {
	return &LogSender{log: logger.WithService("email")}
}

func (s *LogSender) Send(to string, subject string, body string) error {
	s.log.Info("email not delivered, log provider active", "to", to, "subject", subject, "body", body)
	return nil
}
