// Package email delivers campaign and notification emails over SMTP.
package email

import (
	"context"

	"crm_backend/platform/config"
	"crm_backend/platform/logger"
)

// Sender delivers a rendered campaign email to a recipient.
type Sender interface {
	SendCampaignEmail(ctx context.Context, toEmail, customerName, subject, templateName string) error
}

// NoopSender discards all emails. It is used when SMTP is not
// configured so workflows can run without a mail server.
type NoopSender struct {
	log *logger.Logger
}

// NewNoopSender creates a sender that logs instead of delivering.
func NewNoopSender(log *logger.Logger) *NoopSender {
	return &NoopSender{log: log}
}

// SendCampaignEmail logs the email and drops it.
func (s *NoopSender) SendCampaignEmail(_ context.Context, toEmail, _, subject, templateName string) error {
	if s.log != nil {
		s.log.Info("email delivery disabled, dropping message",
			"to", toEmail, "subject", subject, "template", templateName)
	}
	return nil
}

// NewSenderFromConfig returns an SMTP sender when email is enabled and
// a no-op sender otherwise.
func NewSenderFromConfig(cfg config.EmailConfig, log *logger.Logger) Sender {
	if !cfg.GetEmailEnabled() {
		return NewNoopSender(log)
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(), cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(), cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(), cfg.GetEmailFromName(),
	)
}
