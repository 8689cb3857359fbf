// Package email sends transactional notifications. It exposes a narrow
// Sender interface so callers never depend on the delivery mechanism.
package email

import (
	"context"

	"junkportal_backend/platform/config"
)

// LeadNotification carries the lead summary rendered into the new-lead
// email sent to the operations inbox.
type LeadNotification struct {
	LeadID        string
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	ZipCode       string
	Zone          string
	ItemTypes     []string
	Notes         string
	MinPrice      int
	MaxPrice      int
	Confidence    string
	Assumptions   string
	PhotoCount    int
	CreatedAt     string
}

// Sender delivers notification emails.
type Sender interface {
	SendLeadNotification(ctx context.Context, to string, lead LeadNotification) error
}

// NewSender picks the sender implementation from configuration. Without
// SMTP settings a NoopSender is returned so the rest of the system keeps
// working in development.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	if !cfg.GetEmailEnabled() || cfg.GetSMTPHost() == "" {
		return &NoopSender{}, nil
	}

	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	), nil
}

// NoopSender drops all email. Used when email delivery is not configured.
type NoopSender struct{}

// SendLeadNotification implements Sender by doing nothing.
func (n *NoopSender) SendLeadNotification(ctx context.Context, to string, lead LeadNotification) error {
	return nil
}
