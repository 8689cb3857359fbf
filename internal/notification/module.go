// Package notification provides event handlers for sending notifications
// in response to domain events. This module subscribes to events and inverts
// the dependency: the leads module does not need to know about email
// providers or templates.
package notification

import (
	"context"
	"time"

	"junkportal_backend/internal/email"
	"junkportal_backend/internal/events"
	"junkportal_backend/platform/config"
	"junkportal_backend/platform/logger"
)

// Module handles all notification-related event subscriptions.
type Module struct {
	sender email.Sender
	cfg    config.EmailConfig
	log    *logger.Logger
}

// New creates a new notification module.
func New(sender email.Sender, cfg config.EmailConfig, log *logger.Logger) *Module {
	return &Module{
		sender: sender,
		cfg:    cfg,
		log:    log,
	}
}

// RegisterHandlers subscribes to all relevant domain events on the event bus.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadCreated{}.EventName(), m)
	bus.Subscribe(events.LeadClaimed{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.LeadCreated:
		return m.handleLeadCreated(ctx, e)
	case events.LeadClaimed:
		return m.handleLeadClaimed(ctx, e)
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

func (m *Module) handleLeadCreated(ctx context.Context, e events.LeadCreated) error {
	to := m.cfg.GetNotificationEmail()
	if to == "" {
		m.log.Debug("notification email not configured; skipping lead email", "leadId", e.LeadID)
		return nil
	}

	lead := email.LeadNotification{
		LeadID:        e.LeadID.String(),
		CustomerName:  e.CustomerName,
		CustomerPhone: e.CustomerPhone,
		CustomerEmail: e.CustomerEmail,
		ZipCode:       e.ZipCode,
		Zone:          e.Zone,
		ItemTypes:     e.ItemTypes,
		Notes:         e.Notes,
		MinPrice:      e.MinPrice,
		MaxPrice:      e.MaxPrice,
		Confidence:    e.Confidence,
		Assumptions:   e.Assumptions,
		PhotoCount:    e.PhotoCount,
		CreatedAt:     e.OccurredAt().Format(time.RFC1123),
	}

	if err := m.sender.SendLeadNotification(ctx, to, lead); err != nil {
		m.log.Error("failed to send lead notification email",
			"leadId", e.LeadID,
			"error", err,
		)
		return err
	}
	m.log.Info("lead notification email sent", "leadId", e.LeadID, "to", to)
	return nil
}

func (m *Module) handleLeadClaimed(ctx context.Context, e events.LeadClaimed) error {
	// Claims are operational events; an audit log line is enough for now.
	m.log.Info("lead claimed", "leadId", e.LeadID, "claimedBy", e.ClaimedBy)
	return nil
}
