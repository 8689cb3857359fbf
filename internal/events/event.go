// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"junkportal_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// LeadCreated is published when a visitor submits the estimate form and a
// new lead is persisted.
type LeadCreated struct {
	BaseEvent
	LeadID        uuid.UUID `json:"leadId"`
	CustomerName  string    `json:"customerName"`
	CustomerPhone string    `json:"customerPhone"`
	CustomerEmail string    `json:"customerEmail"`
	ZipCode       string    `json:"zipCode"`
	Zone          string    `json:"zone"`
	ItemTypes     []string  `json:"itemTypes"`
	Notes         string    `json:"notes,omitempty"`
	PhotoCount    int       `json:"photoCount"`
	MinPrice      int       `json:"minPrice"`
	MaxPrice      int       `json:"maxPrice"`
	Confidence    string    `json:"confidence"`
	Assumptions   string    `json:"assumptions"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// LeadClaimed is published when a crew member claims a lead, revealing the
// customer's contact details to them.
type LeadClaimed struct {
	BaseEvent
	LeadID    uuid.UUID `json:"leadId"`
	ClaimedBy string    `json:"claimedBy"`
}

func (e LeadClaimed) EventName() string { return "leads.lead.claimed" }

// LeadStatusChanged is published when a lead moves between pipeline statuses.
type LeadStatusChanged struct {
	BaseEvent
	LeadID    uuid.UUID `json:"leadId"`
	OldStatus string    `json:"oldStatus"`
	NewStatus string    `json:"newStatus"`
}

func (e LeadStatusChanged) EventName() string { return "leads.lead.status_changed" }
