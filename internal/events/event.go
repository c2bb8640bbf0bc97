// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"leadflow_backend/platform/events"

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

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadImported is published when a lead is created or updated from a
// bulk search import. ActorID identifies the acting user for manual
// creates; provider-driven imports leave it zero.
type LeadImported struct {
	BaseEvent
	LeadID  uuid.UUID `json:"leadId"`
	ActorID uuid.UUID `json:"actorId"`
	Source  string    `json:"source"`
	Created bool      `json:"created"`
}

func (e LeadImported) EventName() string { return "leads.lead.imported" }

// LeadEnriched is published when an enrichment run adds data to a lead.
type LeadEnriched struct {
	BaseEvent
	LeadID   uuid.UUID `json:"leadId"`
	Provider string    `json:"provider"`
	Fields   []string  `json:"fields"`
}

func (e LeadEnriched) EventName() string { return "leads.lead.enriched" }

// =============================================================================
// LinkedIn Session Domain Events
// =============================================================================

// SessionConnected is published when a LinkedIn automation session is
// successfully established.
type SessionConnected struct {
	BaseEvent
	SessionKey string `json:"sessionKey"`
}

func (e SessionConnected) EventName() string { return "linkedin.session.connected" }

// SessionInvalidated is published when a stored session is removed,
// either by explicit logout or expiry detection.
type SessionInvalidated struct {
	BaseEvent
	SessionKey string `json:"sessionKey"`
	Reason     string `json:"reason"`
}

func (e SessionInvalidated) EventName() string { return "linkedin.session.invalidated" }
