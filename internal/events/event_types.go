package events

import (
	"time"

	"github.com/spec-kit/enquiry-console/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLeadCreated  EventType = "lead_created"
	EventLeadAssigned EventType = "lead_assigned"
	EventLeadUpdated  EventType = "lead_updated"
	EventLeadDeleted  EventType = "lead_deleted"
	EventClientAdded  EventType = "client_added"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Type      domain.SubjectType `json:"type"`
	HandlerID *string            `json:"handler_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	LeadID    string      `json:"lead_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// LeadCreatedPayload payload.
type LeadCreatedPayload struct {
	ContactName string            `json:"contact_name"`
	Phone       string            `json:"phone"`
	Handler     domain.HandlerRef `json:"handler"`
}

// LeadAssignedPayload payload.
type LeadAssignedPayload struct {
	OldHandler         domain.HandlerRef `json:"old_handler"`
	NewHandler         domain.HandlerRef `json:"new_handler"`
	SuggestedHandlerID *string           `json:"suggested_handler_id,omitempty"`
	Overridden         bool              `json:"overridden"`
}

// LeadUpdatedPayload lists the fields an update touched.
type LeadUpdatedPayload struct {
	Fields []string `json:"fields"`
}

// ClientAddedPayload payload.
type ClientAddedPayload struct {
	ClientID string `json:"client_id"`
	Name     string `json:"name"`
}
