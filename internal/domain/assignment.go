package domain

import "time"

// AssignmentRecord is an immutable audit entry for a handler change.
type AssignmentRecord struct {
	ID                 string
	LeadID             string
	ActorID            *string
	OldHandler         HandlerRef
	NewHandler         HandlerRef
	SuggestedHandlerID *string
	Overridden         bool
	CreatedAt          time.Time
}
