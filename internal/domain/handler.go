package domain

import "time"

// HandlerRole enumerates staff roles.
type HandlerRole string

const (
	HandlerRoleRegular        HandlerRole = "regular"
	HandlerRoleAdministrative HandlerRole = "administrative"
)

// HandlerState is owned by user administration.
type HandlerState string

const (
	HandlerStateActive    HandlerState = "active"
	HandlerStateSuspended HandlerState = "suspended"
)

// Handler is a staff member who can own leads.
type Handler struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         HandlerRole
	State        HandlerState
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Eligible reports whether the handler takes part in fair-queue distribution.
func (h *Handler) Eligible() bool {
	return h != nil && h.State == HandlerStateActive && h.Role == HandlerRoleRegular
}
