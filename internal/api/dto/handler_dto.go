package dto

import (
	"time"

	"github.com/spec-kit/enquiry-console/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CreateHandlerRequest payload.
type CreateHandlerRequest struct {
	Name     string             `json:"name" validate:"required,max=120"`
	Email    string             `json:"email" validate:"required,email"`
	Password string             `json:"password" validate:"required,min=8,max=72"`
	Role     domain.HandlerRole `json:"role" validate:"required,oneof=regular administrative"`
}

// UpdateHandlerRequest payload.
type UpdateHandlerRequest struct {
	Name  *string              `json:"name,omitempty" validate:"omitempty,max=120"`
	Role  *domain.HandlerRole  `json:"role,omitempty" validate:"omitempty,oneof=regular administrative"`
	State *domain.HandlerState `json:"state,omitempty" validate:"omitempty,oneof=active suspended"`
}

// HandlerResponse is the public view of a handler.
type HandlerResponse struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Email     string              `json:"email"`
	Role      domain.HandlerRole  `json:"role"`
	State     domain.HandlerState `json:"state"`
	CreatedAt time.Time           `json:"created_at"`
}

// HandlerFromDomain maps a handler, dropping the password hash.
func HandlerFromDomain(h *domain.Handler) HandlerResponse {
	return HandlerResponse{
		ID:        h.ID,
		Name:      h.Name,
		Email:     h.Email,
		Role:      h.Role,
		State:     h.State,
		CreatedAt: h.CreatedAt,
	}
}

// ToDomain maps the wire form back to a handler.
func (r HandlerResponse) ToDomain() domain.Handler {
	return domain.Handler{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Role:      r.Role,
		State:     r.State,
		CreatedAt: r.CreatedAt,
	}
}
