package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/enquiry-console/internal/auth"
	"github.com/spec-kit/enquiry-console/internal/config"
	"github.com/spec-kit/enquiry-console/internal/domain"
	"github.com/spec-kit/enquiry-console/internal/repository"
	apperrors "github.com/spec-kit/enquiry-console/pkg/util/errorutil"
)

// RosterService manages the handler roster.
type RosterService struct {
	handlers   repository.HandlerRepository
	bcryptCost int
}

// HandlerCreateInput describes a new handler.
type HandlerCreateInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.HandlerRole
}

// HandlerUpdateInput carries the fields an administrator may change.
type HandlerUpdateInput struct {
	Name  *string
	Role  *domain.HandlerRole
	State *domain.HandlerState
}

// NewRosterService builds the service.
func NewRosterService(cfg config.Config, handlers repository.HandlerRepository) *RosterService {
	return &RosterService{handlers: handlers, bcryptCost: cfg.Auth.BcryptCost}
}

func requireAdministrative(actor *domain.Handler) error {
	if actor == nil {
		return apperrors.NewUnauthorized("handler required")
	}
	if actor.Role != domain.HandlerRoleAdministrative {
		return apperrors.NewForbidden("administrative role required")
	}
	return nil
}

// List returns handlers matching filter, ordered by name.
func (s *RosterService) List(ctx context.Context, filter repository.HandlerFilter) ([]domain.Handler, error) {
	handlers, err := s.handlers.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return handlers, nil
}

// Get loads a handler by id.
func (s *RosterService) Get(ctx context.Context, id string) (*domain.Handler, error) {
	if !validID(id) {
		return nil, apperrors.NewNotFound("handler", map[string]any{"handler_id": id})
	}
	handler, err := s.handlers.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "handler", id)
	}
	return handler, nil
}

// Create adds a handler. Only administrative handlers may do so.
func (s *RosterService) Create(ctx context.Context, actor *domain.Handler, input HandlerCreateInput) (*domain.Handler, error) {
	if err := requireAdministrative(actor); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := s.handlers.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return nil, apperrors.NewValidationError("password too long", map[string]any{"password": "max"})
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	role := input.Role
	if role == "" {
		role = domain.HandlerRoleRegular
	}
	handler := &domain.Handler{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		State:        domain.HandlerStateActive,
	}
	if err := s.handlers.Create(ctx, handler); err != nil {
		return nil, apperrors.MapError(err)
	}
	return handler, nil
}

// Update changes name, role or state. Administrators cannot suspend or demote themselves.
func (s *RosterService) Update(ctx context.Context, actor *domain.Handler, id string, input HandlerUpdateInput) (*domain.Handler, error) {
	if err := requireAdministrative(actor); err != nil {
		return nil, err
	}
	handler, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.ID == handler.ID {
		if input.State != nil && *input.State != domain.HandlerStateActive {
			return nil, apperrors.NewConflict("cannot suspend yourself", nil)
		}
		if input.Role != nil && *input.Role != domain.HandlerRoleAdministrative {
			return nil, apperrors.NewConflict("cannot remove your own administrative role", nil)
		}
	}

	if input.Name != nil {
		handler.Name = strings.TrimSpace(*input.Name)
	}
	if input.Role != nil {
		handler.Role = *input.Role
	}
	if input.State != nil {
		handler.State = *input.State
	}
	if err := s.handlers.Update(ctx, handler); err != nil {
		return nil, apperrors.MapError(err)
	}
	return handler, nil
}
