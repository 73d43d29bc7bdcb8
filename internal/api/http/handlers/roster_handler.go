package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/enquiry-console/internal/api/dto"
	"github.com/spec-kit/enquiry-console/internal/domain"
	"github.com/spec-kit/enquiry-console/internal/repository"
	"github.com/spec-kit/enquiry-console/internal/service"
	"github.com/spec-kit/enquiry-console/internal/validation"
	apperrors "github.com/spec-kit/enquiry-console/pkg/util/errorutil"
)

// RosterHandler exposes the handler roster.
type RosterHandler struct {
	service  *service.RosterService
	validate *validation.Validator
}

// NewRosterHandler constructs handler.
func NewRosterHandler(rosterService *service.RosterService, v *validation.Validator) *RosterHandler {
	return &RosterHandler{service: rosterService, validate: v}
}

// List GET /handlers?role=&state=.
func (h *RosterHandler) List(c *fiber.Ctx) error {
	var filter repository.HandlerFilter
	if role := c.Query("role"); role != "" {
		r := domain.HandlerRole(role)
		if r != domain.HandlerRoleRegular && r != domain.HandlerRoleAdministrative {
			return apperrors.NewValidationError("invalid role", map[string]any{"role": role})
		}
		filter.Role = &r
	}
	if state := c.Query("state"); state != "" {
		s := domain.HandlerState(state)
		if s != domain.HandlerStateActive && s != domain.HandlerStateSuspended {
			return apperrors.NewValidationError("invalid state", map[string]any{"state": state})
		}
		filter.State = &s
	}

	handlers, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.HandlerResponse, 0, len(handlers))
	for i := range handlers {
		items = append(items, dto.HandlerFromDomain(&handlers[i]))
	}
	return c.JSON(data(items))
}

// Get GET /handlers/:id.
func (h *RosterHandler) Get(c *fiber.Ctx) error {
	handler, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(data(dto.HandlerFromDomain(handler)))
}

// Create POST /handlers.
func (h *RosterHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateHandlerRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	handler, err := h.service.Create(c.UserContext(), actor(c), service.HandlerCreateInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(data(dto.HandlerFromDomain(handler)))
}

// Update PATCH /handlers/:id.
func (h *RosterHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateHandlerRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	handler, err := h.service.Update(c.UserContext(), actor(c), c.Params("id"), service.HandlerUpdateInput{
		Name:  req.Name,
		Role:  req.Role,
		State: req.State,
	})
	if err != nil {
		return err
	}
	return c.JSON(data(dto.HandlerFromDomain(handler)))
}
