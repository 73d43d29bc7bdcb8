package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/enquiry-console/internal/api/dto"
	"github.com/spec-kit/enquiry-console/internal/service"
	"github.com/spec-kit/enquiry-console/internal/validation"
	apperrors "github.com/spec-kit/enquiry-console/pkg/util/errorutil"
)

// ServiceTokenRequest payload for POST /auth/service-tokens.
type ServiceTokenRequest struct {
	Name     string `json:"name" validate:"required,max=64"`
	TTLHours int    `json:"ttl_hours" validate:"gte=0,lte=8760"`
}

// AuthHandler exposes login and token endpoints.
type AuthHandler struct {
	authService *service.AuthService
	validate    *validation.Validator
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, v *validation.Validator) *AuthHandler {
	return &AuthHandler{authService: authService, validate: v}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}

	handler, token, exp, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(data(fiber.Map{
		"handler": dto.HandlerFromDomain(handler),
		"auth":    dto.AuthResponse{Token: token, ExpiresAt: exp},
	}))
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	meta, err := h.authService.Introspect(token)
	if err != nil {
		return err
	}
	resp := fiber.Map{
		"subject_id": meta.SubjectID,
		"subject":    meta.Subject,
		"expires_at": meta.ExpiresAt,
	}
	if meta.Role != nil {
		resp["role"] = *meta.Role
	}
	if who := actor(c); who != nil {
		resp["handler"] = dto.HandlerFromDomain(who)
	}
	return c.JSON(data(resp))
}

// IssueServiceToken handles POST /auth/service-tokens.
func (h *AuthHandler) IssueServiceToken(c *fiber.Ctx) error {
	var req ServiceTokenRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	who := actor(c)
	if who == nil {
		return apperrors.NewForbidden("handler required")
	}
	token, exp, err := h.authService.IssueServiceToken(who, req.Name, time.Duration(req.TTLHours)*time.Hour)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(data(dto.AuthResponse{Token: token, ExpiresAt: exp}))
}
