package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/enquiry-console/internal/auth"
	"github.com/spec-kit/enquiry-console/internal/domain"
	"github.com/spec-kit/enquiry-console/internal/validation"
	apperrors "github.com/spec-kit/enquiry-console/pkg/util/errorutil"
)

// bind decodes the JSON body into req and validates it.
func bind(c *fiber.Ctx, v *validation.Validator, req any) error {
	if err := c.BodyParser(req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return v.Struct(req)
}

// actor returns the signed-in handler, or nil for service tokens.
func actor(c *fiber.Ctx) *domain.Handler {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil
	}
	return principal.Handler
}

func data(v any) fiber.Map {
	return fiber.Map{"data": v}
}

func invalidPayload() error {
	return apperrors.NewValidationError("invalid payload", nil)
}
