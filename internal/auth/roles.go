package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/enquiry-console/internal/domain"
	apperrors "github.com/spec-kit/enquiry-console/pkg/util/errorutil"
)

// RequireHandler ensures the caller is a signed-in handler, not a service token.
func RequireHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.SubjectType != domain.SubjectTypeHandler || principal.Handler == nil {
			return apperrors.NewForbidden("handler required")
		}
		return c.Next()
	}
}

// RequireAdministrative ensures the handler principal holds the administrative
// role. Routes chain it after RequireHandler.
func RequireAdministrative() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.Handler == nil {
			return apperrors.NewForbidden("handler required")
		}
		if principal.Handler.Role != domain.HandlerRoleAdministrative {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireAnyRole ensures caller is authenticated (handler or service).
func RequireAnyRole() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}
