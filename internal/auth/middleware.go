package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/enquiry-console/internal/domain"
	apperrors "github.com/spec-kit/enquiry-console/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller. Handler is nil for service
// tokens such as the one the console agent uses.
type Principal struct {
	SubjectType domain.SubjectType
	SubjectID   string
	Handler     *domain.Handler
	Role        *domain.HandlerRole
}

// ActorID returns the handler id to record in audit entries, if any.
func (p *Principal) ActorID() *string {
	if p == nil || p.Handler == nil {
		return nil
	}
	id := p.Handler.ID
	return &id
}

// HandlerLookup loads a handler by id.
type HandlerLookup interface {
	GetByID(ctx context.Context, id string) (*domain.Handler, error)
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens   *TokenManager
	handlers HandlerLookup
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, handlers HandlerLookup) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, handlers: handlers}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	principal := &Principal{SubjectType: claims.Subject, SubjectID: claims.SubjectID, Role: claims.Role}

	switch claims.Subject {
	case domain.SubjectTypeHandler:
		handler, err := m.handlers.GetByID(c.UserContext(), claims.SubjectID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewUnauthorized("handler not found")
			}
			return apperrors.MapError(err)
		}
		if handler.State != domain.HandlerStateActive {
			return apperrors.NewUnauthorized("handler suspended")
		}
		principal.Handler = handler
		principal.Role = &handler.Role
	case domain.SubjectTypeService:
	default:
		return apperrors.NewUnauthorized("unknown subject")
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
