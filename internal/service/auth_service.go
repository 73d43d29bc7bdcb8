package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/enquiry-console/internal/auth"
	"github.com/spec-kit/enquiry-console/internal/config"
	"github.com/spec-kit/enquiry-console/internal/domain"
	"github.com/spec-kit/enquiry-console/internal/repository"
	apperrors "github.com/spec-kit/enquiry-console/pkg/util/errorutil"
)

// AuthService coordinates handler login and service tokens.
type AuthService struct {
	handlers repository.HandlerRepository
	tokenMgr *auth.TokenManager
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, handlers repository.HandlerRepository) *AuthService {
	return &AuthService{
		handlers: handlers,
		tokenMgr: auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
	}
}

// Login authenticates a handler and returns a role-bearing token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Handler, string, time.Time, error) {
	handler, err := s.handlers.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if handler.State != domain.HandlerStateActive {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("handler suspended")
	}
	if err := auth.ComparePassword(handler.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	token, exp, err := s.tokenMgr.GenerateToken(handler.ID, domain.SubjectTypeHandler, &handler.Role)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return handler, token, exp, nil
}

// IssueServiceToken mints a long-lived token for a non-human caller such as
// the console agent.
func (s *AuthService) IssueServiceToken(actor *domain.Handler, name string, ttl time.Duration) (string, time.Time, error) {
	if err := requireAdministrative(actor); err != nil {
		return "", time.Time{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", time.Time{}, apperrors.NewValidationError("name required", nil)
	}
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	token, exp, err := s.tokenMgr.GenerateTokenWithTTL("service:"+name, domain.SubjectTypeService, nil, ttl)
	if err != nil {
		return "", time.Time{}, apperrors.NewInternalError(err)
	}
	return token, exp, nil
}

// Introspect validates a token and describes it.
func (s *AuthService) Introspect(token string) (domain.Token, error) {
	claims, err := s.tokenMgr.ParseToken(token)
	if err != nil {
		return domain.Token{}, apperrors.NewUnauthorized("invalid token")
	}
	return claims.Describe(), nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
