package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/enquiry-console/internal/auth"
	"github.com/spec-kit/enquiry-console/internal/config"
	"github.com/spec-kit/enquiry-console/internal/domain"
	"github.com/spec-kit/enquiry-console/internal/repository"
	apperrors "github.com/spec-kit/enquiry-console/pkg/util/errorutil"
)

func testConfig() config.Config {
	return config.Config{Auth: config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 5, BcryptCost: bcrypt.MinCost}}
}

func TestRosterWritesRequireAdministrative(t *testing.T) {
	regular := domain.Handler{ID: uuid.NewString(), Role: domain.HandlerRoleRegular, State: domain.HandlerStateActive}
	svc := NewRosterService(testConfig(), newMemHandlers(regular))

	_, err := svc.Create(context.Background(), &regular, HandlerCreateInput{Name: "X", Email: "x@example.com", Password: "password1"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))

	_, err = svc.Create(context.Background(), nil, HandlerCreateInput{Name: "X", Email: "x@example.com", Password: "password1"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
}

func TestRosterCreateAndSuspend(t *testing.T) {
	admin := domain.Handler{ID: uuid.NewString(), Name: "Root", Email: "root@example.com", Role: domain.HandlerRoleAdministrative, State: domain.HandlerStateActive}
	repo := newMemHandlers(admin)
	svc := NewRosterService(testConfig(), repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, &admin, HandlerCreateInput{Name: " Meera ", Email: "Meera@Example.com", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, "Meera", created.Name)
	assert.Equal(t, "meera@example.com", created.Email)
	assert.Equal(t, domain.HandlerRoleRegular, created.Role)
	assert.True(t, created.Eligible())
	assert.NoError(t, auth.ComparePassword(created.PasswordHash, "password1"))

	_, err = svc.Create(ctx, &admin, HandlerCreateInput{Name: "Dup", Email: "meera@example.com", Password: "password1"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))

	suspended := domain.HandlerStateSuspended
	updated, err := svc.Update(ctx, &admin, created.ID, HandlerUpdateInput{State: &suspended})
	require.NoError(t, err)
	assert.False(t, updated.Eligible())

	active := domain.HandlerStateActive
	list, err := svc.List(ctx, repository.HandlerFilter{State: &active})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, admin.ID, list[0].ID)
}

func TestRosterAdminCannotSuspendSelf(t *testing.T) {
	admin := domain.Handler{ID: uuid.NewString(), Role: domain.HandlerRoleAdministrative, State: domain.HandlerStateActive}
	svc := NewRosterService(testConfig(), newMemHandlers(admin))
	suspended := domain.HandlerStateSuspended

	_, err := svc.Update(context.Background(), &admin, admin.ID, HandlerUpdateInput{State: &suspended})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))
}
