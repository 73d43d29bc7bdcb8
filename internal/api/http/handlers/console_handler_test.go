package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/enquiry-console/internal/console"
	"github.com/spec-kit/enquiry-console/internal/domain"
	"github.com/spec-kit/enquiry-console/internal/leadstore"
	"github.com/spec-kit/enquiry-console/internal/observability"
	"github.com/spec-kit/enquiry-console/internal/reconcile"
	"github.com/spec-kit/enquiry-console/internal/remote"
	apperrors "github.com/spec-kit/enquiry-console/pkg/util/errorutil"
)

type stubEnquiries struct {
	store *leadstore.Store
	calls int
}

func (s *stubEnquiries) ListAll(context.Context) ([]*domain.Lead, error) {
	return s.store.GetAll(), nil
}

func (s *stubEnquiries) Create(_ context.Context, f remote.CreateFields) (*domain.Lead, error) {
	s.calls++
	return &domain.Lead{ID: "created", ContactName: f.ContactName, Phone: f.Phone}, nil
}

func (s *stubEnquiries) Update(_ context.Context, id string, f remote.UpdateFields) (*domain.Lead, error) {
	s.calls++
	lead, _ := s.store.Get(id)
	out := lead.Clone()
	if f.Handler != nil {
		out.Handler = *f.Handler
	}
	if f.Disposition != nil {
		out.Disposition = *f.Disposition
	}
	out.UpdatedAt = out.UpdatedAt.Add(time.Second)
	return out, nil
}

func (s *stubEnquiries) Delete(context.Context, string) error { return nil }

type stubSyncer struct{ editing int }

func (s *stubSyncer) Load(context.Context) (reconcile.Result, error) {
	return reconcile.Result{Outcome: reconcile.OutcomePatched, Patched: []string{"l1"}}, nil
}
func (s *stubSyncer) BeginEdit()             { s.editing++ }
func (s *stubSyncer) EndEdit()               { s.editing-- }
func (s *stubSyncer) Editing() bool          { return s.editing > 0 }
func (s *stubSyncer) State() reconcile.State { return reconcile.StateIdle }

type consoleEnv struct {
	app       *fiber.App
	enquiries *stubEnquiries
	syncer    *stubSyncer
}

func newConsoleEnv(t *testing.T) *consoleEnv {
	t.Helper()
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	store := leadstore.New()
	store.ReplaceHandlers([]domain.Handler{
		{ID: "h-ana", Name: "Ana", Role: domain.HandlerRoleRegular, State: domain.HandlerStateActive},
		{ID: "h-ben", Name: "Ben", Role: domain.HandlerRoleRegular, State: domain.HandlerStateActive},
	})
	store.ReplaceAll([]*domain.Lead{
		{ID: "l1", ContactName: "One", Phone: "9000000001", CreatedAt: at, UpdatedAt: at},
		{ID: "l2", ContactName: "Two", Phone: "9000000002", Handler: domain.SourceTag(domain.SourceBotForm), CreatedAt: at.Add(time.Minute), UpdatedAt: at},
	})

	env := &consoleEnv{enquiries: &stubEnquiries{store: store}, syncer: &stubSyncer{}}
	svc, err := console.NewService(console.Dependencies{Store: store, Syncer: env.syncer, Enquiries: env.enquiries})
	require.NoError(t, err)

	h := NewConsoleHandler(svc, observability.NewMetrics())
	app := fiber.New(fiber.Config{ErrorHandler: func(c *fiber.Ctx, err error) error {
		de := apperrors.ToDomainError(err)
		return c.Status(de.HTTPStatus).JSON(fiber.Map{"error": fiber.Map{"code": de.Code, "details": de.Details}})
	}})
	app.Get("/console/board", h.Board)
	app.Post("/console/assignments", h.Assign)
	app.Put("/console/enquiries/:id/disposition", h.UpdateDisposition)
	app.Post("/console/edit-sessions", h.BeginEdit)
	app.Delete("/console/edit-sessions", h.EndEdit)
	app.Post("/console/refresh", h.Refresh)
	app.Get("/console/metrics", h.Metrics)
	env.app = app
	return env
}

func (e *consoleEnv) do(t *testing.T, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := e.app.Test(req)
	require.NoError(t, err)
	out := map[string]any{}
	if resp.StatusCode != fiber.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp.StatusCode, out
}

func TestConsoleBoardRoute(t *testing.T) {
	env := newConsoleEnv(t)
	status, body := env.do(t, "GET", "/console/board", nil)
	require.Equal(t, fiber.StatusOK, status)

	board := body["data"].(map[string]any)
	assert.Equal(t, "h-ana", board["suggested_handler_id"])
	assert.Equal(t, "l1", board["oldest_unassigned_id"])
	rows := board["rows"].([]any)
	require.Len(t, rows, 2)
	first := rows[0].(map[string]any)
	second := rows[1].(map[string]any)
	assert.Equal(t, "l1", first["id"])
	assert.Equal(t, true, first["eligible"])
	assert.Equal(t, "bot-form", second["handler"])
	assert.Equal(t, false, second["eligible"])
}

func TestConsoleAssignRoute(t *testing.T) {
	env := newConsoleEnv(t)

	status, body := env.do(t, "POST", "/console/assignments", map[string]any{"lead_id": "l1", "handler_id": "h-ben"})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, apperrors.CodeOverrideRequired, body["error"].(map[string]any)["code"])
	assert.Zero(t, env.enquiries.calls)

	status, body = env.do(t, "POST", "/console/assignments", map[string]any{"lead_id": "l1", "handler_id": "h-ben", "confirm_override": true})
	require.Equal(t, fiber.StatusOK, status)
	result := body["data"].(map[string]any)
	assert.Equal(t, true, result["overridden"])
	assert.Equal(t, "h-ben", result["enquiry"].(map[string]any)["handler"])

	status, _ = env.do(t, "POST", "/console/assignments", map[string]any{"handler_id": "h-ben"})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestConsoleDispositionAndSessions(t *testing.T) {
	env := newConsoleEnv(t)

	status, body := env.do(t, "PUT", "/console/enquiries/l2/disposition", map[string]any{"disposition": "shortlisted"})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "shortlisted", body["data"].(map[string]any)["disposition"])

	status, _ = env.do(t, "POST", "/console/edit-sessions", nil)
	assert.Equal(t, fiber.StatusNoContent, status)
	_, body = env.do(t, "GET", "/console/board", nil)
	assert.Equal(t, true, body["data"].(map[string]any)["editing"])
	status, _ = env.do(t, "DELETE", "/console/edit-sessions", nil)
	assert.Equal(t, fiber.StatusNoContent, status)
	assert.False(t, env.syncer.Editing())

	status, body = env.do(t, "POST", "/console/refresh", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "patched", body["data"].(map[string]any)["outcome"])

	status, _ = env.do(t, "GET", "/console/metrics", nil)
	assert.Equal(t, fiber.StatusOK, status)
}
