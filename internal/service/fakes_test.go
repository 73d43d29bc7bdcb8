package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/enquiry-console/internal/domain"
	"github.com/spec-kit/enquiry-console/internal/events"
	"github.com/spec-kit/enquiry-console/internal/repository"
)

type memLeads struct {
	mu    sync.Mutex
	leads map[string]*domain.Lead
	clock time.Time
}

func newMemLeads() *memLeads {
	return &memLeads{leads: map[string]*domain.Lead{}, clock: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (m *memLeads) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memLeads) Create(_ context.Context, lead *domain.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	lead.ID = uuid.NewString()
	lead.CreatedAt = m.tick()
	lead.UpdatedAt = lead.CreatedAt
	m.leads[lead.ID] = lead.Clone()
	return nil
}

func (m *memLeads) Update(_ context.Context, id string, patch repository.LeadPatch) (*domain.Lead, domain.HandlerRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lead, ok := m.leads[id]
	if !ok {
		return nil, domain.Unassigned(), pgx.ErrNoRows
	}
	previous := lead.Handler
	if patch.Handler != nil {
		lead.Handler = *patch.Handler
	}
	if patch.Disposition != nil {
		lead.Disposition = *patch.Disposition
	}
	if patch.BusinessName != nil {
		lead.BusinessName = *patch.BusinessName
	}
	if patch.Notes != nil {
		lead.Notes = *patch.Notes
	}
	if patch.SecondaryContact != nil {
		lead.SecondaryContact = *patch.SecondaryContact
	}
	lead.UpdatedAt = m.tick()
	return lead.Clone(), previous, nil
}

func (m *memLeads) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.leads[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.leads, id)
	return nil
}

func (m *memLeads) GetByID(_ context.Context, id string) (*domain.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lead, ok := m.leads[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return lead.Clone(), nil
}

func (m *memLeads) ListAll(_ context.Context) ([]*domain.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Lead, 0, len(m.leads))
	for _, lead := range m.leads {
		out = append(out, lead.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return domain.CompareLeads(out[i], out[j]) < 0 })
	return out, nil
}

type memHandlers struct {
	mu       sync.Mutex
	handlers map[string]*domain.Handler
}

func newMemHandlers(hs ...domain.Handler) *memHandlers {
	m := &memHandlers{handlers: map[string]*domain.Handler{}}
	for i := range hs {
		h := hs[i]
		m.handlers[h.ID] = &h
	}
	return m
}

func (m *memHandlers) Create(_ context.Context, h *domain.Handler) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	h.ID = uuid.NewString()
	h.CreatedAt = time.Now()
	h.UpdatedAt = h.CreatedAt
	cp := *h
	m.handlers[h.ID] = &cp
	return nil
}

func (m *memHandlers) Update(_ context.Context, h *domain.Handler) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.handlers[h.ID]; !ok {
		return pgx.ErrNoRows
	}
	h.UpdatedAt = time.Now()
	cp := *h
	m.handlers[h.ID] = &cp
	return nil
}

func (m *memHandlers) GetByID(_ context.Context, id string) (*domain.Handler, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.handlers[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *h
	return &cp, nil
}

func (m *memHandlers) GetByEmail(_ context.Context, email string) (*domain.Handler, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, h := range m.handlers {
		if strings.EqualFold(h.Email, email) {
			cp := *h
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memHandlers) List(_ context.Context, filter repository.HandlerFilter) ([]domain.Handler, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Handler
	for _, h := range m.handlers {
		if filter.Role != nil && h.Role != *filter.Role {
			continue
		}
		if filter.State != nil && h.State != *filter.State {
			continue
		}
		out = append(out, *h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type memAssignments struct {
	mu      sync.Mutex
	records []domain.AssignmentRecord
}

func (m *memAssignments) Create(_ context.Context, rec *domain.AssignmentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec.ID = uuid.NewString()
	rec.CreatedAt = time.Now()
	m.records = append(m.records, *rec)
	return nil
}

func (m *memAssignments) ListByLead(_ context.Context, leadID string) ([]domain.AssignmentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.AssignmentRecord
	for _, r := range m.records {
		if r.LeadID == leadID {
			out = append(out, r)
		}
	}
	return out, nil
}

// memTx restores the lead table when fn fails, the way a rolled back
// transaction would.
type memTx struct {
	leads       *memLeads
	assignments repository.AssignmentRepository
}

func (m *memTx) WithTx(ctx context.Context, fn func(repository.LeadRepository, repository.AssignmentRepository) error) error {
	m.leads.mu.Lock()
	snapshot := make(map[string]*domain.Lead, len(m.leads.leads))
	for id, lead := range m.leads.leads {
		snapshot[id] = lead.Clone()
	}
	m.leads.mu.Unlock()

	if err := fn(m.leads, m.assignments); err != nil {
		m.leads.mu.Lock()
		m.leads.leads = snapshot
		m.leads.mu.Unlock()
		return err
	}
	return nil
}

type failingAssignments struct {
	memAssignments
	err error
}

func (f *failingAssignments) Create(context.Context, *domain.AssignmentRecord) error {
	return f.err
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, e events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, e)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) types() []events.EventType {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]events.EventType, 0, len(d.events))
	for _, e := range d.events {
		out = append(out, e.Type)
	}
	return out
}
