// Package leadstore holds the console's in-memory replica of enquiries and the
// handler roster.
package leadstore

import (
	"sync"
	"time"

	"github.com/spec-kit/enquiry-console/internal/domain"
)

// FieldChanges names the mutable lead fields a patch touches. Nil fields are
// left alone.
type FieldChanges struct {
	Handler          *domain.HandlerRef
	Disposition      *string
	BusinessName     *string
	Notes            *string
	SecondaryContact *string
	UpdatedAt        *time.Time
}

// Empty reports whether the patch names no fields.
func (c FieldChanges) Empty() bool {
	return c.Handler == nil && c.Disposition == nil && c.BusinessName == nil &&
		c.Notes == nil && c.SecondaryContact == nil && c.UpdatedAt == nil
}

func (c FieldChanges) apply(lead *domain.Lead) {
	if c.Handler != nil {
		lead.Handler = *c.Handler
	}
	if c.Disposition != nil {
		lead.Disposition = *c.Disposition
	}
	if c.BusinessName != nil {
		lead.BusinessName = *c.BusinessName
	}
	if c.Notes != nil {
		lead.Notes = *c.Notes
	}
	if c.SecondaryContact != nil {
		lead.SecondaryContact = *c.SecondaryContact
	}
	if c.UpdatedAt != nil {
		lead.UpdatedAt = *c.UpdatedAt
	}
}

// Store is the lead replica. Leads handed out by the store must be treated as
// read-only: every mutation swaps in a fresh copy, so a lead that is never
// patched keeps its pointer identity across reconciliations.
type Store struct {
	mu       sync.RWMutex
	leads    map[string]*domain.Lead
	handlers []domain.Handler
}

// New returns an empty store.
func New() *Store {
	return &Store{leads: make(map[string]*domain.Lead)}
}

// GetAll returns every lead in undefined order.
func (s *Store) GetAll() []*domain.Lead {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Lead, 0, len(s.leads))
	for _, lead := range s.leads {
		out = append(out, lead)
	}
	return out
}

// Get returns the lead with id, if present.
func (s *Store) Get(id string) (*domain.Lead, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lead, ok := s.leads[id]
	return lead, ok
}

// Len returns the number of leads held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.leads)
}

// ApplyPatch merges the named fields into the lead with id. A missing id is a
// silent no-op; the return value reports whether the patch was applied.
func (s *Store) ApplyPatch(id string, changes FieldChanges) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.leads[id]
	if !ok {
		return false
	}
	if changes.Empty() {
		return true
	}
	next := current.Clone()
	changes.apply(next)
	s.leads[id] = next
	return true
}

// ReplaceAll swaps the whole lead collection.
func (s *Store) ReplaceAll(leads []*domain.Lead) {
	next := make(map[string]*domain.Lead, len(leads))
	for _, lead := range leads {
		if lead == nil {
			continue
		}
		next[lead.ID] = lead
	}
	s.mu.Lock()
	s.leads = next
	s.mu.Unlock()
}

// Handlers returns a copy of the roster.
func (s *Store) Handlers() []domain.Handler {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Handler(nil), s.handlers...)
}

// Handler looks up a roster entry by id.
func (s *Store) Handler(id string) (domain.Handler, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, h := range s.handlers {
		if h.ID == id {
			return h, true
		}
	}
	return domain.Handler{}, false
}

// ReplaceHandlers swaps the roster.
func (s *Store) ReplaceHandlers(handlers []domain.Handler) {
	cp := append([]domain.Handler(nil), handlers...)
	s.mu.Lock()
	s.handlers = cp
	s.mu.Unlock()
}
