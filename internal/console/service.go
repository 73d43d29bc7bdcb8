// Package console is the operator-facing assignment console: it reads the
// local lead store, applies the sequencing gate and the fair-queue
// suggestion, and pushes assignments and edits to the enquiry backend.
package console

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/enquiry-console/internal/domain"
	"github.com/spec-kit/enquiry-console/internal/fairqueue"
	"github.com/spec-kit/enquiry-console/internal/leadstore"
	"github.com/spec-kit/enquiry-console/internal/reconcile"
	"github.com/spec-kit/enquiry-console/internal/remote"
	"github.com/spec-kit/enquiry-console/internal/sequencing"
	"github.com/spec-kit/enquiry-console/internal/validation"
	apperrors "github.com/spec-kit/enquiry-console/pkg/util/errorutil"
)

// Syncer is the part of the reconciler the console drives directly.
type Syncer interface {
	Load(ctx context.Context) (reconcile.Result, error)
	BeginEdit()
	EndEdit()
	Editing() bool
	State() reconcile.State
}

// Service implements the console operations.
type Service struct {
	store     *leadstore.Store
	syncer    Syncer
	enquiries remote.EnquiryService
	clients   remote.ClientService
	validate  *validation.Validator
	logger    *zap.Logger
}

// Dependencies bundles collaborators.
type Dependencies struct {
	Store     *leadstore.Store
	Syncer    Syncer
	Enquiries remote.EnquiryService
	Clients   remote.ClientService
	Validator *validation.Validator
	Logger    *zap.Logger
}

// NewService builds the console service.
func NewService(deps Dependencies) (*Service, error) {
	if deps.Store == nil || deps.Syncer == nil || deps.Enquiries == nil {
		return nil, errors.New("console: store, syncer and enquiry service are required")
	}
	v := deps.Validator
	if v == nil {
		v = validation.New()
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:     deps.Store,
		syncer:    deps.Syncer,
		enquiries: deps.Enquiries,
		clients:   deps.Clients,
		validate:  v,
		logger:    logger,
	}, nil
}

// Board computes the current view. Gate and suggestion are derived from the
// store on every call.
func (s *Service) Board() Board {
	all := s.store.GetAll()
	handlers := s.store.Handlers()
	roster := fairqueue.EligibleRoster(handlers)
	suggested := fairqueue.NextHandler(all, roster)
	loads := fairqueue.Loads(all, roster)

	names := make(map[string]string, len(handlers))
	for _, h := range handlers {
		names[h.ID] = h.Name
	}

	board := Board{
		Rows:    make([]BoardRow, 0, len(all)),
		Loads:   make([]HandlerLoad, 0, len(roster)),
		State:   s.syncer.State(),
		Editing: s.syncer.Editing(),
	}
	if suggested != nil {
		board.Suggested = &HandlerSummary{ID: suggested.ID, Name: suggested.Name}
	}
	if oldest := sequencing.OldestUnassigned(all); oldest != nil {
		board.OldestUnassignedID = oldest.ID
	}

	for _, lead := range sequencing.Sorted(all) {
		row := BoardRow{Lead: lead, Eligible: sequencing.IsEligibleForAssignment(lead, all)}
		if id, ok := lead.Handler.HandlerID(); ok {
			row.HandlerName = names[id]
		}
		board.Rows = append(board.Rows, row)
	}
	for _, h := range roster {
		board.Loads = append(board.Loads, HandlerLoad{
			HandlerID: h.ID,
			Name:      h.Name,
			Load:      loads[h.ID],
			Suggested: suggested != nil && suggested.ID == h.ID,
		})
	}
	return board
}

// Assign sets a lead's handler after checking the sequencing gate, handler
// eligibility and, for first-time assignments, the fair-queue suggestion.
func (s *Service) Assign(ctx context.Context, in AssignInput) (*AssignResult, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	lead, ok := s.store.Get(in.LeadID)
	if !ok {
		return nil, apperrors.NewNotFound("enquiry", map[string]any{"enquiry_id": in.LeadID})
	}
	handler, ok := s.store.Handler(in.HandlerID)
	if !ok || !handler.Eligible() {
		return nil, apperrors.NewConflict("handler is not eligible for assignment", map[string]any{"handler_id": in.HandlerID})
	}

	target := domain.AssignedTo(handler.ID)
	if lead.Handler == target {
		return &AssignResult{Lead: lead}, nil
	}

	all := s.store.GetAll()
	if blocker := sequencing.Blocker(lead, all); blocker != nil {
		return nil, apperrors.NewConflict("an older enquiry must be assigned first", map[string]any{
			"enquiry_id":            lead.ID,
			"blocked_by":            blocker.ID,
			"blocked_by_created_at": blocker.CreatedAt,
		})
	}

	suggested := fairqueue.NextHandler(all, fairqueue.EligibleRoster(s.store.Handlers()))
	overridden := suggested != nil && suggested.ID != handler.ID
	if overridden && !lead.IsAssigned() && !in.ConfirmOverride {
		return nil, apperrors.NewOverrideRequired(map[string]any{
			"suggested_handler_id":   suggested.ID,
			"suggested_handler_name": suggested.Name,
			"requested_handler_id":   handler.ID,
		})
	}

	fields := remote.UpdateFields{Handler: &target}
	firstTime := !lead.IsAssigned()
	if firstTime && suggested != nil {
		id := suggested.ID
		fields.SuggestedHandlerID = &id
	}
	updated, err := s.enquiries.Update(ctx, lead.ID, fields)
	if err != nil {
		return nil, err
	}
	s.absorb(updated)

	s.logger.Info("enquiry assigned",
		zap.String("enquiry_id", lead.ID),
		zap.String("handler_id", handler.ID),
		zap.Bool("overridden", overridden && firstTime))
	return &AssignResult{Lead: updated, Overridden: overridden && firstTime}, nil
}

// UpdateDisposition patches the local copy first, then writes through. A
// failed write restores the previous local value.
func (s *Service) UpdateDisposition(ctx context.Context, id, disposition string) (*domain.Lead, error) {
	if err := s.validate.Struct(DispositionInput{Disposition: disposition}); err != nil {
		return nil, err
	}
	lead, ok := s.store.Get(id)
	if !ok {
		return nil, apperrors.NewNotFound("enquiry", map[string]any{"enquiry_id": id})
	}
	previous := lead.Disposition
	s.store.ApplyPatch(id, leadstore.FieldChanges{Disposition: &disposition})

	updated, err := s.enquiries.Update(ctx, id, remote.UpdateFields{Disposition: &disposition})
	if err != nil {
		if current, ok := s.store.Get(id); ok && current.Disposition == disposition {
			s.store.ApplyPatch(id, leadstore.FieldChanges{Disposition: &previous})
		}
		return nil, err
	}
	s.absorb(updated)
	return updated, nil
}

// UpdateDetails writes the descriptive fields through to the backend.
func (s *Service) UpdateDetails(ctx context.Context, id string, in DetailsInput) (*domain.Lead, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	if in.Empty() {
		return nil, apperrors.NewValidationError("no fields to update", nil)
	}
	if _, ok := s.store.Get(id); !ok {
		return nil, apperrors.NewNotFound("enquiry", map[string]any{"enquiry_id": id})
	}
	updated, err := s.enquiries.Update(ctx, id, remote.UpdateFields{
		BusinessName:     in.BusinessName,
		Notes:            in.Notes,
		SecondaryContact: in.SecondaryContact,
	})
	if err != nil {
		return nil, err
	}
	s.absorb(updated)
	return updated, nil
}

// CreateEnquiry records a staff-entered enquiry and reloads the board.
func (s *Service) CreateEnquiry(ctx context.Context, in CreateInput) (*domain.Lead, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	lead, err := s.enquiries.Create(ctx, remote.CreateFields{
		ContactName:      strings.TrimSpace(in.ContactName),
		Phone:            strings.TrimSpace(in.Phone),
		Source:           domain.SourceKind(in.Source),
		Disposition:      in.Disposition,
		BusinessName:     in.BusinessName,
		Notes:            in.Notes,
		SecondaryContact: in.SecondaryContact,
	})
	if err != nil {
		return nil, err
	}
	if _, err := s.syncer.Load(ctx); err != nil {
		s.logger.Warn("reload after create failed", zap.Error(err))
	}
	return lead, nil
}

// ShortlistStatus reports whether a lead's contact number already belongs to
// a converted client.
func (s *Service) ShortlistStatus(ctx context.Context, id string) (*ShortlistStatus, error) {
	lead, ok := s.store.Get(id)
	if !ok {
		return nil, apperrors.NewNotFound("enquiry", map[string]any{"enquiry_id": id})
	}
	status := &ShortlistStatus{EnquiryID: lead.ID, NormalizedPhone: domain.NormalizePhone(lead.Phone)}
	if s.clients == nil || status.NormalizedPhone == "" {
		status.Actionable = status.NormalizedPhone != ""
		return status, nil
	}

	clients, err := s.clients.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range clients {
		if domain.NormalizePhone(clients[i].Phone) == status.NormalizedPhone {
			clientID := clients[i].ID
			status.ClientID = &clientID
			status.Converted = true
			break
		}
	}
	status.Actionable = !status.Converted
	return status, nil
}

// BeginEdit opens a modal edit session; polling pauses until it ends.
func (s *Service) BeginEdit() {
	s.syncer.BeginEdit()
}

// EndEdit closes an edit session.
func (s *Service) EndEdit() {
	s.syncer.EndEdit()
}

// Refresh performs a user-initiated load.
func (s *Service) Refresh(ctx context.Context) (reconcile.Result, error) {
	return s.syncer.Load(ctx)
}

// absorb patches the store with the fields of a server-returned record.
func (s *Service) absorb(updated *domain.Lead) {
	if updated == nil {
		return
	}
	current, ok := s.store.Get(updated.ID)
	if !ok {
		return
	}
	if changes := reconcile.Diff(current, updated); !changes.Empty() {
		s.store.ApplyPatch(updated.ID, changes)
	}
}
