package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/enquiry-console/internal/domain"
	"github.com/spec-kit/enquiry-console/internal/events"
	"github.com/spec-kit/enquiry-console/internal/repository"
	apperrors "github.com/spec-kit/enquiry-console/pkg/util/errorutil"
)

// EnquiryService owns lead persistence and the assignment audit trail.
type EnquiryService struct {
	leads       repository.LeadRepository
	handlers    repository.HandlerRepository
	assignments repository.AssignmentRepository
	tx          repository.TxRunner
	dispatcher  events.Dispatcher
}

// EnquiryDependencies bundles repositories. Tx must bind the lead and
// assignment writes of one update to a single transaction.
type EnquiryDependencies struct {
	LeadRepo       repository.LeadRepository
	HandlerRepo    repository.HandlerRepository
	AssignmentRepo repository.AssignmentRepository
	Tx             repository.TxRunner
	Dispatcher     events.Dispatcher
}

// EnquiryCreateInput describes a new lead. Source, when set, tags the handler
// field instead of leaving it unassigned.
type EnquiryCreateInput struct {
	ContactName      string
	Phone            string
	Source           *domain.SourceKind
	Handler          *domain.HandlerRef
	Disposition      string
	BusinessName     string
	Notes            string
	SecondaryContact string
}

// EnquiryUpdateInput carries any subset of mutable fields.
type EnquiryUpdateInput struct {
	Handler            *domain.HandlerRef
	Disposition        *string
	BusinessName       *string
	Notes              *string
	SecondaryContact   *string
	SuggestedHandlerID *string
}

func (in EnquiryUpdateInput) fields() []string {
	var out []string
	if in.Handler != nil {
		out = append(out, "handler")
	}
	if in.Disposition != nil {
		out = append(out, "disposition")
	}
	if in.BusinessName != nil {
		out = append(out, "business_name")
	}
	if in.Notes != nil {
		out = append(out, "notes")
	}
	if in.SecondaryContact != nil {
		out = append(out, "secondary_contact")
	}
	return out
}

// NewEnquiryService creates the service.
func NewEnquiryService(deps EnquiryDependencies) *EnquiryService {
	return &EnquiryService{
		leads:       deps.LeadRepo,
		handlers:    deps.HandlerRepo,
		assignments: deps.AssignmentRepo,
		tx:          deps.Tx,
		dispatcher:  deps.Dispatcher,
	}
}

// List returns every lead ordered by creation time.
func (s *EnquiryService) List(ctx context.Context) ([]*domain.Lead, error) {
	leads, err := s.leads.ListAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return leads, nil
}

// Get loads a single lead.
func (s *EnquiryService) Get(ctx context.Context, id string) (*domain.Lead, error) {
	if !validID(id) {
		return nil, apperrors.NewNotFound("enquiry", map[string]any{"enquiry_id": id})
	}
	lead, err := s.leads.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "enquiry", id)
	}
	return lead, nil
}

// Create stores a new lead and publishes lead_created.
func (s *EnquiryService) Create(ctx context.Context, actor *domain.Handler, input EnquiryCreateInput) (*domain.Lead, error) {
	if strings.TrimSpace(input.ContactName) == "" || strings.TrimSpace(input.Phone) == "" {
		return nil, apperrors.NewValidationError("contact_name and phone required", nil)
	}

	handler := domain.Unassigned()
	switch {
	case input.Handler != nil:
		handler = *input.Handler
	case input.Source != nil:
		if !input.Source.Valid() {
			return nil, apperrors.NewValidationError("unknown source", map[string]any{"source": string(*input.Source)})
		}
		handler = domain.SourceTag(*input.Source)
	}
	if err := s.ensureHandlerExists(ctx, handler); err != nil {
		return nil, err
	}

	lead := &domain.Lead{
		ContactName:      strings.TrimSpace(input.ContactName),
		Phone:            strings.TrimSpace(input.Phone),
		Handler:          handler,
		Disposition:      input.Disposition,
		BusinessName:     input.BusinessName,
		Notes:            input.Notes,
		SecondaryContact: input.SecondaryContact,
	}
	if err := s.leads.Create(ctx, lead); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:   events.EventLeadCreated,
		LeadID: lead.ID,
		Actor:  actorOf(actor),
		Payload: events.LeadCreatedPayload{
			ContactName: lead.ContactName,
			Phone:       lead.Phone,
			Handler:     lead.Handler,
		},
	})
	return lead, nil
}

// Update applies a partial update and returns the full stored record. A
// handler transition writes an assignment record and publishes lead_assigned.
func (s *EnquiryService) Update(ctx context.Context, actor *domain.Handler, id string, input EnquiryUpdateInput) (*domain.Lead, error) {
	if !validID(id) {
		return nil, apperrors.NewNotFound("enquiry", map[string]any{"enquiry_id": id})
	}
	fields := input.fields()
	if len(fields) == 0 {
		return nil, apperrors.NewValidationError("no fields to update", nil)
	}
	if input.Handler != nil {
		if err := s.ensureHandlerExists(ctx, *input.Handler); err != nil {
			return nil, err
		}
	}

	var (
		lead     *domain.Lead
		previous domain.HandlerRef
		record   *domain.AssignmentRecord
	)
	err := s.tx.WithTx(ctx, func(leads repository.LeadRepository, assignments repository.AssignmentRepository) error {
		var err error
		lead, previous, err = leads.Update(ctx, id, repository.LeadPatch{
			Handler:          input.Handler,
			Disposition:      input.Disposition,
			BusinessName:     input.BusinessName,
			Notes:            input.Notes,
			SecondaryContact: input.SecondaryContact,
		})
		if err != nil {
			return err
		}
		if input.Handler == nil || previous == lead.Handler {
			return nil
		}

		// Only a first-time assignment can override the fair-queue suggestion.
		record = &domain.AssignmentRecord{
			LeadID:     lead.ID,
			OldHandler: previous,
			NewHandler: lead.Handler,
		}
		if !previous.IsAssigned() {
			record.SuggestedHandlerID = input.SuggestedHandlerID
			record.Overridden = overridden(lead.Handler, input.SuggestedHandlerID)
		}
		if actor != nil {
			record.ActorID = &actor.ID
		}
		return assignments.Create(ctx, record)
	})
	if err != nil {
		return nil, notFoundOr(err, "enquiry", id)
	}

	if record != nil {
		s.publishEvent(ctx, events.Event{
			Type:   events.EventLeadAssigned,
			LeadID: lead.ID,
			Actor:  actorOf(actor),
			Payload: events.LeadAssignedPayload{
				OldHandler:         previous,
				NewHandler:         lead.Handler,
				SuggestedHandlerID: record.SuggestedHandlerID,
				Overridden:         record.Overridden,
			},
		})
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventLeadUpdated,
		LeadID:  lead.ID,
		Actor:   actorOf(actor),
		Payload: events.LeadUpdatedPayload{Fields: fields},
	})
	return lead, nil
}

// Delete removes a lead.
func (s *EnquiryService) Delete(ctx context.Context, actor *domain.Handler, id string) error {
	if !validID(id) {
		return apperrors.NewNotFound("enquiry", map[string]any{"enquiry_id": id})
	}
	if err := s.leads.Delete(ctx, id); err != nil {
		return notFoundOr(err, "enquiry", id)
	}
	s.publishEvent(ctx, events.Event{Type: events.EventLeadDeleted, LeadID: id, Actor: actorOf(actor)})
	return nil
}

// ListAssignments returns the audit trail for a lead.
func (s *EnquiryService) ListAssignments(ctx context.Context, id string) ([]domain.AssignmentRecord, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	records, err := s.assignments.ListByLead(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return records, nil
}

func (s *EnquiryService) ensureHandlerExists(ctx context.Context, ref domain.HandlerRef) error {
	handlerID, ok := ref.HandlerID()
	if !ok {
		return nil
	}
	if !validID(handlerID) {
		return apperrors.NewValidationError("unknown handler", map[string]any{"handler": ref.String()})
	}
	handler, err := s.handlers.GetByID(ctx, handlerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewValidationError("unknown handler", map[string]any{"handler": ref.String()})
		}
		return apperrors.MapError(err)
	}
	if !handler.Eligible() {
		return apperrors.NewConflict("handler is not eligible for assignment", map[string]any{
			"handler_id": handler.ID,
			"state":      handler.State,
		})
	}
	return nil
}

func (s *EnquiryService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func overridden(assigned domain.HandlerRef, suggested *string) bool {
	handlerID, ok := assigned.HandlerID()
	if suggested == nil || !ok {
		return false
	}
	return handlerID != *suggested
}

func actorOf(actor *domain.Handler) events.Actor {
	if actor == nil {
		return events.Actor{Type: domain.SubjectTypeService}
	}
	id := actor.ID
	return events.Actor{Type: domain.SubjectTypeHandler, HandlerID: &id}
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func notFoundOr(err error, resource, id string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, map[string]any{resource + "_id": id})
	}
	return apperrors.MapError(err)
}
