package dto

import (
	"time"

	"github.com/spec-kit/enquiry-console/internal/domain"
)

// CreateEnquiryRequest payload for staff-entered and intake enquiries.
type CreateEnquiryRequest struct {
	ContactName      string  `json:"contact_name" validate:"required,max=200"`
	Phone            string  `json:"phone" validate:"required,phone"`
	Source           string  `json:"source,omitempty" validate:"omitempty,oneof=public-form bot-form web-form"`
	Handler          *string `json:"handler,omitempty" validate:"omitempty,max=64"`
	Disposition      string  `json:"disposition,omitempty" validate:"max=2000"`
	BusinessName     string  `json:"business_name,omitempty" validate:"max=200"`
	Notes            string  `json:"notes,omitempty" validate:"max=4000"`
	SecondaryContact string  `json:"secondary_contact,omitempty" validate:"max=200"`
}

// UpdateEnquiryRequest carries any subset of mutable fields.
type UpdateEnquiryRequest struct {
	Handler            *string `json:"handler,omitempty" validate:"omitempty,max=64"`
	Disposition        *string `json:"disposition,omitempty" validate:"omitempty,max=2000"`
	BusinessName       *string `json:"business_name,omitempty" validate:"omitempty,max=200"`
	Notes              *string `json:"notes,omitempty" validate:"omitempty,max=4000"`
	SecondaryContact   *string `json:"secondary_contact,omitempty" validate:"omitempty,max=200"`
	SuggestedHandlerID *string `json:"suggested_handler_id,omitempty" validate:"omitempty,max=64"`
}

// Empty reports whether no mutable field is present.
func (r UpdateEnquiryRequest) Empty() bool {
	return r.Handler == nil && r.Disposition == nil && r.BusinessName == nil &&
		r.Notes == nil && r.SecondaryContact == nil
}

// EnquiryResponse is the full wire form of a lead.
type EnquiryResponse struct {
	ID               string            `json:"id"`
	ContactName      string            `json:"contact_name"`
	Phone            string            `json:"phone"`
	Handler          domain.HandlerRef `json:"handler"`
	Disposition      string            `json:"disposition"`
	BusinessName     string            `json:"business_name"`
	Notes            string            `json:"notes"`
	SecondaryContact string            `json:"secondary_contact"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// EnquiryFromDomain maps a lead to its wire form.
func EnquiryFromDomain(lead *domain.Lead) EnquiryResponse {
	return EnquiryResponse{
		ID:               lead.ID,
		ContactName:      lead.ContactName,
		Phone:            lead.Phone,
		Handler:          lead.Handler,
		Disposition:      lead.Disposition,
		BusinessName:     lead.BusinessName,
		Notes:            lead.Notes,
		SecondaryContact: lead.SecondaryContact,
		CreatedAt:        lead.CreatedAt,
		UpdatedAt:        lead.UpdatedAt,
	}
}

// ToDomain maps the wire form back to a lead.
func (r EnquiryResponse) ToDomain() *domain.Lead {
	return &domain.Lead{
		ID:               r.ID,
		ContactName:      r.ContactName,
		Phone:            r.Phone,
		Handler:          r.Handler,
		Disposition:      r.Disposition,
		BusinessName:     r.BusinessName,
		Notes:            r.Notes,
		SecondaryContact: r.SecondaryContact,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

// AssignmentResponse is an audit entry.
type AssignmentResponse struct {
	ID                 string            `json:"id"`
	LeadID             string            `json:"lead_id"`
	ActorID            *string           `json:"actor_id,omitempty"`
	OldHandler         domain.HandlerRef `json:"old_handler"`
	NewHandler         domain.HandlerRef `json:"new_handler"`
	SuggestedHandlerID *string           `json:"suggested_handler_id,omitempty"`
	Overridden         bool              `json:"overridden"`
	CreatedAt          time.Time         `json:"created_at"`
}

// AssignmentFromDomain maps an audit record.
func AssignmentFromDomain(rec *domain.AssignmentRecord) AssignmentResponse {
	return AssignmentResponse{
		ID:                 rec.ID,
		LeadID:             rec.LeadID,
		ActorID:            rec.ActorID,
		OldHandler:         rec.OldHandler,
		NewHandler:         rec.NewHandler,
		SuggestedHandlerID: rec.SuggestedHandlerID,
		Overridden:         rec.Overridden,
		CreatedAt:          rec.CreatedAt,
	}
}
