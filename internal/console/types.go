package console

import (
	"github.com/spec-kit/enquiry-console/internal/domain"
	"github.com/spec-kit/enquiry-console/internal/reconcile"
)

// AssignInput requests a handler for a lead.
type AssignInput struct {
	LeadID          string `json:"lead_id" validate:"required,max=64"`
	HandlerID       string `json:"handler_id" validate:"required,max=64"`
	ConfirmOverride bool   `json:"confirm_override"`
}

// AssignResult is the stored record after assignment.
type AssignResult struct {
	Lead       *domain.Lead
	Overridden bool
}

// DispositionInput validates a disposition edit.
type DispositionInput struct {
	Disposition string `json:"disposition" validate:"max=2000"`
}

// DetailsInput edits the descriptive fields.
type DetailsInput struct {
	BusinessName     *string `json:"business_name,omitempty" validate:"omitempty,max=200"`
	Notes            *string `json:"notes,omitempty" validate:"omitempty,max=4000"`
	SecondaryContact *string `json:"secondary_contact,omitempty" validate:"omitempty,max=200"`
}

// Empty reports whether no field is set.
func (d DetailsInput) Empty() bool {
	return d.BusinessName == nil && d.Notes == nil && d.SecondaryContact == nil
}

// CreateInput is a staff-entered enquiry.
type CreateInput struct {
	ContactName      string `json:"contact_name" validate:"required,max=200"`
	Phone            string `json:"phone" validate:"required,phone"`
	Source           string `json:"source,omitempty" validate:"omitempty,source"`
	Disposition      string `json:"disposition,omitempty" validate:"max=2000"`
	BusinessName     string `json:"business_name,omitempty" validate:"max=200"`
	Notes            string `json:"notes,omitempty" validate:"max=4000"`
	SecondaryContact string `json:"secondary_contact,omitempty" validate:"max=200"`
}

// Board is the console's derived view of the lead store.
type Board struct {
	Rows               []BoardRow
	Suggested          *HandlerSummary
	OldestUnassignedID string
	Loads              []HandlerLoad
	State              reconcile.State
	Editing            bool
}

// BoardRow is one lead with its gate result.
type BoardRow struct {
	Lead        *domain.Lead
	HandlerName string
	Eligible    bool
}

// HandlerSummary names a handler.
type HandlerSummary struct {
	ID   string
	Name string
}

// HandlerLoad is the current assigned count for a roster member.
type HandlerLoad struct {
	HandlerID string
	Name      string
	Load      int
	Suggested bool
}

// ShortlistStatus reports conversion state for a lead's phone number.
type ShortlistStatus struct {
	EnquiryID       string
	NormalizedPhone string
	Converted       bool
	ClientID        *string
	Actionable      bool
}
