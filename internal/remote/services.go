// Package remote defines the collaborator services the assignment pipeline
// calls into, and an HTTP implementation backed by the enquiry backend.
package remote

import (
	"context"

	"github.com/spec-kit/enquiry-console/internal/domain"
)

// CreateFields describes a new enquiry.
type CreateFields struct {
	ContactName      string
	Phone            string
	Source           domain.SourceKind
	Disposition      string
	BusinessName     string
	Notes            string
	SecondaryContact string
}

// UpdateFields carries any subset of mutable enquiry fields. SuggestedHandlerID
// is audit metadata sent alongside a handler change.
type UpdateFields struct {
	Handler            *domain.HandlerRef
	Disposition        *string
	BusinessName       *string
	Notes              *string
	SecondaryContact   *string
	SuggestedHandlerID *string
}

// EnquiryService is the lead persistence collaborator.
type EnquiryService interface {
	ListAll(ctx context.Context) ([]*domain.Lead, error)
	Create(ctx context.Context, fields CreateFields) (*domain.Lead, error)
	Update(ctx context.Context, id string, fields UpdateFields) (*domain.Lead, error)
	Delete(ctx context.Context, id string) error
}

// HandlerService lists the staff roster.
type HandlerService interface {
	ListAll(ctx context.Context) ([]domain.Handler, error)
}

// ClientService lists converted clients.
type ClientService interface {
	ListAll(ctx context.Context) ([]domain.Client, error)
}
