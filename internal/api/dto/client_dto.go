package dto

import (
	"time"

	"github.com/spec-kit/enquiry-console/internal/domain"
)

// CreateClientRequest converts an enquiry into a client record.
type CreateClientRequest struct {
	Name            string  `json:"name" validate:"required,max=200"`
	Phone           string  `json:"phone" validate:"required,phone"`
	SourceEnquiryID *string `json:"source_enquiry_id,omitempty" validate:"omitempty,uuid"`
}

// ClientResponse payload.
type ClientResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Phone           string    `json:"phone"`
	SourceEnquiryID *string   `json:"source_enquiry_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// ClientFromDomain maps a client.
func ClientFromDomain(c *domain.Client) ClientResponse {
	return ClientResponse{
		ID:              c.ID,
		Name:            c.Name,
		Phone:           c.Phone,
		SourceEnquiryID: c.SourceEnquiryID,
		CreatedAt:       c.CreatedAt,
	}
}

// ToDomain maps the wire form back to a client.
func (r ClientResponse) ToDomain() domain.Client {
	return domain.Client{
		ID:              r.ID,
		Name:            r.Name,
		Phone:           r.Phone,
		SourceEnquiryID: r.SourceEnquiryID,
		CreatedAt:       r.CreatedAt,
	}
}
