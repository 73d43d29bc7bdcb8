package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/enquiry-console/internal/api/dto"
	"github.com/spec-kit/enquiry-console/internal/domain"
	"github.com/spec-kit/enquiry-console/internal/service"
	"github.com/spec-kit/enquiry-console/internal/validation"
	apperrors "github.com/spec-kit/enquiry-console/pkg/util/errorutil"
)

// EnquiriesHandler manages enquiry endpoints.
type EnquiriesHandler struct {
	service  *service.EnquiryService
	validate *validation.Validator
}

// NewEnquiriesHandler constructs handler.
func NewEnquiriesHandler(enquiryService *service.EnquiryService, v *validation.Validator) *EnquiriesHandler {
	return &EnquiriesHandler{service: enquiryService, validate: v}
}

// List GET /enquiries.
func (h *EnquiriesHandler) List(c *fiber.Ctx) error {
	leads, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.EnquiryResponse, 0, len(leads))
	for _, lead := range leads {
		items = append(items, dto.EnquiryFromDomain(lead))
	}
	return c.JSON(data(items))
}

// Get GET /enquiries/:id.
func (h *EnquiriesHandler) Get(c *fiber.Ctx) error {
	lead, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(data(dto.EnquiryFromDomain(lead)))
}

// Create POST /enquiries.
func (h *EnquiriesHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateEnquiryRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	input := createInput(req)
	if req.Handler != nil {
		ref := domain.ParseHandlerRef(*req.Handler)
		input.Handler = &ref
	}
	lead, err := h.service.Create(c.UserContext(), actor(c), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(data(dto.EnquiryFromDomain(lead)))
}

// Intake POST /intake/enquiries. Public; the handler field is always the
// source tag, defaulting to the public form.
func (h *EnquiriesHandler) Intake(c *fiber.Ctx) error {
	var req dto.CreateEnquiryRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	input := createInput(req)
	if input.Source == nil {
		source := domain.SourcePublicForm
		input.Source = &source
	}
	lead, err := h.service.Create(c.UserContext(), nil, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(data(fiber.Map{"id": lead.ID}))
}

// Update PATCH /enquiries/:id.
func (h *EnquiriesHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateEnquiryRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	if req.Empty() {
		return apperrors.NewValidationError("no fields to update", nil)
	}
	input := service.EnquiryUpdateInput{
		Disposition:        req.Disposition,
		BusinessName:       req.BusinessName,
		Notes:              req.Notes,
		SecondaryContact:   req.SecondaryContact,
		SuggestedHandlerID: req.SuggestedHandlerID,
	}
	if req.Handler != nil {
		ref := domain.ParseHandlerRef(*req.Handler)
		input.Handler = &ref
	}
	lead, err := h.service.Update(c.UserContext(), actor(c), c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(data(dto.EnquiryFromDomain(lead)))
}

// Delete DELETE /enquiries/:id.
func (h *EnquiriesHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), actor(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Assignments GET /enquiries/:id/assignments.
func (h *EnquiriesHandler) Assignments(c *fiber.Ctx) error {
	records, err := h.service.ListAssignments(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.AssignmentResponse, 0, len(records))
	for i := range records {
		items = append(items, dto.AssignmentFromDomain(&records[i]))
	}
	return c.JSON(data(items))
}

func createInput(req dto.CreateEnquiryRequest) service.EnquiryCreateInput {
	input := service.EnquiryCreateInput{
		ContactName:      req.ContactName,
		Phone:            req.Phone,
		Disposition:      req.Disposition,
		BusinessName:     req.BusinessName,
		Notes:            req.Notes,
		SecondaryContact: req.SecondaryContact,
	}
	if req.Source != "" {
		source := domain.SourceKind(req.Source)
		input.Source = &source
	}
	return input
}
