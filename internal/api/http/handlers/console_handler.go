package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/enquiry-console/internal/api/dto"
	"github.com/spec-kit/enquiry-console/internal/console"
	"github.com/spec-kit/enquiry-console/internal/observability"
)

// ConsoleHandler serves the local assignment console API.
type ConsoleHandler struct {
	console *console.Service
	metrics *observability.Metrics
}

// NewConsoleHandler constructs handler.
func NewConsoleHandler(svc *console.Service, metrics *observability.Metrics) *ConsoleHandler {
	return &ConsoleHandler{console: svc, metrics: metrics}
}

// Board GET /console/board.
func (h *ConsoleHandler) Board(c *fiber.Ctx) error {
	return c.JSON(data(BoardFromConsole(h.console.Board())))
}

// Assign POST /console/assignments.
func (h *ConsoleHandler) Assign(c *fiber.Ctx) error {
	var req console.AssignInput
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	res, err := h.console.Assign(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(data(AssignResultResponse{
		Enquiry:    dto.EnquiryFromDomain(res.Lead),
		Overridden: res.Overridden,
	}))
}

// UpdateDisposition PUT /console/enquiries/:id/disposition.
func (h *ConsoleHandler) UpdateDisposition(c *fiber.Ctx) error {
	var req DispositionRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	lead, err := h.console.UpdateDisposition(c.UserContext(), c.Params("id"), req.Disposition)
	if err != nil {
		return err
	}
	return c.JSON(data(dto.EnquiryFromDomain(lead)))
}

// UpdateDetails PATCH /console/enquiries/:id.
func (h *ConsoleHandler) UpdateDetails(c *fiber.Ctx) error {
	var req console.DetailsInput
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	lead, err := h.console.UpdateDetails(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(data(dto.EnquiryFromDomain(lead)))
}

// CreateEnquiry POST /console/enquiries.
func (h *ConsoleHandler) CreateEnquiry(c *fiber.Ctx) error {
	var req console.CreateInput
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	lead, err := h.console.CreateEnquiry(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(data(dto.EnquiryFromDomain(lead)))
}

// Shortlist GET /console/enquiries/:id/shortlist.
func (h *ConsoleHandler) Shortlist(c *fiber.Ctx) error {
	status, err := h.console.ShortlistStatus(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(data(ShortlistFromConsole(status)))
}

// BeginEdit POST /console/edit-sessions.
func (h *ConsoleHandler) BeginEdit(c *fiber.Ctx) error {
	h.console.BeginEdit()
	return c.SendStatus(fiber.StatusNoContent)
}

// EndEdit DELETE /console/edit-sessions.
func (h *ConsoleHandler) EndEdit(c *fiber.Ctx) error {
	h.console.EndEdit()
	return c.SendStatus(fiber.StatusNoContent)
}

// Refresh POST /console/refresh.
func (h *ConsoleHandler) Refresh(c *fiber.Ctx) error {
	res, err := h.console.Refresh(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(data(SyncResponse{Outcome: res.Outcome, Patched: res.Patched}))
}

// Metrics GET /console/metrics.
func (h *ConsoleHandler) Metrics(c *fiber.Ctx) error {
	return c.JSON(data(h.metrics.Snapshot()))
}
