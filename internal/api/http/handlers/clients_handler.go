package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/enquiry-console/internal/api/dto"
	"github.com/spec-kit/enquiry-console/internal/service"
	"github.com/spec-kit/enquiry-console/internal/validation"
)

// ClientsHandler exposes converted clients.
type ClientsHandler struct {
	service  *service.ClientService
	validate *validation.Validator
}

// NewClientsHandler constructs handler.
func NewClientsHandler(clientService *service.ClientService, v *validation.Validator) *ClientsHandler {
	return &ClientsHandler{service: clientService, validate: v}
}

// List GET /clients.
func (h *ClientsHandler) List(c *fiber.Ctx) error {
	clients, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.ClientResponse, 0, len(clients))
	for i := range clients {
		items = append(items, dto.ClientFromDomain(&clients[i]))
	}
	return c.JSON(data(items))
}

// Create POST /clients.
func (h *ClientsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateClientRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	client, err := h.service.Create(c.UserContext(), actor(c), service.ClientCreateInput{
		Name:            req.Name,
		Phone:           req.Phone,
		SourceEnquiryID: req.SourceEnquiryID,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(data(dto.ClientFromDomain(client)))
}
