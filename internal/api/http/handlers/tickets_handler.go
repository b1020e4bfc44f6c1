package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/maintenance-desk/internal/api/dto"
	"github.com/spec-kit/maintenance-desk/internal/auth"
	"github.com/spec-kit/maintenance-desk/internal/domain"
	"github.com/spec-kit/maintenance-desk/internal/service"
)

// TicketsHandler serves the dashboard endpoints.
type TicketsHandler struct {
	tickets *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService) *TicketsHandler {
	return &TicketsHandler{tickets: tickets}
}

// List handles GET /api/tickets. Scope comes from the verified principal:
// admins see everything, everyone else only their own tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	query := service.TicketListQuery{
		Limit:  c.QueryInt("limit", 50),
		Offset: c.QueryInt("offset", 0),
	}
	if statuses := c.Query("status"); statuses != "" {
		for _, s := range strings.Split(statuses, ",") {
			query.Statuses = append(query.Statuses, domain.TicketStatus(strings.ToUpper(strings.TrimSpace(s))))
		}
	}

	tickets, err := h.tickets.ListForPrincipal(c.Context(), principal.Person, query)
	if err != nil {
		return err
	}

	out := make([]dto.TicketResponse, 0, len(tickets))
	for _, ticket := range tickets {
		out = append(out, dto.NewTicketResponse(ticket))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Get handles GET /api/tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	ticket, err := h.tickets.GetForPrincipal(c.Context(), principal.Person, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(*ticket)})
}

// UpdateStatus handles PATCH /api/tickets/:id/status (admin only).
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.UpdateTicketStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Status == "" {
		return fiber.NewError(http.StatusBadRequest, "status required")
	}

	ticket, err := h.tickets.UpdateStatus(c.Context(), principal.Person, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(*ticket)})
}
