package dto

import (
	"time"

	"github.com/spec-kit/maintenance-desk/internal/domain"
)

// TicketResponse is the external ticket representation. Labels and colors are
// the fixed mappings the dashboard renders for stored statuses and priorities.
type TicketResponse struct {
	ID            string                `json:"id"`
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	Status        domain.TicketStatus   `json:"status"`
	StatusLabel   string                `json:"statusLabel"`
	StatusColor   string                `json:"statusColor"`
	Priority      domain.TicketPriority `json:"priority"`
	PriorityColor string                `json:"priorityColor"`
	Category      string                `json:"category"`
	CreatedAt     time.Time             `json:"createdAt"`
	UserID        *string               `json:"userId"`
}

// NewTicketResponse maps a domain ticket to its external shape.
func NewTicketResponse(ticket domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:            ticket.ID,
		Title:         ticket.Title,
		Description:   ticket.Description,
		Status:        ticket.Status,
		StatusLabel:   domain.StatusLabels[ticket.Status],
		StatusColor:   domain.StatusColors[ticket.Status],
		Priority:      ticket.Priority,
		PriorityColor: domain.PriorityColors[ticket.Priority],
		Category:      ticket.Category,
		CreatedAt:     ticket.CreatedAt,
		UserID:        ticket.OwnerID,
	}
}

// UpdateTicketStatusRequest payload.
type UpdateTicketStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
}
