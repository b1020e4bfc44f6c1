package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/maintenance-desk/internal/domain"
	"github.com/spec-kit/maintenance-desk/internal/events"
	"github.com/spec-kit/maintenance-desk/internal/repository"
	apperrors "github.com/spec-kit/maintenance-desk/pkg/util"
)

// TicketService serves the dashboard: listing, detail and administrative
// status changes. Listing scope is derived from the verified principal, never
// from client-supplied filters.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
}

// TicketListQuery captures optional dashboard filters.
type TicketListQuery struct {
	Statuses   []domain.TicketStatus
	Priorities []domain.TicketPriority
	Limit      int
	Offset     int
}

// NewTicketService constructs the service.
func NewTicketService(tickets repository.TicketRepository, dispatcher events.Dispatcher) *TicketService {
	return &TicketService{tickets: tickets, dispatcher: dispatcher}
}

// ListForPrincipal returns all tickets for administrators and owner-scoped
// tickets for everyone else.
func (s *TicketService) ListForPrincipal(ctx context.Context, person *domain.Person, query TicketListQuery) ([]domain.Ticket, error) {
	filter := repository.TicketFilter{
		Statuses:   query.Statuses,
		Priorities: query.Priorities,
		Limit:      query.Limit,
		Offset:     query.Offset,
	}
	if person.Role != domain.RoleAdmin {
		ownerID := person.ID
		filter.OwnerID = &ownerID
	}
	return s.tickets.List(ctx, filter)
}

// GetForPrincipal fetches one ticket, enforcing ownership for non-admins.
func (s *TicketService) GetForPrincipal(ctx context.Context, person *domain.Person, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, err
	}
	if person.Role != domain.RoleAdmin {
		if ticket.OwnerID == nil || *ticket.OwnerID != person.ID {
			return nil, apperrors.NewForbidden("not your ticket")
		}
	}
	return ticket, nil
}

// UpdateStatus applies an administrative status transition.
func (s *TicketService) UpdateStatus(ctx context.Context, admin *domain.Person, ticketID string, newStatus domain.TicketStatus) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, err
	}
	if !domain.ValidTransition(ticket.Status, newStatus) {
		return nil, apperrors.NewValidationError("invalid status transition", map[string]any{
			"from": ticket.Status,
			"to":   newStatus,
		})
	}

	oldStatus := ticket.Status
	if err := s.tickets.UpdateStatus(ctx, ticketID, newStatus); err != nil {
		return nil, err
	}
	ticket.Status = newStatus

	if s.dispatcher != nil {
		adminID := admin.ID
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventTicketStatusChanged,
			TicketID:  ticket.ID,
			Actor:     events.Actor{PersonID: &adminID, Role: admin.Role},
			Timestamp: time.Now(),
			Payload: events.TicketStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: newStatus,
			},
		})
	}
	return ticket, nil
}
