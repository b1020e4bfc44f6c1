package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/maintenance-desk/internal/classifier"
	"github.com/spec-kit/maintenance-desk/internal/domain"
	"github.com/spec-kit/maintenance-desk/internal/events"
	"github.com/spec-kit/maintenance-desk/internal/repository"
	apperrors "github.com/spec-kit/maintenance-desk/pkg/util"
)

// Fixed conversational fallbacks. Classifier and store failures are never
// surfaced to the tenant as technical errors.
const (
	fallbackClarifyReply = "Désolé, je n'ai pas bien compris votre demande. Pouvez-vous la reformuler ?"
	fallbackStoreReply   = "J'ai bien reçu votre demande, mais je n'ai pas pu l'enregistrer. Un gestionnaire a été prévenu."
)

// urgencyVocabulary lists the literal triage tokens, with their French
// equivalents, that must never appear in a user-facing confirmation.
var urgencyVocabulary = map[string]struct{}{
	"LOW": {}, "MEDIUM": {}, "HIGH": {}, "URGENT": {}, "URGENTE": {},
	"FAIBLE": {}, "BASSE": {}, "MOYEN": {}, "MOYENNE": {},
	"ÉLEVÉ": {}, "ÉLEVÉE": {}, "ELEVE": {}, "ELEVEE": {},
}

// IntakeService drives the ticket-intake conversation: per turn it either
// asks a clarifying question or persists exactly one ticket. It is stateless;
// the caller resends the full history on every turn.
type IntakeService struct {
	classify   classifier.Classifier
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewIntakeService constructs the service.
func NewIntakeService(cls classifier.Classifier, tickets repository.TicketRepository, dispatcher events.Dispatcher, logger *zap.Logger) *IntakeService {
	return &IntakeService{
		classify:   cls,
		tickets:    tickets,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Advance takes the conversation so far and returns the next assistant reply.
// On an incomplete verdict it has no side effects. On a complete verdict it
// creates the ticket before replying; a persistence failure is logged and
// converted to a generic failure reply, not retried.
func (s *IntakeService) Advance(ctx context.Context, history []domain.ConversationTurn, attribution domain.Attribution) (string, error) {
	if err := validateHistory(history); err != nil {
		return "", err
	}

	transcript := classifier.BuildTranscript(history)
	verdict, err := s.classify.Classify(ctx, transcript)
	if err != nil {
		// Fail closed: a broken classifier turn becomes a clarifying
		// reply, and the next user message restarts classification.
		s.logger.Warn("classification failed", zap.Error(err))
		return fallbackClarifyReply, nil
	}

	if !verdict.IsComplete {
		return verdict.ReplyToUser, nil
	}
	if verdict.Draft == nil {
		s.logger.Warn("complete verdict without draft")
		return fallbackClarifyReply, nil
	}

	ticket := &domain.Ticket{
		Title:       verdict.Draft.Title,
		Description: verdict.Draft.Description,
		Status:      domain.TicketStatusOpen,
		Priority:    verdict.Draft.Urgency,
		Category:    verdict.Draft.Category,
		OwnerID:     attribution.UserID,
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		s.logger.Error("ticket create failed",
			zap.Error(err),
			zap.String("category", ticket.Category),
			zap.String("user_name", attribution.UserName),
		)
		return fallbackStoreReply, nil
	}

	s.publishCreated(ctx, ticket, attribution)

	// The model is told not to echo urgency, but the reply filter is the
	// last line of defense against prompt drift.
	return stripUrgencyTokens(verdict.ReplyToUser), nil
}

func validateHistory(history []domain.ConversationTurn) error {
	if len(history) == 0 {
		return apperrors.NewValidationError("history must not be empty", nil)
	}
	for i, turn := range history {
		if turn.Role != domain.TurnRoleUser && turn.Role != domain.TurnRoleAssistant {
			return apperrors.NewValidationError("turn has invalid role", map[string]any{"index": i})
		}
		if strings.TrimSpace(turn.Text) == "" {
			return apperrors.NewValidationError("turn has empty text", map[string]any{"index": i})
		}
	}
	return nil
}

// stripUrgencyTokens removes literal urgency tokens from a reply. The
// untouched reply is returned when nothing violates the vocabulary, so
// well-behaved confirmations pass through verbatim.
func stripUrgencyTokens(reply string) string {
	fields := strings.Fields(reply)
	violated := false
	kept := make([]string, 0, len(fields))
	for _, field := range fields {
		trimmed := strings.ToUpper(strings.Trim(field, ".,;:!?()\"'«»"))
		if _, banned := urgencyVocabulary[trimmed]; banned {
			violated = true
			continue
		}
		kept = append(kept, field)
	}
	if !violated {
		return reply
	}
	return strings.Join(kept, " ")
}

func (s *IntakeService) publishCreated(ctx context.Context, ticket *domain.Ticket, attribution domain.Attribution) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketCreated,
		TicketID:  ticket.ID,
		Actor:     events.Actor{PersonID: attribution.UserID},
		Timestamp: time.Now(),
		Payload: events.TicketCreatedPayload{
			Title:    ticket.Title,
			Category: ticket.Category,
			Priority: ticket.Priority,
		},
	})
}
