package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/maintenance-desk/internal/api/dto"
	"github.com/spec-kit/maintenance-desk/internal/domain"
	"github.com/spec-kit/maintenance-desk/internal/service"
)

// ChatHandler exposes the ticket-intake conversation endpoint.
type ChatHandler struct {
	intake *service.IntakeService
}

// NewChatHandler constructs handler.
func NewChatHandler(intake *service.IntakeService) *ChatHandler {
	return &ChatHandler{intake: intake}
}

// Advance handles POST /api/chat.
func (h *ChatHandler) Advance(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if len(req.History) == 0 {
		return fiber.NewError(http.StatusBadRequest, "history required")
	}

	history := make([]domain.ConversationTurn, 0, len(req.History))
	for _, turn := range req.History {
		history = append(history, domain.ConversationTurn{
			Role: parseTurnRole(turn.Role),
			Text: turn.Text,
		})
	}

	reply, err := h.intake.Advance(c.Context(), history, domain.Attribution{
		UserID:   req.UserID,
		UserName: req.UserName,
	})
	if err != nil {
		return err
	}

	return c.JSON(dto.ChatResponse{Text: reply})
}

// parseTurnRole accepts the role spellings the web client has used over time.
func parseTurnRole(role string) domain.TurnRole {
	switch strings.ToUpper(strings.TrimSpace(role)) {
	case "ASSISTANT", "MODEL":
		return domain.TurnRoleAssistant
	case "USER":
		return domain.TurnRoleUser
	}
	return domain.TurnRole(strings.ToUpper(strings.TrimSpace(role)))
}
