package classifier

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spec-kit/maintenance-desk/internal/domain"
	apperrors "github.com/spec-kit/maintenance-desk/pkg/util"
)

// Verdict is the classifier's structured decision for a transcript. Draft is
// present if and only if IsComplete is true.
type Verdict struct {
	IsComplete  bool
	ReplyToUser string
	Draft       *domain.TicketDraft
}

type rawVerdict struct {
	IsComplete  *bool     `json:"isComplete"`
	ReplyToUser *string   `json:"replyToUser"`
	TicketDraft *rawDraft `json:"ticketDraft"`
}

type rawDraft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Urgency     string `json:"urgency"`
	Category    string `json:"category"`
}

// DecodeVerdict coerces free-form model output into a Verdict. It owns all
// string cleanup heuristics (fence stripping, trimming) and returns a
// ParseError rather than panicking on anything malformed.
func DecodeVerdict(text string) (*Verdict, error) {
	cleaned := stripFences(text)
	if cleaned == "" {
		return nil, apperrors.NewParseError(fmt.Errorf("empty classifier output"))
	}

	var raw rawVerdict
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, apperrors.NewParseError(fmt.Errorf("unmarshal verdict: %w", err))
	}
	if raw.IsComplete == nil {
		return nil, apperrors.NewParseError(fmt.Errorf("verdict missing isComplete"))
	}
	if raw.ReplyToUser == nil {
		return nil, apperrors.NewParseError(fmt.Errorf("verdict missing replyToUser"))
	}

	verdict := &Verdict{
		IsComplete:  *raw.IsComplete,
		ReplyToUser: strings.TrimSpace(*raw.ReplyToUser),
	}

	if !verdict.IsComplete {
		if raw.TicketDraft != nil {
			return nil, apperrors.NewParseError(fmt.Errorf("incomplete verdict carries a ticket draft"))
		}
		return verdict, nil
	}

	if raw.TicketDraft == nil {
		return nil, apperrors.NewParseError(fmt.Errorf("complete verdict missing ticketDraft"))
	}
	draft := domain.TicketDraft{
		Title:       strings.TrimSpace(raw.TicketDraft.Title),
		Description: strings.TrimSpace(raw.TicketDraft.Description),
		Urgency:     domain.TicketPriority(strings.ToUpper(strings.TrimSpace(raw.TicketDraft.Urgency))),
		Category:    strings.TrimSpace(raw.TicketDraft.Category),
	}
	if draft.Title == "" || draft.Description == "" || draft.Category == "" {
		return nil, apperrors.NewParseError(fmt.Errorf("ticket draft has empty fields"))
	}
	if !domain.ValidPriority(draft.Urgency) {
		return nil, apperrors.NewParseError(fmt.Errorf("unknown urgency %q", raw.TicketDraft.Urgency))
	}
	verdict.Draft = &draft
	return verdict, nil
}

// stripFences removes markdown code fences the model sometimes wraps its
// JSON in, despite being told not to.
func stripFences(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.ReplaceAll(cleaned, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}
