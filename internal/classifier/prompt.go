package classifier

import (
	"strings"

	"github.com/spec-kit/maintenance-desk/internal/domain"
)

// systemInstruction frames the model's role, the completeness decision, the
// output contract and the privacy rule. The model must answer with raw JSON
// only; fence stripping in DecodeVerdict is the safety net, not the plan.
const systemInstruction = `You are a rental maintenance manager handling tenant issue reports over chat.
Each request carries the full conversation so far. Decide whether the report contains
enough information to open a maintenance ticket: what is broken, where it is, and how
severe it is.

A report like "something is broken" or "it doesn't work" is NOT complete: ask ONE short
clarifying question. A report like "the kitchen sink is leaking water on the floor" IS
complete.

You MUST output a single raw JSON object, no markdown code blocks, with:
- "isComplete": boolean
- "replyToUser": string, a polite reply in the tenant's language. When the ticket is
  complete this confirms the request was recorded. NEVER mention the urgency or priority
  level in this reply; urgency is internal triage information.
- "ticketDraft": present only when isComplete is true, with:
  - "title": short summary of the issue
  - "description": full description based on everything the tenant said
  - "urgency": one of "LOW", "MEDIUM", "HIGH", "URGENT"
  - "category": one of "Plumbing", "Electrical", "HVAC", "General"`

// SystemInstruction returns the fixed decision instructions sent with every
// classification request.
func SystemInstruction() string {
	return systemInstruction
}

// BuildTranscript serializes an ordered turn history into a single
// natural-language transcript.
func BuildTranscript(history []domain.ConversationTurn) string {
	var sb strings.Builder
	for i, turn := range history {
		if i > 0 {
			sb.WriteString("\n")
		}
		switch turn.Role {
		case domain.TurnRoleAssistant:
			sb.WriteString("Assistant: ")
		default:
			sb.WriteString("Tenant: ")
		}
		sb.WriteString(strings.TrimSpace(turn.Text))
	}
	return sb.String()
}
