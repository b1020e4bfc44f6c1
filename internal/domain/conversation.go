package domain

// TurnRole identifies who spoke a conversation turn.
type TurnRole string

const (
	TurnRoleUser      TurnRole = "USER"
	TurnRoleAssistant TurnRole = "ASSISTANT"
)

// ConversationTurn is one message in an intake conversation. The client
// resends the full ordered history on every turn; the server keeps no
// conversation state between calls.
type ConversationTurn struct {
	Role TurnRole
	Text string
}

// Attribution is the optional identity attached to an intake conversation.
type Attribution struct {
	UserID   *string
	UserName string
}
