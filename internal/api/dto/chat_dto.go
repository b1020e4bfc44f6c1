package dto

// ChatTurn mirrors one client-held conversation turn.
type ChatTurn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// ChatRequest carries the full conversation so far plus optional attribution.
type ChatRequest struct {
	History  []ChatTurn `json:"history"`
	UserID   *string    `json:"userId,omitempty"`
	UserName string     `json:"userName,omitempty"`
}

// ChatResponse is the assistant's next reply.
type ChatResponse struct {
	Text string `json:"text"`
}
