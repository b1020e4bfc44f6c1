package classifier

import (
	"testing"

	"github.com/spec-kit/maintenance-desk/internal/domain"
	apperrors "github.com/spec-kit/maintenance-desk/pkg/util"
)

func TestDecodeVerdictIncomplete(t *testing.T) {
	verdict, err := DecodeVerdict(`{"isComplete": false, "replyToUser": "Quel appareil est concerné ?"}`)
	if err != nil {
		t.Fatalf("DecodeVerdict: %v", err)
	}
	if verdict.IsComplete {
		t.Error("verdict should be incomplete")
	}
	if verdict.ReplyToUser != "Quel appareil est concerné ?" {
		t.Errorf("reply = %q", verdict.ReplyToUser)
	}
	if verdict.Draft != nil {
		t.Error("incomplete verdict must not carry a draft")
	}
}

func TestDecodeVerdictComplete(t *testing.T) {
	verdict, err := DecodeVerdict(`{
		"isComplete": true,
		"replyToUser": "Votre demande a été enregistrée.",
		"ticketDraft": {
			"title": "Fuite évier",
			"description": "Fuite d'eau sous l'évier de la cuisine",
			"urgency": "high",
			"category": "Plumbing"
		}
	}`)
	if err != nil {
		t.Fatalf("DecodeVerdict: %v", err)
	}
	if !verdict.IsComplete || verdict.Draft == nil {
		t.Fatal("expected a complete verdict with draft")
	}
	if verdict.Draft.Urgency != domain.TicketPriorityHigh {
		t.Errorf("urgency = %q, want normalized HIGH", verdict.Draft.Urgency)
	}
	if verdict.Draft.Category != "Plumbing" {
		t.Errorf("category = %q", verdict.Draft.Category)
	}
}

func TestDecodeVerdictStripsCodeFences(t *testing.T) {
	fenced := "```json\n{\"isComplete\": false, \"replyToUser\": \"Où se situe la fuite ?\"}\n```"
	verdict, err := DecodeVerdict(fenced)
	if err != nil {
		t.Fatalf("DecodeVerdict: %v", err)
	}
	if verdict.ReplyToUser != "Où se situe la fuite ?" {
		t.Errorf("reply = %q", verdict.ReplyToUser)
	}
}

func TestDecodeVerdictRejectsMalformedOutput(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"not json", "I think the sink is broken"},
		{"empty", "   "},
		{"missing isComplete", `{"replyToUser": "ok"}`},
		{"missing replyToUser", `{"isComplete": false}`},
		{"complete without draft", `{"isComplete": true, "replyToUser": "Merci"}`},
		{"incomplete with draft", `{"isComplete": false, "replyToUser": "x", "ticketDraft": {"title":"a","description":"b","urgency":"LOW","category":"General"}}`},
		{"unknown urgency", `{"isComplete": true, "replyToUser": "x", "ticketDraft": {"title":"a","description":"b","urgency":"CRITICAL","category":"General"}}`},
		{"empty draft fields", `{"isComplete": true, "replyToUser": "x", "ticketDraft": {"title":"","description":"b","urgency":"LOW","category":"General"}}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeVerdict(tc.text); !apperrors.IsCode(err, "PARSE_ERROR") {
				t.Errorf("err = %v, want PARSE_ERROR", err)
			}
		})
	}
}

func TestBuildTranscript(t *testing.T) {
	history := []domain.ConversationTurn{
		{Role: domain.TurnRoleUser, Text: "It's broken"},
		{Role: domain.TurnRoleAssistant, Text: "Quel appareil ?"},
		{Role: domain.TurnRoleUser, Text: "  Kitchen sink leaking on the floor "},
	}
	want := "Tenant: It's broken\nAssistant: Quel appareil ?\nTenant: Kitchen sink leaking on the floor"
	if got := BuildTranscript(history); got != want {
		t.Errorf("transcript = %q, want %q", got, want)
	}
}
