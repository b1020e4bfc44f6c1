package classifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spec-kit/maintenance-desk/internal/config"
	apperrors "github.com/spec-kit/maintenance-desk/pkg/util"
)

func newTestClient(url string) *Client {
	return NewClient(config.ClassifierConfig{
		APIKey: "test-key",
		Model:  "gemini-2.5-flash",
	}, WithBaseURL(url))
}

func modelReply(text string) []byte {
	body, _ := json.Marshal(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	})
	return body
}

func TestClassifySendsTranscriptAndDecodesVerdict(t *testing.T) {
	var gotPath string
	var gotReq generateRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(modelReply(`{"isComplete": false, "replyToUser": "Quel étage ?"}`))
	}))
	defer server.Close()

	verdict, err := newTestClient(server.URL).Classify(context.Background(), "Tenant: ascenseur en panne")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if verdict.ReplyToUser != "Quel étage ?" {
		t.Errorf("reply = %q", verdict.ReplyToUser)
	}
	if gotPath != "/models/gemini-2.5-flash:generateContent" {
		t.Errorf("path = %q", gotPath)
	}
	if gotReq.SystemInstruction == nil || len(gotReq.SystemInstruction.Parts) == 0 {
		t.Fatal("request missing system instruction")
	}
	if len(gotReq.Contents) != 1 || gotReq.Contents[0].Parts[0].Text != "Tenant: ascenseur en panne" {
		t.Errorf("transcript not forwarded: %+v", gotReq.Contents)
	}
}

func TestClassifyNon2xxIsUpstreamErrorAfterOneAttempt(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, `{"error": "quota exceeded"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Classify(context.Background(), "Tenant: fuite")
	if !apperrors.IsCode(err, "UPSTREAM_ERROR") {
		t.Fatalf("err = %v, want UPSTREAM_ERROR", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want exactly one", attempts)
	}
}

func TestClassifyUnreachableHostIsUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close() // refuse connections

	_, err := newTestClient(server.URL).Classify(context.Background(), "Tenant: fuite")
	if !apperrors.IsCode(err, "UPSTREAM_ERROR") {
		t.Fatalf("err = %v, want UPSTREAM_ERROR", err)
	}
}

func TestClassifyGarbageModelOutputIsParseError(t *testing.T) {
	tests := []struct {
		name string
		body []byte
	}{
		{"no candidates", []byte(`{"candidates": []}`)},
		{"non-json verdict", modelReply("the sink seems broken, urgency high")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write(tc.body)
			}))
			defer server.Close()

			_, err := newTestClient(server.URL).Classify(context.Background(), "Tenant: fuite")
			if !apperrors.IsCode(err, "PARSE_ERROR") {
				t.Fatalf("err = %v, want PARSE_ERROR", err)
			}
		})
	}
}

func TestClassifyFencedVerdictIsTolerated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(modelReply("```json\n{\"isComplete\": false, \"replyToUser\": \"Depuis quand ?\"}\n```"))
	}))
	defer server.Close()

	verdict, err := newTestClient(server.URL).Classify(context.Background(), "Tenant: plus d'eau chaude")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if verdict.ReplyToUser != "Depuis quand ?" {
		t.Errorf("reply = %q", verdict.ReplyToUser)
	}
}
