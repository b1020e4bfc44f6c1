package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spec-kit/maintenance-desk/internal/config"
	apperrors "github.com/spec-kit/maintenance-desk/pkg/util"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Classifier turns a transcript into a structured verdict. The concrete
// implementation calls a hosted model; tests substitute their own.
type Classifier interface {
	Classify(ctx context.Context, transcript string) (*Verdict, error)
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// Client is an HTTP client for the Gemini generateContent API. It performs
// exactly one attempt per call; retry policy belongs to callers.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a classifier client from configuration.
func NewClient(cfg config.ClassifierConfig, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
	}
	if cfg.BaseURL != "" {
		c.baseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type generateRequest struct {
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	Contents          []content         `json:"contents"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMIMEType string `json:"responseMimeType,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Classify sends the transcript and decision instructions to the model and
// decodes its verdict. Transport and non-2xx failures surface as
// UpstreamError, undecodable output as ParseError.
func (c *Client) Classify(ctx context.Context, transcript string) (*Verdict, error) {
	reqBody := generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: SystemInstruction()}}},
		Contents: []content{
			{Role: "user", Parts: []part{{Text: transcript}}},
		},
		GenerationConfig: &generationConfig{ResponseMIMEType: "application/json"},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, apperrors.NewUpstreamError(fmt.Errorf("marshal request: %w", err))
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.NewUpstreamError(fmt.Errorf("create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, apperrors.NewUpstreamError(fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewUpstreamError(fmt.Errorf("read response: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewUpstreamError(fmt.Errorf("model API status %d: %s", resp.StatusCode, string(respBody)))
	}

	var result generateResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, apperrors.NewParseError(fmt.Errorf("unmarshal response envelope: %w", err))
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, apperrors.NewParseError(fmt.Errorf("model returned no candidates"))
	}

	var text strings.Builder
	for _, p := range result.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	return DecodeVerdict(text.String())
}
