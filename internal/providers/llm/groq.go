package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	groqProviderName   = "groq"
	groqDefaultModel   = "llama-3.1-8b-instant"
	groqDefaultBaseURL = "https://api.groq.com/openai/v1"
	groqDefaultTimeout = 60 * time.Second
)

type GroqOptions struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// GroqClient talks to the Groq OpenAI-compatible chat completions API.
type GroqClient struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

type groqChatRequest struct {
	Model          string        `json:"model"`
	Messages       []groqMessage `json:"messages"`
	Temperature    float64       `json:"temperature,omitempty"`
	MaxTokens      int           `json:"max_tokens,omitempty"`
	ResponseFormat *groqFormat   `json:"response_format,omitempty"`
}

type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type groqFormat struct {
	Type string `json:"type"`
}

type groqChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func NewGroqClient(opts GroqOptions) (*GroqClient, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("groq api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = groqDefaultBaseURL
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = groqDefaultModel
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: groqDefaultTimeout}
	}
	return &GroqClient{
		apiKey:  strings.TrimSpace(opts.APIKey),
		model:   model,
		baseURL: baseURL,
		client:  client,
	}, nil
}

func (g *GroqClient) Name() string  { return groqProviderName }
func (g *GroqClient) Model() string { return g.model }

func (g *GroqClient) Generate(ctx context.Context, req Request) (*Response, error) {
	payload := groqChatRequest{
		Model:       g.model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.System != "" {
		payload.Messages = append(payload.Messages, groqMessage{Role: "system", Content: req.System})
	}
	payload.Messages = append(payload.Messages, groqMessage{Role: "user", Content: req.Prompt})
	if req.JSON {
		payload.ResponseFormat = &groqFormat{Type: "json_object"}
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return nil, fmt.Errorf("groq: encode request: %w", err)
	}
	endpoint := fmt.Sprintf("%s/chat/completions", g.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("groq: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("groq: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return nil, &StatusError{Provider: groqProviderName, StatusCode: resp.StatusCode}
	}
	var out groqChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("groq: decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return nil, errors.New("groq: empty choices")
	}
	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return nil, errors.New("groq: empty response")
	}
	return &Response{Content: text, Provider: groqProviderName, Model: g.model}, nil
}

var _ Provider = (*GroqClient)(nil)
