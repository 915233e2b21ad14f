// Package llm contains the AI text-generation provider clients and the
// failover router that selects between them.
package llm

import (
	"context"
	"fmt"
)

// Request is the provider-neutral generation request. Each client
// translates it into its backend's wire format.
type Request struct {
	// System carries the system/instruction message, if any.
	System string
	// Prompt is the user prompt.
	Prompt string
	// Temperature controls sampling creativity. Zero means provider default.
	Temperature float64
	// MaxTokens bounds the completion length. Zero means provider default.
	MaxTokens int
	// JSON requests structured JSON output where the backend supports it.
	JSON bool
}

// Response is the provider-neutral generation result.
type Response struct {
	Content  string
	Provider string
	Model    string
}

// Provider is implemented by every AI backend (Groq, Gemini, ...).
type Provider interface {
	Name() string
	Model() string
	Generate(ctx context.Context, req Request) (*Response, error)
}

// StatusError describes a non-2xx response from a provider API.
type StatusError struct {
	Provider   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d", e.Provider, e.StatusCode)
}

// RateLimited reports whether the response was a rate-limit rejection.
func (e *StatusError) RateLimited() bool {
	return e.StatusCode == 429
}

// Transient reports whether the failure is availability-related and the
// provider is worth retrying after a cooldown. Auth failures and other 4xx
// responses are permanent until reconfigured.
func (e *StatusError) Transient() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}
