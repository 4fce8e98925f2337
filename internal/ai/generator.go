// Package ai provides the text generation capability the repair loop
// consumes, plus its backends: an OpenAI-compatible HTTP client, Gemini via
// the genai SDK and the claude/codex CLIs.
package ai

import (
	"context"
	"fmt"
	"time"
)

// Role is the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of an ordered chat transcript.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Options tune a single generation call. Zero values leave the backend
// default in place.
type Options struct {
	Temperature float64
	MaxTokens   int
}

// Generator produces text for an ordered list of messages. Implementations
// return an *UpstreamError for transport failures, non-2xx responses and
// empty output.
type Generator interface {
	GenerateText(ctx context.Context, messages []Message, opts Options) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, messages []Message, opts Options) (string, error)

// GenerateText calls f.
func (f GeneratorFunc) GenerateText(ctx context.Context, messages []Message, opts Options) (string, error) {
	return f(ctx, messages, opts)
}

// UpstreamError reports that the generation backend itself failed.
type UpstreamError struct {
	Provider   string
	StatusCode int // 0 when no HTTP status is available
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s upstream error (status %d): %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s upstream error: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// RateLimitError is returned when the backend signals a rate limit.
type RateLimitError struct {
	Provider      string
	RetryAfter    time.Duration // 0 when the backend gave no hint
	UnderlyingErr error
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s rate limit detected (retry after %s)", e.Provider, e.RetryAfter)
	}
	return fmt.Sprintf("%s rate limit detected (reset time unknown)", e.Provider)
}

func (e *RateLimitError) Unwrap() error {
	return e.UnderlyingErr
}
