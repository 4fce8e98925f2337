package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "gpt-4.1-mini"
)

// OpenAIGenerator calls an OpenAI-compatible chat completions endpoint.
type OpenAIGenerator struct {
	BaseURL string
	Model   string
	APIKey  string
	Client  *http.Client
}

// NewOpenAIGenerator builds a generator with defaults for empty fields.
func NewOpenAIGenerator(baseURL, model, apiKey string, timeout time.Duration) (*OpenAIGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("openai: missing api key")
	}
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	if model == "" {
		model = defaultOpenAIModel
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &OpenAIGenerator{
		BaseURL: baseURL,
		Model:   model,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: timeout},
	}, nil
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (g *OpenAIGenerator) endpoint() string {
	return strings.TrimRight(g.BaseURL, "/") + "/chat/completions"
}

// GenerateText sends one chat completion request and returns the first
// choice's content.
func (g *OpenAIGenerator) GenerateText(ctx context.Context, messages []Message, opts Options) (string, error) {
	req := chatRequest{Model: g.Model, Messages: messages, MaxTokens: opts.MaxTokens}
	if opts.Temperature > 0 {
		t := opts.Temperature
		req.Temperature = &t
	}
	body, err := json.Marshal(&req)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+g.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", &UpstreamError{Provider: "openai", Err: ctxErr}
		}
		return "", &UpstreamError{Provider: "openai", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", &UpstreamError{Provider: "openai", StatusCode: resp.StatusCode, Err: &RateLimitError{
			Provider:   "openai",
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), time.Now()),
		}}
	}
	if resp.StatusCode/100 != 2 {
		// A short excerpt of the body is enough to diagnose auth and quota errors.
		slurp, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return "", &UpstreamError{
			Provider:   "openai",
			StatusCode: resp.StatusCode,
			Err:        errors.New(strings.TrimSpace(string(slurp))),
		}
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &UpstreamError{Provider: "openai", StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", &UpstreamError{Provider: "openai", StatusCode: resp.StatusCode, Err: errors.New("empty completion")}
	}
	return out.Choices[0].Message.Content, nil
}
