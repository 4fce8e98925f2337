package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// contentGenerator is the slice of *genai.Models the generator uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiGenerator calls the Gemini API through the genai SDK.
type GeminiGenerator struct {
	models contentGenerator
	model  string
}

// NewGeminiGenerator creates a genai client for the Gemini API backend.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: missing api key")
	}
	if model == "" {
		model = defaultGeminiModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiGenerator{models: client.Models, model: model}, nil
}

// toGenAI splits messages into a system instruction and the chat contents.
// Assistant turns map to the model role.
func toGenAI(messages []Message) (*genai.Content, []*genai.Content) {
	var system []string
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			system = append(system, m.Content)
		case RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	if len(system) == 0 {
		return nil, contents
	}
	return genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser), contents
}

// GenerateText sends messages to Gemini and returns the response text.
func (g *GeminiGenerator) GenerateText(ctx context.Context, messages []Message, opts Options) (string, error) {
	system, contents := toGenAI(messages)
	cfg := &genai.GenerateContentConfig{SystemInstruction: system}
	if opts.Temperature > 0 {
		cfg.Temperature = genai.Ptr(float32(opts.Temperature))
	}
	if opts.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(opts.MaxTokens)
	}

	resp, err := g.models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			if apiErr.Code == http.StatusTooManyRequests {
				return "", &UpstreamError{Provider: "gemini", StatusCode: apiErr.Code, Err: &RateLimitError{Provider: "gemini", UnderlyingErr: err}}
			}
			return "", &UpstreamError{Provider: "gemini", StatusCode: apiErr.Code, Err: err}
		}
		return "", &UpstreamError{Provider: "gemini", Err: err}
	}

	var text string
	if resp != nil {
		text = resp.Text()
	}
	if strings.TrimSpace(text) == "" {
		return "", &UpstreamError{Provider: "gemini", Err: errors.New("empty response")}
	}
	return text, nil
}
