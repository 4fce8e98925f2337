package ai

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Supported provider names.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderClaude = "claude"
	ProviderCodex  = "codex"
)

// Providers lists every provider name accepted by New.
var Providers = []string{ProviderOpenAI, ProviderGemini, ProviderClaude, ProviderCodex}

// ProviderConfig selects and configures a backend.
type ProviderConfig struct {
	Provider          string
	Model             string
	BaseURL           string // openai only
	APIKey            string // openai and gemini
	Timeout           time.Duration
	MaxTransportRetry int // 0 disables the retry decorator
	OnRetry           func(attempt int, delay time.Duration)
	Stderr            io.Writer // CLI providers only
}

// New builds the Generator named by cfg.Provider, wrapped in a
// RetryGenerator when MaxTransportRetry > 0.
func New(ctx context.Context, cfg ProviderConfig) (Generator, error) {
	var (
		gen Generator
		err error
	)
	switch cfg.Provider {
	case ProviderOpenAI:
		gen, err = NewOpenAIGenerator(cfg.BaseURL, cfg.Model, cfg.APIKey, cfg.Timeout)
	case ProviderGemini:
		gen, err = NewGeminiGenerator(ctx, cfg.APIKey, cfg.Model)
	case ProviderClaude, ProviderCodex:
		if err = RequireTools(cfg.Provider); err == nil {
			gen = &CLIGenerator{Tool: CLITool(cfg.Provider), Model: cfg.Model, Stderr: cfg.Stderr}
		}
	default:
		return nil, fmt.Errorf("unknown provider %q (want one of %v)", cfg.Provider, Providers)
	}
	if err != nil {
		return nil, err
	}

	if cfg.MaxTransportRetry > 0 {
		gen = &RetryGenerator{
			Inner:    gen,
			RetryCfg: RetryConfig{MaxRetries: cfg.MaxTransportRetry, OnRetry: cfg.OnRetry},
		}
	}
	return gen, nil
}
