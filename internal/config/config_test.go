package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/CodexForgeBR/vizspec/internal/config"
)

func TestNewDefaultConfigValues(t *testing.T) {
	cfg := config.NewDefaultConfig()

	assert.Equal(t, "openai", cfg.Provider)
	assert.Empty(t, cfg.Model)
	assert.Empty(t, cfg.BaseURL)
	assert.Equal(t, 3, cfg.MaxRepairs)
	assert.Equal(t, 0, cfg.MaxTransportRetry)
	assert.Equal(t, 0.2, cfg.Temperature)
	assert.Equal(t, 8192, cfg.MaxTokens)
	assert.Equal(t, 120*time.Second, cfg.Timeout())
	assert.Equal(t, 4, cfg.Concurrency)
	assert.False(t, cfg.Verbose)
}

func TestWhitelistedVarsHasNoDuplicates(t *testing.T) {
	seen := make(map[string]bool)
	for _, v := range config.WhitelistedVars {
		assert.False(t, seen[v], "duplicate whitelisted var %s", v)
		seen[v] = true
	}
}

func TestKeyEnv(t *testing.T) {
	tests := []struct {
		provider string
		override string
		expected string
	}{
		{"openai", "", "OPENAI_API_KEY"},
		{"gemini", "", "GEMINI_API_KEY"},
		{"claude", "", ""},
		{"codex", "", ""},
		{"openai", "MY_PROXY_KEY", "MY_PROXY_KEY"},
	}
	for _, tt := range tests {
		t.Run(tt.provider+"/"+tt.override, func(t *testing.T) {
			cfg := &config.Config{Provider: tt.provider, APIKeyEnv: tt.override}
			assert.Equal(t, tt.expected, cfg.KeyEnv())
		})
	}
}

func TestAPIKeyReadsEnvironment(t *testing.T) {
	t.Setenv("VIZSPEC_TEST_KEY", "  sk-test  ")
	cfg := &config.Config{Provider: "openai", APIKeyEnv: "VIZSPEC_TEST_KEY"}
	assert.Equal(t, "sk-test", cfg.APIKey())

	assert.Empty(t, (&config.Config{Provider: "claude"}).APIKey())
}

func TestDefaultPaths(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	global, project := config.DefaultPaths()
	assert.Equal(t, "/home/tester/.config/vizspec/config", global)
	assert.Equal(t, ".vizspec/config", project)
}
