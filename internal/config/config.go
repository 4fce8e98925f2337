// Package config defines the vizspec configuration model and default values.
//
// Configuration is assembled from multiple sources with a strict precedence
// chain: built-in defaults < global config file < project config file <
// explicit config file < CLI flag overrides.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// WhitelistedVars lists every configuration variable name that may appear in
// config files. Variables not in this list are silently ignored during loading.
var WhitelistedVars = [12]string{
	"PROVIDER",
	"MODEL",
	"BASE_URL",
	"API_KEY_ENV",
	"MAX_REPAIRS",
	"MAX_TRANSPORT_RETRY",
	"TEMPERATURE",
	"MAX_TOKENS",
	"TIMEOUT_SECONDS",
	"PROMPTS_FILE",
	"VERBOSE",
	"CONCURRENCY",
}

// Config holds every configuration field for the vizspec CLI.
type Config struct {
	// Generation backend.
	Provider  string
	Model     string
	BaseURL   string
	APIKeyEnv string

	// Budgets.
	MaxRepairs        int
	MaxTransportRetry int

	// Sampling.
	Temperature float64
	MaxTokens   int

	// Timeouts.
	TimeoutSeconds int

	// Prompt template overrides (YAML).
	PromptsFile string

	// Runtime flags.
	Verbose     bool
	Concurrency int

	// CLI-only flags (not loaded from config files).
	ConfigFile string
}

// NewDefaultConfig returns a Config populated with all built-in default values.
func NewDefaultConfig() *Config {
	return &Config{
		Provider:          "openai",
		MaxRepairs:        3,
		MaxTransportRetry: 0,
		Temperature:       0.2,
		MaxTokens:         8192,
		TimeoutSeconds:    120,
		Concurrency:       4,
	}
}

// Timeout returns TimeoutSeconds as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// KeyEnv returns the environment variable holding the API key: APIKeyEnv
// when set, otherwise the provider's conventional name. CLI providers need
// no key and return "".
func (c *Config) KeyEnv() string {
	if c.APIKeyEnv != "" {
		return c.APIKeyEnv
	}
	switch c.Provider {
	case "openai":
		return "OPENAI_API_KEY"
	case "gemini":
		return "GEMINI_API_KEY"
	default:
		return ""
	}
}

// APIKey reads the key named by KeyEnv from the environment.
func (c *Config) APIKey() string {
	name := c.KeyEnv()
	if name == "" {
		return ""
	}
	return strings.TrimSpace(os.Getenv(name))
}

// DefaultPaths returns the global and project config file locations. The
// global path is empty when the home directory cannot be resolved.
func DefaultPaths() (global, project string) {
	if home, err := os.UserHomeDir(); err == nil {
		global = filepath.Join(home, ".config", "vizspec", "config")
	}
	return global, filepath.Join(".vizspec", "config")
}
