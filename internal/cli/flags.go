// Package cli provides flag binding and validation for the vizspec CLI.
package cli

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/vizspec/internal/ai"
	"github.com/CodexForgeBR/vizspec/internal/config"
	"github.com/CodexForgeBR/vizspec/internal/vizspec"
)

// BindFlags registers the configuration flags as persistent flags on cmd so
// every subcommand inherits them. The flags directly modify fields in the
// provided config pointer. Call ValidateFlags after parsing to check values.
func BindFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.PersistentFlags()

	// Generation backend
	flags.StringVar(&cfg.Provider, "provider", cfg.Provider, "Generator backend: openai, gemini, claude or codex")
	flags.StringVar(&cfg.Model, "model", "", "Model name (default: backend default)")
	flags.StringVar(&cfg.BaseURL, "base-url", "", "OpenAI-compatible API base URL")
	flags.StringVar(&cfg.APIKeyEnv, "api-key-env", "", "Environment variable holding the API key")

	// Budgets
	flags.IntVar(&cfg.MaxRepairs, "max-repairs", cfg.MaxRepairs, "Repair turns after the first attempt")
	flags.IntVar(&cfg.MaxTransportRetry, "max-transport-retry", cfg.MaxTransportRetry, "Backoff retries for transport failures (0 disables)")
	flags.Float64Var(&cfg.Temperature, "temperature", cfg.Temperature, "Sampling temperature")
	flags.IntVar(&cfg.MaxTokens, "max-tokens", cfg.MaxTokens, "Maximum output tokens per attempt")
	flags.IntVar(&cfg.TimeoutSeconds, "timeout", cfg.TimeoutSeconds, "Seconds allowed per generator call")

	// Files
	flags.StringVar(&cfg.PromptsFile, "prompts-file", "", "YAML file overriding prompt templates")
	flags.StringVar(&cfg.ConfigFile, "config", "", "Path to additional config file")

	// Runtime
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Print debug output")
	flags.IntVar(&cfg.Concurrency, "concurrency", cfg.Concurrency, "Files validated in parallel")
}

// ValidateFlags checks flag values after parsing.
func ValidateFlags(cmd *cobra.Command, cfg *config.Config) error {
	// --config must exist if provided
	if cfg.ConfigFile != "" {
		if _, err := os.Stat(cfg.ConfigFile); err != nil {
			return fmt.Errorf("--config: %w", err)
		}
	}
	if cfg.PromptsFile != "" {
		if _, err := os.Stat(cfg.PromptsFile); err != nil {
			return fmt.Errorf("--prompts-file: %w", err)
		}
	}

	if !slices.Contains(ai.Providers, cfg.Provider) {
		return fmt.Errorf("--provider must be one of %s, got: %s", strings.Join(ai.Providers, ", "), cfg.Provider)
	}
	if cfg.MaxRepairs < 0 {
		return fmt.Errorf("--max-repairs must not be negative, got: %d", cfg.MaxRepairs)
	}
	if cfg.MaxTransportRetry < 0 {
		return fmt.Errorf("--max-transport-retry must not be negative, got: %d", cfg.MaxTransportRetry)
	}
	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		return fmt.Errorf("--temperature must be between 0 and 2, got: %g", cfg.Temperature)
	}
	if cfg.MaxTokens <= 0 {
		return fmt.Errorf("--max-tokens must be positive, got: %d", cfg.MaxTokens)
	}
	if cfg.TimeoutSeconds <= 0 {
		return fmt.Errorf("--timeout must be positive, got: %d", cfg.TimeoutSeconds)
	}
	if cfg.Concurrency <= 0 {
		return fmt.Errorf("--concurrency must be positive, got: %d", cfg.Concurrency)
	}
	return nil
}

// BuildOverrides creates a map of CLI flag overrides from the config.
// Uses Changed() to only include flags explicitly set by the user,
// ensuring config file values are not accidentally overridden by default values.
func BuildOverrides(cmd *cobra.Command, cfg *config.Config) map[string]string {
	overrides := make(map[string]string)
	flags := cmd.Flags()

	values := map[string]struct {
		key string
		val string
	}{
		"provider":            {"PROVIDER", cfg.Provider},
		"model":               {"MODEL", cfg.Model},
		"base-url":            {"BASE_URL", cfg.BaseURL},
		"api-key-env":         {"API_KEY_ENV", cfg.APIKeyEnv},
		"max-repairs":         {"MAX_REPAIRS", strconv.Itoa(cfg.MaxRepairs)},
		"max-transport-retry": {"MAX_TRANSPORT_RETRY", strconv.Itoa(cfg.MaxTransportRetry)},
		"temperature":         {"TEMPERATURE", strconv.FormatFloat(cfg.Temperature, 'g', -1, 64)},
		"max-tokens":          {"MAX_TOKENS", strconv.Itoa(cfg.MaxTokens)},
		"timeout":             {"TIMEOUT_SECONDS", strconv.Itoa(cfg.TimeoutSeconds)},
		"prompts-file":        {"PROMPTS_FILE", cfg.PromptsFile},
		"verbose":             {"VERBOSE", strconv.FormatBool(cfg.Verbose)},
		"concurrency":         {"CONCURRENCY", strconv.Itoa(cfg.Concurrency)},
	}
	for flag, mapping := range values {
		if flags.Changed(flag) {
			overrides[mapping.key] = mapping.val
		}
	}
	return overrides
}

// InputFlags carries the request flags of the trace and generate commands.
type InputFlags struct {
	Algorithm string
	Array     string
	Target    float64
}

// BindInputFlags registers --algorithm, --array and --target on cmd.
func BindInputFlags(cmd *cobra.Command, in *InputFlags) {
	flags := cmd.Flags()
	flags.StringVarP(&in.Algorithm, "algorithm", "a", "", "Algorithm: linear-search, binary-search, quicksort or mergesort")
	flags.StringVar(&in.Array, "array", "", "Comma-separated input values, e.g. 9,3,7,1,5")
	flags.Float64Var(&in.Target, "target", 0, "Value to search for (search algorithms only)")
}

// Normalize turns the parsed input flags into a NormalizedInput. The target
// is only passed on when --target was given.
func (in *InputFlags) Normalize(cmd *cobra.Command) (vizspec.NormalizedInput, error) {
	if in.Algorithm == "" {
		return vizspec.NormalizedInput{}, fmt.Errorf("--algorithm is required")
	}
	values, err := ParseArray(in.Array)
	if err != nil {
		return vizspec.NormalizedInput{}, fmt.Errorf("--array: %w", err)
	}
	var target *float64
	if cmd.Flags().Changed("target") {
		t := in.Target
		target = &t
	}
	return vizspec.NewNormalizedInput(vizspec.Algorithm(in.Algorithm), values, target)
}

// ParseArray parses "9,3,7,1,5" or "[9, 3, 7]" into numbers.
func ParseArray(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("no values given")
	}

	parts := strings.Split(s, ",")
	values := make([]float64, 0, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("value %d (%q) is not a number", i+1, strings.TrimSpace(p))
		}
		values = append(values, v)
	}
	return values, nil
}
