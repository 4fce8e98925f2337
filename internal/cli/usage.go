// Package cli provides help text and usage formatting for the vizspec CLI.
package cli

import (
	"github.com/spf13/cobra"
)

// rootHelp is shown for the root command; subcommands fall back to cobra's
// generated usage.
const rootHelp = `vizspec - Validate, trace and generate VizSpec visualization documents

USAGE
  vizspec <command> [flags]

COMMANDS
  validate [files...]                      Validate VizSpec JSON files (stdin when none or "-")
  trace                                    Print the deterministic VizSpec for an input
  generate [question]                      Ask a model for a VizSpec, repairing invalid answers

INPUT FLAGS (trace, generate)
  -a, --algorithm <name>                   linear-search, binary-search, quicksort or mergesort
  --array <values>                         Comma-separated values, 1 to 32 of them
  --target <number>                        Value to search for (search algorithms only)

VALIDATE FLAGS
  -a, --algorithm <name>                   Also require this declared algorithm
  --json                                   Print each valid spec in normalized form

GLOBAL FLAGS
  Generation Backend:
    --provider <openai|gemini|claude|codex>  Generator backend (default: openai)
    --model <model>                        Model name (default: backend default)
    --base-url <url>                       OpenAI-compatible API base URL
    --api-key-env <name>                   Environment variable holding the API key

  Budgets:
    --max-repairs <int>                    Repair turns after the first attempt (default: 3)
    --max-transport-retry <int>            Backoff retries for transport failures (default: 0)
    --temperature <float>                  Sampling temperature (default: 0.2)
    --max-tokens <int>                     Maximum output tokens per attempt (default: 8192)
    --timeout <seconds>                    Seconds allowed per generator call (default: 120)

  Files:
    --prompts-file <path>                  YAML file overriding prompt templates
    --config <path>                        Path to additional config file

  Runtime:
    -v, --verbose                          Print debug output
    --concurrency <int>                    Files validated in parallel (default: 4)

  Help & Version:
    -h, --help                             Show this help text
    --version                              Show version, commit, build date

CONFIG FILES
  ~/.config/vizspec/config < ./.vizspec/config < --config < flags
  KEY=VALUE lines using PROVIDER, MODEL, BASE_URL, API_KEY_ENV, MAX_REPAIRS,
  MAX_TRANSPORT_RETRY, TEMPERATURE, MAX_TOKENS, TIMEOUT_SECONDS, PROMPTS_FILE,
  VERBOSE and CONCURRENCY.

EXIT CODES
  0   Success              Every document valid, or a spec was produced
  1   Error                Invalid arguments, unreadable file, misconfiguration
  2   Invalid              At least one document failed validation
  3   BudgetExhausted      No valid spec within the repair budget
  4   Upstream             The generator backend failed
  130 Interrupted          SIGINT or SIGTERM received

EXAMPLES
  # Validate stored specs
  vizspec validate specs/*.json

  # Deterministic quicksort trace
  vizspec trace -a quicksort --array 9,3,7,1,5

  # Ask Gemini, allowing two repair turns
  vizspec generate --provider gemini --max-repairs 2 -a binary-search --array 1,3,5,7 --target 5 "where is 5?"
`

const helpTemplate = `{{if .HasParent}}{{with .Long}}{{.}}

{{end}}{{.UsageString}}{{else}}` + rootHelp + `{{end}}`

// SetCustomHelp configures the cobra command to use our custom help template.
func SetCustomHelp(cmd *cobra.Command) {
	cmd.SetHelpTemplate(helpTemplate)
}
