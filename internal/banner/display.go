// Package banner provides colored banner display functions for the vizspec CLI.
//
// Banners frame the start and outcome of a generation run and summarize a
// validation batch. They are written to the given writer, normally stderr, so
// they never mix with the JSON printed on stdout.
package banner

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/CodexForgeBR/vizspec/internal/logging"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold).SprintFunc()
	successColor = color.New(color.FgGreen, color.Bold).SprintFunc()
	errorColor   = color.New(color.FgRed, color.Bold).SprintFunc()
	warnColor    = color.New(color.FgYellow, color.Bold).SprintFunc()
)

const rule = "═══════════════════════════════════════════════════"

// RunInfo describes a generation run.
type RunInfo struct {
	Provider   string
	Model      string
	Algorithm  string
	Values     int
	MaxRepairs int
}

// PrintStartupBanner displays the run configuration before generation.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  vizspec - VizSpec generation
//	═══════════════════════════════════════════════════
//	  Provider:   gemini
//	  Model:      gemini-2.5-flash
//	  Algorithm:  quicksort (5 values)
//	  Repairs:    3
//	═══════════════════════════════════════════════════
func PrintStartupBanner(w io.Writer, info RunInfo) {
	model := info.Model
	if model == "" {
		model = "(provider default)"
	}
	sep := headerColor(rule)
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, headerColor("  vizspec - VizSpec generation"))
	fmt.Fprintln(w, sep)
	fmt.Fprintf(w, "  Provider:   %s\n", info.Provider)
	fmt.Fprintf(w, "  Model:      %s\n", model)
	fmt.Fprintf(w, "  Algorithm:  %s (%d values)\n", info.Algorithm, info.Values)
	fmt.Fprintf(w, "  Repairs:    %d\n", info.MaxRepairs)
	fmt.Fprintln(w, sep)
}

// PrintCompletionBanner displays where the spec came from and how long it
// took. A fallback source is shown as a warning.
func PrintCompletionBanner(w io.Writer, source string, attempts, steps, durationSecs int) {
	paint := successColor
	headline := "  ✓ Valid VizSpec produced"
	if source == "fallback" {
		paint = warnColor
		headline = "  ⚠ Model output rejected, deterministic trace used"
	}
	sep := paint(rule)
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, paint(headline))
	fmt.Fprintf(w, "  Source:     %s\n", source)
	fmt.Fprintf(w, "  Attempts:   %d\n", attempts)
	fmt.Fprintf(w, "  Steps:      %d\n", steps)
	fmt.Fprintf(w, "  Duration:   %s\n", logging.FormatDuration(durationSecs))
	fmt.Fprintln(w, sep)
}

// PrintExhaustedBanner displays the corrective hints of the last rejected
// attempt when the repair budget ran out.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  ✗ Repair budget exhausted after 4 attempts
//	═══════════════════════════════════════════════════
//	  Last problems:
//	    - Change depth by at most 1 between adjacent steps.
//	═══════════════════════════════════════════════════
func PrintExhaustedBanner(w io.Writer, attempts int, hints []string) {
	sep := errorColor(rule)
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, errorColor(fmt.Sprintf("  ✗ Repair budget exhausted after %d attempts", attempts)))
	fmt.Fprintln(w, sep)
	if len(hints) > 0 {
		fmt.Fprintln(w, "  Last problems:")
		for _, h := range hints {
			fmt.Fprintf(w, "    - %s\n", h)
		}
	}
	fmt.Fprintln(w, sep)
}

// PrintValidationSummary displays the totals of a validation batch.
//
// Example output:
//
//	──────────────────────────────────────────────────
//	  Checked:  12
//	  Valid:    10
//	  Invalid:  2
//	  Unread:   0
//	──────────────────────────────────────────────────
func PrintValidationSummary(w io.Writer, valid, invalid, unread int) {
	sep := strings.Repeat("─", 50)
	fmt.Fprintln(w, sep)
	fmt.Fprintf(w, "  Checked:  %d\n", valid+invalid+unread)
	fmt.Fprintf(w, "  Valid:    %d\n", valid)
	fmt.Fprintf(w, "  Invalid:  %d\n", invalid)
	fmt.Fprintf(w, "  Unread:   %d\n", unread)
	fmt.Fprintln(w, sep)
}
