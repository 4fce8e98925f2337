// Package exitcode defines named exit codes for the vizspec CLI.
//
// Each code maps a specific termination condition to a numeric value
// recognized by shell scripts and CI pipelines.
package exitcode

import (
	"context"
	"errors"

	"github.com/CodexForgeBR/vizspec/internal/ai"
	"github.com/CodexForgeBR/vizspec/internal/repair"
	"github.com/CodexForgeBR/vizspec/internal/vizspec"
)

// Exit code constants.
const (
	Success         = 0   // Every document valid, or a spec was produced
	Error           = 1   // Invalid args, unreadable file, misconfiguration
	Invalid         = 2   // At least one document failed validation
	BudgetExhausted = 3   // No valid spec within the repair budget
	Upstream        = 4   // The generator backend failed
	Interrupted     = 130 // SIGINT/SIGTERM received
)

// Name returns the human-readable name for the given exit code.
// Unknown codes return "unknown".
func Name(code int) string {
	switch code {
	case Success:
		return "Success"
	case Error:
		return "Error"
	case Invalid:
		return "Invalid"
	case BudgetExhausted:
		return "BudgetExhausted"
	case Upstream:
		return "Upstream"
	case Interrupted:
		return "Interrupted"
	default:
		return "unknown"
	}
}

// ForError maps an error returned by a command to its exit code. A nil
// error is Success.
func ForError(err error) int {
	if err == nil {
		return Success
	}
	if errors.Is(err, context.Canceled) {
		return Interrupted
	}
	if errors.Is(err, repair.ErrBudgetExhausted) {
		return BudgetExhausted
	}
	var up *ai.UpstreamError
	if errors.As(err, &up) {
		return Upstream
	}
	var issues vizspec.Issues
	if errors.As(err, &issues) {
		return Invalid
	}
	return Error
}
