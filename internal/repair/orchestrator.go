// Package repair drives the generate, validate and repair loop that turns a
// question into a VizSpec, falling back to a deterministic trace when the
// generator cannot produce a valid document within budget.
package repair

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/CodexForgeBR/vizspec/internal/ai"
	"github.com/CodexForgeBR/vizspec/internal/logging"
	"github.com/CodexForgeBR/vizspec/internal/prompt"
	"github.com/CodexForgeBR/vizspec/internal/trace"
	"github.com/CodexForgeBR/vizspec/internal/vizspec"
)

// DefaultMaxRepairs is the number of repair turns after the first attempt.
const DefaultMaxRepairs = 3

// Source records where a returned spec came from.
type Source string

const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
)

// ErrBudgetExhausted matches every *BudgetExhaustedError via errors.Is.
var ErrBudgetExhausted = errors.New("repair budget exhausted")

// BudgetExhaustedError is returned when no attempt produced a valid spec and
// no deterministic fallback could stand in.
type BudgetExhaustedError struct {
	Attempts int
	Issues   vizspec.Issues
	Detail   string
}

func (e *BudgetExhaustedError) Error() string {
	return fmt.Sprintf("repair budget exhausted after %d attempts: %s", e.Attempts, e.Issues.Summary())
}

// Is reports whether target is ErrBudgetExhausted.
func (e *BudgetExhaustedError) Is(target error) bool {
	return target == ErrBudgetExhausted
}

// Request is one visualization request.
type Request struct {
	Question string
	History  []ai.Message
	Input    vizspec.NormalizedInput
}

// Result is a validated spec plus how it was obtained.
type Result struct {
	Spec     *vizspec.VizSpec
	Source   Source
	Attempts int
	RunID    string
}

// Orchestrator owns the repair budget. Fields are used as set; New fills in
// the defaults.
type Orchestrator struct {
	Generator   ai.Generator
	Prompts     *prompt.Builder
	MaxRepairs  int
	Temperature float64
	MaxTokens   int
	// Fallbacks supplies deterministic tracers. A nil or empty registry
	// disables the fallback.
	Fallbacks trace.Registry
}

// New returns an orchestrator with the default prompts, repair budget and
// built-in fallback tracers.
func New(gen ai.Generator) *Orchestrator {
	return &Orchestrator{
		Generator:  gen,
		Prompts:    prompt.NewBuilder(prompt.DefaultTemplates()),
		MaxRepairs: DefaultMaxRepairs,
		Fallbacks:  trace.Default(),
	}
}

// GenerateValidatedSpec asks the generator for a spec and validates it
// against req.Input.Algorithm. Invalid candidates are sent back with hints
// and the validator's detail, up to MaxRepairs times. Generator failures are
// returned at once as *ai.UpstreamError.
func (o *Orchestrator) GenerateValidatedSpec(ctx context.Context, req Request) (*Result, error) {
	if o.Generator == nil {
		return nil, errors.New("no generator configured")
	}
	alg := req.Input.Algorithm
	if !alg.Valid() {
		return nil, fmt.Errorf("unknown algorithm %q", alg)
	}

	builder := o.Prompts
	if builder == nil {
		builder = prompt.NewBuilder(prompt.DefaultTemplates())
	}
	runID := uuid.NewString()
	budget := 1 + max(o.MaxRepairs, 0)
	opts := ai.Options{Temperature: o.Temperature, MaxTokens: o.MaxTokens}

	var (
		candidate string
		issues    vizspec.Issues
	)
	for attempt := 1; attempt <= budget; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var msgs []ai.Message
		if attempt == 1 {
			msgs = builder.Initial(req.Question, req.History, req.Input)
		} else {
			msgs = builder.Repair(req.Question, req.History, req.Input, candidate, Hints(issues), issues.Error())
		}

		logging.Stage(fmt.Sprintf("run %s: attempt %d/%d for %s", runID, attempt, budget, alg))
		text, err := o.Generator.GenerateText(ctx, msgs, opts)
		if err != nil {
			return nil, asUpstream(err)
		}

		spec, found := vizspec.ValidateFor(text, alg)
		if len(found) == 0 {
			logging.Success(fmt.Sprintf("run %s: valid spec with %d steps on attempt %d", runID, len(spec.Steps), attempt))
			return &Result{Spec: spec, Source: SourceModel, Attempts: attempt, RunID: runID}, nil
		}
		logging.Warn(fmt.Sprintf("run %s: attempt %d rejected with %d issue(s): %s", runID, attempt, len(found), found.Summary()))
		for _, is := range found {
			logging.Debug(fmt.Sprintf("run %s: [%s] %s", runID, is.Code, is))
		}
		candidate, issues = text, found
	}

	return o.fallback(runID, req.Input, budget, issues)
}

func (o *Orchestrator) fallback(runID string, in vizspec.NormalizedInput, attempts int, issues vizspec.Issues) (*Result, error) {
	exhausted := &BudgetExhaustedError{Attempts: attempts, Issues: issues, Detail: issues.Error()}

	tracer, ok := o.Fallbacks.Lookup(in.Algorithm)
	if !ok {
		logging.Error(fmt.Sprintf("run %s: budget exhausted and no fallback for %s", runID, in.Algorithm))
		return nil, exhausted
	}

	logging.Stage(fmt.Sprintf("run %s: budget exhausted, tracing %s deterministically", runID, in.Algorithm))
	spec, err := tracer.Trace(in)
	if err != nil {
		exhausted.Detail = "fallback trace failed: " + err.Error()
		return nil, exhausted
	}
	spec, found := vizspec.ValidateSpec(spec, in.Algorithm)
	if len(found) > 0 {
		logging.Error(fmt.Sprintf("run %s: fallback spec rejected: %s", runID, found.Summary()))
		return nil, &BudgetExhaustedError{Attempts: attempts, Issues: found, Detail: found.Error()}
	}

	logging.Success(fmt.Sprintf("run %s: fallback spec with %d steps", runID, len(spec.Steps)))
	return &Result{Spec: spec, Source: SourceFallback, Attempts: attempts, RunID: runID}, nil
}

// asUpstream keeps errors that already carry upstream context and wraps the
// rest.
func asUpstream(err error) error {
	var up *ai.UpstreamError
	if errors.As(err, &up) {
		return err
	}
	return &ai.UpstreamError{Provider: "generator", Err: err}
}
