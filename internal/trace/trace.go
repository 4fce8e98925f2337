// Package trace builds ground-truth VizSpecs by running the real algorithm
// over the input and recording a snapshot at every meaningful transition.
// The orchestrator falls back to these tracers when the model cannot
// produce a valid spec within its repair budget.
package trace

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/CodexForgeBR/vizspec/internal/vizspec"
)

// Tracer produces a VizSpec for a normalized input.
type Tracer interface {
	Trace(in vizspec.NormalizedInput) (*vizspec.VizSpec, error)
}

// TracerFunc adapts a function to the Tracer interface.
type TracerFunc func(in vizspec.NormalizedInput) (*vizspec.VizSpec, error)

// Trace calls f(in).
func (f TracerFunc) Trace(in vizspec.NormalizedInput) (*vizspec.VizSpec, error) {
	return f(in)
}

// Registry maps algorithms to their deterministic tracers.
type Registry map[vizspec.Algorithm]Tracer

// Default returns a registry with every built-in tracer.
func Default() Registry {
	return Registry{
		vizspec.QuickSort:    TracerFunc(Quicksort),
		vizspec.MergeSort:    TracerFunc(Mergesort),
		vizspec.LinearSearch: TracerFunc(LinearSearch),
		vizspec.BinarySearch: TracerFunc(BinarySearch),
	}
}

// Lookup returns the tracer registered for alg.
func (r Registry) Lookup(alg vizspec.Algorithm) (Tracer, bool) {
	t, ok := r[alg]
	return t, ok
}

// Lookup returns the built-in tracer for alg.
func Lookup(alg vizspec.Algorithm) (Tracer, bool) {
	return Default().Lookup(alg)
}

func checkInput(in vizspec.NormalizedInput, want vizspec.Algorithm) error {
	if in.Algorithm != want {
		return fmt.Errorf("%s tracer cannot trace %q", want, in.Algorithm)
	}
	if len(in.Array) == 0 || len(in.Array) > vizspec.MaxArrayLength {
		return fmt.Errorf("array must have 1 to %d elements, got %d", vizspec.MaxArrayLength, len(in.Array))
	}
	return nil
}

// recorder accumulates steps for one tracer run. All counters live here so
// concurrent traces never share state.
type recorder struct {
	spec  *vizspec.VizSpec
	array []float64
	steps int
	calls int
}

func newRecorder(alg vizspec.Algorithm, name string, array []float64, lines []string, components ...vizspec.Component) *recorder {
	return &recorder{
		spec: &vizspec.VizSpec{
			Version:   vizspec.Version,
			Algorithm: alg,
			Title:     title(name, array),
			Code:      vizspec.CodePanel{Lines: lines},
			Scene:     vizspec.Scene{Components: components},
			Steps:     []vizspec.Step{},
		},
		array: array,
	}
}

// emit appends a step carrying a snapshot of the working array.
func (r *recorder) emit(caption string, line int, st vizspec.StepState, events []vizspec.StepEvent) {
	r.steps++
	st.Array = slices.Clone(r.array)
	r.spec.Steps = append(r.spec.Steps, vizspec.Step{
		ID:             "s" + strconv.Itoa(r.steps),
		Caption:        caption,
		ActiveCodeLine: line,
		State:          st,
		Events:         events,
	})
}

// pointers keeps only the named indices that fall inside the array.
func (r *recorder) pointers(named map[string]int) map[string]int {
	out := make(map[string]int, len(named))
	for name, idx := range named {
		if idx >= 0 && idx < len(r.array) {
			out[name] = idx
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// span returns the inclusive range [lo, hi], or nil when it is empty or
// leaves the array.
func (r *recorder) span(lo, hi int) *vizspec.Range {
	if lo > hi || lo < 0 || hi >= len(r.array) {
		return nil
	}
	return &vizspec.Range{L: lo, R: hi}
}

// call is one logical invocation of a recursive tracer.
type call struct {
	id     string
	parent string
	fn     string
	depth  int
	lo, hi int
	stack  []string
}

// enter allocates a fresh call id and pushes the call onto parent's stack.
// A nil parent starts the root call.
func (r *recorder) enter(fn string, parent *call, lo, hi int) call {
	r.calls++
	c := call{id: "c" + strconv.Itoa(r.calls), fn: fn, lo: lo, hi: hi}
	if parent != nil {
		c.parent = parent.id
		c.depth = parent.depth + 1
		c.stack = slices.Clone(parent.stack)
	}
	c.stack = append(c.stack, c.label())
	return c
}

func (c call) label() string {
	return fmt.Sprintf("%s(%d, %d)", c.fn, c.lo, c.hi)
}

// state is the common per-step state of c: stack, recursion frame, the
// active sub-range and the lo/hi pointers.
func (r *recorder) state(c call, phase vizspec.Phase) vizspec.StepState {
	return vizspec.StepState{
		Pointers: r.pointers(map[string]int{"lo": c.lo, "hi": c.hi}),
		Range:    r.span(c.lo, c.hi),
		Stack:    slices.Clone(c.stack),
		Recursion: &vizspec.RecursionFrame{
			CallID:       c.id,
			ParentCallID: c.parent,
			Fn:           c.fn,
			Depth:        c.depth,
			Phase:        phase,
			Args:         fmt.Sprintf("lo=%d, hi=%d", c.lo, c.hi),
		},
	}
}

// capEvents truncates events to the per-step limit. The second result is
// the number of events dropped.
func capEvents(events []vizspec.StepEvent) ([]vizspec.StepEvent, int) {
	if len(events) <= vizspec.MaxEvents {
		return events, 0
	}
	return events[:vizspec.MaxEvents], len(events) - vizspec.MaxEvents
}

func title(name string, array []float64) string {
	t := name + " on " + formatValues(array)
	if utf8.RuneCountInString(t) > vizspec.MaxTitleLength {
		t = fmt.Sprintf("%s on %d values", name, len(array))
	}
	return t
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatValues(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = formatValue(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
