package vizspec

import (
	"fmt"
	"strings"
)

// Category groups issue codes by the kind of failure they describe.
type Category string

const (
	CategoryParse             Category = "parse"
	CategoryStructural        Category = "structural"
	CategoryBounds            Category = "bounds"
	CategoryLifecycle         Category = "lifecycle"
	CategoryAlgorithmMismatch Category = "algorithm-mismatch"
)

// Code is a machine-readable validation failure kind.
type Code string

// Parse failures.
const (
	CodeInvalidJSON Code = "invalid_json"
)

// Structural failures (closed-world schema).
const (
	CodeNull                   Code = "null_value"
	CodeUnknownField           Code = "unknown_field"
	CodeMissingField           Code = "missing_field"
	CodeWrongType              Code = "wrong_type"
	CodeInvalidValue           Code = "invalid_value"
	CodeNotInteger             Code = "not_integer"
	CodeNonFinite              Code = "non_finite"
	CodeOutOfRange             Code = "out_of_range"
	CodeLength                 Code = "length"
	CodePropsNonPrimitive      Code = "props_non_primitive"
	CodeDuplicateComponentID   Code = "duplicate_component_id"
	CodeDuplicateComponentType Code = "duplicate_component_type"
	CodeMissingCodeBlock       Code = "missing_code_block"
)

// Bounds failures.
const (
	CodeActiveLineOutOfRange Code = "active_line_out_of_range"
	CodeIndexOutOfBounds     Code = "index_out_of_bounds"
	CodeInvertedRange        Code = "inverted_range"
	CodeMergeOverflow        Code = "merge_overflow"
)

// Recursion lifecycle failures.
const (
	CodeDepthStackMismatch Code = "depth_stack_mismatch"
	CodeMissingStackView   Code = "missing_stack_view"
	CodeGenericCaption     Code = "generic_caption"
	CodeMissingStack       Code = "missing_stack"
	CodeMissingRecursion   Code = "missing_recursion"
	CodeMissingPartition   Code = "missing_partition"
	CodeMissingMerge       Code = "missing_merge"
	CodeBadFirstFrame      Code = "bad_first_frame"
	CodeBadLastFrame       Code = "bad_last_frame"
	CodeDepthJump          Code = "depth_jump"
	CodeBadDescent         Code = "bad_descent"
	CodeBadAscent          Code = "bad_ascent"
	CodeCallMissingEnter   Code = "call_missing_enter"
	CodeCallMissingReturn  Code = "call_missing_return"
	CodeRepeatedPhase      Code = "repeated_phase"
	CodeBaseCaseMixed      Code = "base_case_mixed"
	CodeBaseAfterReturn    Code = "base_after_return"
	CodeMissingPhase       Code = "missing_phase"
	CodePhaseOrder         Code = "phase_order"
)

// Orchestrator-level business rule.
const (
	CodeAlgorithmMismatch Code = "algorithm_mismatch"
)

// Category returns the failure category of c.
func (c Code) Category() Category {
	switch c {
	case CodeInvalidJSON:
		return CategoryParse
	case CodeActiveLineOutOfRange, CodeIndexOutOfBounds, CodeInvertedRange, CodeMergeOverflow:
		return CategoryBounds
	case CodeDepthStackMismatch, CodeMissingStackView, CodeGenericCaption, CodeMissingStack,
		CodeMissingRecursion, CodeMissingPartition, CodeMissingMerge, CodeBadFirstFrame,
		CodeBadLastFrame, CodeDepthJump, CodeBadDescent, CodeBadAscent, CodeCallMissingEnter,
		CodeCallMissingReturn, CodeRepeatedPhase, CodeBaseCaseMixed, CodeBaseAfterReturn,
		CodeMissingPhase, CodePhaseOrder:
		return CategoryLifecycle
	case CodeAlgorithmMismatch:
		return CategoryAlgorithmMismatch
	default:
		return CategoryStructural
	}
}

// Issue is one validation failure, anchored at a dotted field path such as
// "steps[2].state.recursion.depth". The root document has an empty path.
type Issue struct {
	Code    Code   `json:"code"`
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// Issues is an ordered list of validation failures.
type Issues []Issue

// Error renders one issue per line. It lets an Issues value travel as the
// detail of an error without losing structure.
func (is Issues) Error() string {
	lines := make([]string, len(is))
	for n, i := range is {
		lines[n] = i.String()
	}
	return strings.Join(lines, "\n")
}

// Has reports whether any issue carries code c.
func (is Issues) Has(c Code) bool {
	for _, i := range is {
		if i.Code == c {
			return true
		}
	}
	return false
}

// Codes returns the distinct codes in first-seen order.
func (is Issues) Codes() []Code {
	seen := make(map[Code]bool, len(is))
	var out []Code
	for _, i := range is {
		if !seen[i.Code] {
			seen[i.Code] = true
			out = append(out, i.Code)
		}
	}
	return out
}

// Summary is a one-line description suitable for log output.
func (is Issues) Summary() string {
	switch len(is) {
	case 0:
		return "no issues"
	case 1:
		return is[0].String()
	default:
		return fmt.Sprintf("%s (and %d more)", is[0].String(), len(is)-1)
	}
}

func (is *Issues) add(code Code, path, format string, args ...any) {
	*is = append(*is, Issue{Code: code, Path: path, Message: fmt.Sprintf(format, args...)})
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func indexPath(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}
