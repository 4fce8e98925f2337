package repair

import (
	"github.com/CodexForgeBR/vizspec/internal/vizspec"
)

// Hints turns validation issues into short corrective instructions for the
// next repair turn. Each instruction appears once, in the order its first
// triggering issue was reported.
func Hints(issues vizspec.Issues) []string {
	var hints []string
	seen := make(map[string]bool)
	for _, code := range issues.Codes() {
		h := hintFor(code)
		if h == "" || seen[h] {
			continue
		}
		seen[h] = true
		hints = append(hints, h)
	}
	if len(hints) == 0 && len(issues) > 0 {
		hints = append(hints, "Fix every validation error listed below and keep the document shape unchanged.")
	}
	return hints
}

func hintFor(code vizspec.Code) string {
	switch code {
	case vizspec.CodeInvalidJSON:
		return "Output exactly one JSON object with no prose or markdown around it."
	case vizspec.CodeNull:
		return "Never use null. Omit optional fields instead."
	case vizspec.CodeUnknownField:
		return "Remove fields that are not part of the VizSpec shape."
	case vizspec.CodeMissingField:
		return "Add every required field (version, algorithm, title, code, scene, steps and each step's id, caption, activeCodeLine, state.array)."
	case vizspec.CodeWrongType, vizspec.CodeInvalidValue:
		return "Use the exact value types and enum values from the document shape."
	case vizspec.CodeNotInteger, vizspec.CodeNonFinite, vizspec.CodeOutOfRange:
		return "Use finite numbers, and whole non-negative integers for indices, lines and depths."
	case vizspec.CodeLength:
		return "Respect the length limits: title up to 140 characters, 1-40 code lines, 1-300 steps, 1-32 array values, at most 48 events per step."
	case vizspec.CodePropsNonPrimitive:
		return "Component props may only hold strings, numbers or booleans."
	case vizspec.CodeMissingCodeBlock:
		return "Include exactly one CodeBlock component in scene.components."
	case vizspec.CodeDuplicateComponentID, vizspec.CodeDuplicateComponentType:
		return "Give every scene component a unique id and use each component type at most once."
	case vizspec.CodeActiveLineOutOfRange:
		return "Keep activeCodeLine between 1 and the number of code lines."
	case vizspec.CodeIndexOutOfBounds, vizspec.CodeInvertedRange:
		return "Keep every index, pointer and range inside that step's array, with l <= r."
	case vizspec.CodeMergeOverflow:
		return "merge.merged may not hold more values than left and right together."
	case vizspec.CodeMissingStackView:
		return "Add a StackView component to the scene."
	case vizspec.CodeMissingStack:
		return "Give every step a state.stack listing the active calls from the root."
	case vizspec.CodeMissingRecursion:
		return "Give every step a state.recursion with callId, fn, depth and phase."
	case vizspec.CodeDepthStackMismatch:
		return "Set recursion.depth to the stack length minus 1 on every step."
	case vizspec.CodeBadFirstFrame, vizspec.CodeBadLastFrame:
		return "Start with the root call entering at depth 0 and end with the root call returning at depth 0."
	case vizspec.CodeDepthJump:
		return "Change depth by at most 1 between adjacent steps."
	case vizspec.CodeBadDescent:
		return "Only go one level deeper right after a recurse-left or recurse-right step, into an enter step."
	case vizspec.CodeBadAscent:
		return "Only go one level up right after a return step."
	case vizspec.CodeCallMissingEnter, vizspec.CodeCallMissingReturn, vizspec.CodeRepeatedPhase:
		return "Give each callId exactly one enter step and exactly one return step, and use a new callId for every call."
	case vizspec.CodeMissingPhase, vizspec.CodePhaseOrder:
		return "Within each call, keep the phases in order and include every required phase for calls that are not base cases."
	case vizspec.CodeBaseCaseMixed, vizspec.CodeBaseAfterReturn:
		return "A base case call is exactly enter, base, return and never divides, recurses or combines."
	case vizspec.CodeMissingPartition:
		return "Every quicksort divide step must carry state.partition."
	case vizspec.CodeMissingMerge:
		return "Every mergesort combine step must carry state.merge."
	case vizspec.CodeGenericCaption:
		return "Replace generic captions like \"Recursion\" with what the call is doing."
	case vizspec.CodeAlgorithmMismatch:
		return "Set \"algorithm\" to the requested algorithm and trace that algorithm."
	default:
		return ""
	}
}
