package vizspec

import (
	"strings"
)

// genericCaption is too vague to help a viewer follow the trace.
const genericCaption = "Recursion"

// RequiredPhases returns the lifecycle a non-base call of alg must walk
// through, in order. It is nil for non-recursive algorithms.
func RequiredPhases(alg Algorithm) []Phase {
	switch alg {
	case QuickSort:
		return []Phase{PhaseEnter, PhaseDivide, PhaseRecurseLeft, PhaseRecurseRight, PhaseReturn}
	case MergeSort:
		return []Phase{PhaseEnter, PhaseDivide, PhaseRecurseLeft, PhaseRecurseRight, PhaseCombine, PhaseReturn}
	default:
		return nil
	}
}

// callGroup collects the frames of one logical invocation in step order.
type callGroup struct {
	id        string
	firstStep int
	phases    []Phase
	steps     []int
}

func (g *callGroup) first(p Phase) int {
	for n, got := range g.phases {
		if got == p {
			return g.steps[n]
		}
	}
	return -1
}

func (g *callGroup) count(p Phase) int {
	c := 0
	for _, got := range g.phases {
		if got == p {
			c++
		}
	}
	return c
}

// checkRecursion treats the step list as a flattened call tree and checks it
// is well formed. All violations are reported.
func checkRecursion(spec *VizSpec, issues *Issues) {
	if !spec.Scene.Has(ComponentStackView) {
		issues.add(CodeMissingStackView, "scene.components", "recursive algorithms require a StackView component")
	}

	var groups []*callGroup
	byID := make(map[string]*callGroup)

	for k, step := range spec.Steps {
		path := indexPath("steps", k)
		sp := joinPath(path, "state")

		if strings.EqualFold(strings.TrimSpace(step.Caption), genericCaption) {
			issues.add(CodeGenericCaption, joinPath(path, "caption"),
				"caption %q is too generic; describe what happens in this step", step.Caption)
		}
		if len(step.State.Stack) == 0 {
			issues.add(CodeMissingStack, joinPath(sp, "stack"), "missing state.stack; every step must carry the call stack")
		}
		rec := step.State.Recursion
		if rec == nil {
			issues.add(CodeMissingRecursion, joinPath(sp, "recursion"), "missing state.recursion; every step must carry recursion metadata")
			continue
		}

		switch {
		case spec.Algorithm == QuickSort && rec.Phase == PhaseDivide && step.State.Partition == nil:
			issues.add(CodeMissingPartition, joinPath(sp, "partition"), "quicksort divide steps must carry state.partition")
		case spec.Algorithm == MergeSort && rec.Phase == PhaseCombine && step.State.Merge == nil:
			issues.add(CodeMissingMerge, joinPath(sp, "merge"), "mergesort combine steps must carry state.merge")
		}

		g, ok := byID[rec.CallID]
		if !ok {
			g = &callGroup{id: rec.CallID, firstStep: k}
			byID[rec.CallID] = g
			groups = append(groups, g)
		}
		g.phases = append(g.phases, rec.Phase)
		g.steps = append(g.steps, k)
	}

	checkEndpoints(spec, issues)
	checkDepthDeltas(spec, issues)
	for _, g := range groups {
		checkCall(spec.Algorithm, g, issues)
	}
}

func checkEndpoints(spec *VizSpec, issues *Issues) {
	if len(spec.Steps) == 0 {
		return
	}
	if rec := spec.Steps[0].State.Recursion; rec != nil && (rec.Depth != 0 || rec.Phase != PhaseEnter) {
		issues.add(CodeBadFirstFrame, "steps[0].state.recursion",
			"first step must be {depth: 0, phase: enter}, got {depth: %d, phase: %s}", rec.Depth, rec.Phase)
	}
	last := len(spec.Steps) - 1
	if rec := spec.Steps[last].State.Recursion; rec != nil && (rec.Depth != 0 || rec.Phase != PhaseReturn) {
		issues.add(CodeBadLastFrame, joinPath(indexPath("steps", last), "state.recursion"),
			"last step must be {depth: 0, phase: return}, got {depth: %d, phase: %s}", rec.Depth, rec.Phase)
	}
}

// checkDepthDeltas enforces that depth moves by at most one between adjacent
// steps, descending only from a recurse phase into an enter, and ascending
// only right after a return.
func checkDepthDeltas(spec *VizSpec, issues *Issues) {
	for k := 1; k < len(spec.Steps); k++ {
		prev := spec.Steps[k-1].State.Recursion
		cur := spec.Steps[k].State.Recursion
		if prev == nil || cur == nil {
			continue
		}
		path := joinPath(indexPath("steps", k), "state.recursion")
		delta := cur.Depth - prev.Depth

		switch {
		case delta > 1 || delta < -1:
			issues.add(CodeDepthJump, joinPath(path, "depth"),
				"depth jumps from %d (steps[%d]) to %d; depth may only change by -1, 0 or +1 between steps",
				prev.Depth, k-1, cur.Depth)
		case delta == 1:
			if prev.Phase != PhaseRecurseLeft && prev.Phase != PhaseRecurseRight {
				issues.add(CodeBadDescent, path,
					"depth increases after phase %s; only recurse-left or recurse-right may precede a deeper call", prev.Phase)
			}
			if cur.Phase != PhaseEnter {
				issues.add(CodeBadDescent, joinPath(path, "phase"),
					"a deeper call must start with enter, got %s", cur.Phase)
			}
		case delta == -1:
			if prev.Phase != PhaseReturn {
				issues.add(CodeBadAscent, path,
					"depth decreases after phase %s; only a return may precede a shallower step", prev.Phase)
			}
		}
	}
}

func checkCall(alg Algorithm, g *callGroup, issues *Issues) {
	path := joinPath(indexPath("steps", g.firstStep), "state.recursion")

	if g.phases[0] != PhaseEnter {
		issues.add(CodeCallMissingEnter, path, "call %q starts with %s; every call must start with enter", g.id, g.phases[0])
	}
	if g.count(PhaseReturn) == 0 {
		issues.add(CodeCallMissingReturn, path, "call %q never returns; every call must end with return", g.id)
	}
	for _, p := range []Phase{PhaseEnter, PhaseReturn} {
		if n := g.count(p); n > 1 {
			issues.add(CodeRepeatedPhase, path, "call %q has %d %s phases; exactly one is allowed (reuse of a callId?)", g.id, n, p)
		}
	}

	if g.first(PhaseBase) >= 0 {
		var mixed []string
		for _, p := range []Phase{PhaseDivide, PhaseRecurseLeft, PhaseRecurseRight, PhaseCombine} {
			if g.first(p) >= 0 {
				mixed = append(mixed, string(p))
			}
		}
		if len(mixed) > 0 {
			issues.add(CodeBaseCaseMixed, path,
				"call %q has a base phase but also %s; a base case must be exactly enter, base, return",
				g.id, strings.Join(mixed, ", "))
		}
		if ret := g.first(PhaseReturn); ret >= 0 && g.first(PhaseBase) > ret {
			issues.add(CodeBaseAfterReturn, path, "call %q reaches base after return", g.id)
		}
		return
	}

	required := RequiredPhases(alg)
	prevIdx, prevPhase := -1, Phase("")
	for _, p := range required {
		idx := g.first(p)
		if idx < 0 {
			if p != PhaseEnter && p != PhaseReturn {
				issues.add(CodeMissingPhase, path, "call %q is missing phase %s", g.id, p)
			}
			continue
		}
		if prevIdx >= 0 && idx < prevIdx {
			issues.add(CodePhaseOrder, path, "call %q has %s before %s; phases must follow %s",
				g.id, p, prevPhase, phaseList(required))
		}
		prevIdx, prevPhase = idx, p
	}
}

func phaseList(phases []Phase) string {
	parts := make([]string, len(phases))
	for i, p := range phases {
		parts[i] = string(p)
	}
	return strings.Join(parts, " -> ")
}
