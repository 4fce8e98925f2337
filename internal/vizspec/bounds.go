package vizspec

import "sort"

// Check runs the semantic pass over a structurally valid spec: code line
// references, index bounds, buffer sizes, depth/stack agreement and, for
// recursive algorithms, the call lifecycle rules.
func Check(spec *VizSpec) Issues {
	var issues Issues
	checkSteps(spec, &issues)
	if spec.Algorithm.IsRecursive() {
		checkRecursion(spec, &issues)
	}
	return issues
}

func checkSteps(spec *VizSpec, issues *Issues) {
	lines := len(spec.Code.Lines)
	for k, step := range spec.Steps {
		path := indexPath("steps", k)

		if step.ActiveCodeLine < 1 || step.ActiveCodeLine > lines {
			issues.add(CodeActiveLineOutOfRange, joinPath(path, "activeCodeLine"),
				"activeCodeLine %d is outside [1, %d]", step.ActiveCodeLine, lines)
		}

		b := boundsChecker{issues: issues, n: len(step.State.Array)}
		sp := joinPath(path, "state")
		st := step.State

		names := make([]string, 0, len(st.Pointers))
		for name := range st.Pointers {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			b.index(joinPath(joinPath(sp, "pointers"), name), st.Pointers[name])
		}

		if st.Range != nil {
			b.inclusive(joinPath(sp, "range"), *st.Range)
		}
		if st.Partition != nil {
			b.index(joinPath(sp, "partition.pivotIndex"), st.Partition.PivotIndex)
		}
		if m := st.Merge; m != nil {
			if m.WriteRange != nil {
				b.inclusive(joinPath(sp, "merge.writeRange"), *m.WriteRange)
			}
			if len(m.Merged) > len(m.Left)+len(m.Right) {
				issues.add(CodeMergeOverflow, joinPath(sp, "merge.merged"),
					"merged has %d values but left and right hold only %d", len(m.Merged), len(m.Left)+len(m.Right))
			}
		}
		// Stack is non-nil whenever the key was present, even as [].
		if st.Recursion != nil && st.Stack != nil && st.Recursion.Depth != len(st.Stack)-1 {
			issues.add(CodeDepthStackMismatch, joinPath(sp, "recursion.depth"),
				"depth %d does not match stack length %d (depth must equal stack length - 1)", st.Recursion.Depth, len(st.Stack))
		}

		for e, ev := range step.Events {
			ep := indexPath(joinPath(path, "events"), e)
			i, j := ev.Indices()
			b.index(joinPath(ep, "i"), i)
			b.index(joinPath(ep, "j"), j)
		}
	}
}

type boundsChecker struct {
	issues *Issues
	n      int
}

func (b boundsChecker) index(path string, idx int) {
	if idx < 0 || idx >= b.n {
		b.issues.add(CodeIndexOutOfBounds, path, "index %d is out of bounds for array of length %d", idx, b.n)
	}
}

func (b boundsChecker) inclusive(path string, r Range) {
	b.index(joinPath(path, "l"), r.L)
	b.index(joinPath(path, "r"), r.R)
	if r.L > r.R {
		b.issues.add(CodeInvertedRange, path, "range l=%d is greater than r=%d", r.L, r.R)
	}
}
