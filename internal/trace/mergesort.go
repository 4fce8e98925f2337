package trace

import (
	"fmt"
	"slices"

	"github.com/CodexForgeBR/vizspec/internal/vizspec"
)

var mergesortLines = []string{
	"mergeSort(a, lo, hi):",
	"  if lo >= hi: return",
	"  mid = (lo + hi) / 2",
	"  mergeSort(a, lo, mid)",
	"  mergeSort(a, mid + 1, hi)",
	"  merge(a, lo, mid, hi)",
	"  return",
}

const (
	msLineEnter = iota + 1
	msLineBase
	msLineDivide
	msLineLeft
	msLineRight
	msLineCombine
	msLineReturn
)

// Mergesort traces top-down mergesort over a copy of in.Array.
func Mergesort(in vizspec.NormalizedInput) (*vizspec.VizSpec, error) {
	if err := checkInput(in, vizspec.MergeSort); err != nil {
		return nil, err
	}
	m := &mergeTracer{recorder: newRecorder(vizspec.MergeSort, "Merge sort", in.Clone(), slices.Clone(mergesortLines),
		vizspec.Component{ID: "code", Type: vizspec.ComponentCodeBlock},
		vizspec.Component{ID: "bars", Type: vizspec.ComponentArrayBars},
		vizspec.Component{ID: "range", Type: vizspec.ComponentRangeHighlight},
		vizspec.Component{ID: "stack", Type: vizspec.ComponentStackView, Props: map[string]any{"title": "Call stack"}},
		vizspec.Component{ID: "tree", Type: vizspec.ComponentCallTree},
		vizspec.Component{ID: "merge", Type: vizspec.ComponentMergeView},
		vizspec.Component{ID: "caption", Type: vizspec.ComponentCaptionPanel},
	)}
	m.sort(nil, 0, len(m.array)-1)
	return m.spec, nil
}

type mergeTracer struct {
	*recorder
}

func (m *mergeTracer) sort(parent *call, lo, hi int) {
	c := m.enter("mergeSort", parent, lo, hi)
	m.emit(fmt.Sprintf("Enter mergeSort(%d, %d)", lo, hi), msLineEnter, m.state(c, vizspec.PhaseEnter), nil)

	if lo >= hi {
		m.emit(fmt.Sprintf("A single element at index %d is already sorted", lo),
			msLineBase, m.state(c, vizspec.PhaseBase), nil)
		m.emit(fmt.Sprintf("Return from mergeSort(%d, %d)", lo, hi), msLineReturn, m.state(c, vizspec.PhaseReturn), nil)
		return
	}

	mid := lo + (hi-lo)/2
	st := m.state(c, vizspec.PhaseDivide)
	st.Pointers = m.pointers(map[string]int{"lo": lo, "mid": mid, "hi": hi})
	m.emit(fmt.Sprintf("Split [%d, %d] at mid = %d", lo, hi, mid), msLineDivide, st, nil)

	m.emit(fmt.Sprintf("Sort the left half [%d, %d]", lo, mid), msLineLeft, m.state(c, vizspec.PhaseRecurseLeft), nil)
	m.sort(&c, lo, mid)

	m.emit(fmt.Sprintf("Sort the right half [%d, %d]", mid+1, hi), msLineRight, m.state(c, vizspec.PhaseRecurseRight), nil)
	m.sort(&c, mid+1, hi)

	left := slices.Clone(m.array[lo : mid+1])
	right := slices.Clone(m.array[mid+1 : hi+1])
	merged, events := m.merge(lo, mid, hi)
	events, dropped := capEvents(events)

	st = m.state(c, vizspec.PhaseCombine)
	st.Merge = &vizspec.MergeState{
		Left:       left,
		Right:      right,
		Merged:     merged,
		WriteRange: m.span(lo, hi),
	}
	caption := fmt.Sprintf("Merge %s and %s into %s", formatValues(left), formatValues(right), formatValues(merged))
	if dropped > 0 {
		caption += fmt.Sprintf(" (%d more events not shown)", dropped)
	}
	m.emit(caption, msLineCombine, st, events)

	m.emit(fmt.Sprintf("[%d, %d] is sorted, return from mergeSort(%d, %d)", lo, hi, lo, hi),
		msLineReturn, m.state(c, vizspec.PhaseReturn), nil)
}

// merge merges the sorted runs [lo, mid] and [mid+1, hi] back into the
// working array. Compare events reference the original positions of the
// two heads being compared.
func (m *mergeTracer) merge(lo, mid, hi int) ([]float64, []vizspec.StepEvent) {
	a := m.array
	left := slices.Clone(a[lo : mid+1])
	right := slices.Clone(a[mid+1 : hi+1])
	merged := make([]float64, 0, len(left)+len(right))
	var events []vizspec.StepEvent

	i, j := 0, 0
	for i < len(left) && j < len(right) {
		events = append(events, vizspec.CompareEvent{
			I:       lo + i,
			J:       mid + 1 + j,
			Outcome: vizspec.CompareOutcome(left[i], right[j]),
		})
		if left[i] <= right[j] {
			merged = append(merged, left[i])
			i++
		} else {
			merged = append(merged, right[j])
			j++
		}
	}
	merged = append(merged, left[i:]...)
	merged = append(merged, right[j:]...)

	copy(a[lo:hi+1], merged)
	return merged, events
}
