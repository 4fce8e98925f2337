package trace

import (
	"fmt"
	"slices"

	"github.com/CodexForgeBR/vizspec/internal/vizspec"
)

var quicksortLines = []string{
	"quickSort(a, lo, hi):",
	"  if lo >= hi: return",
	"  p = partition(a, lo, hi)",
	"  quickSort(a, lo, p - 1)",
	"  quickSort(a, p + 1, hi)",
	"  return",
}

// Code lines per phase (1-based).
const (
	qsLineEnter = iota + 1
	qsLineBase
	qsLineDivide
	qsLineLeft
	qsLineRight
	qsLineReturn
)

// Quicksort traces Lomuto-partition quicksort over a copy of in.Array.
func Quicksort(in vizspec.NormalizedInput) (*vizspec.VizSpec, error) {
	if err := checkInput(in, vizspec.QuickSort); err != nil {
		return nil, err
	}
	q := &quickTracer{recorder: newRecorder(vizspec.QuickSort, "Quicksort", in.Clone(), slices.Clone(quicksortLines),
		vizspec.Component{ID: "code", Type: vizspec.ComponentCodeBlock},
		vizspec.Component{ID: "bars", Type: vizspec.ComponentArrayBars},
		vizspec.Component{ID: "pointers", Type: vizspec.ComponentPointerLabels},
		vizspec.Component{ID: "range", Type: vizspec.ComponentRangeHighlight},
		vizspec.Component{ID: "stack", Type: vizspec.ComponentStackView, Props: map[string]any{"title": "Call stack"}},
		vizspec.Component{ID: "partition", Type: vizspec.ComponentPartitionView},
		vizspec.Component{ID: "events", Type: vizspec.ComponentEventLog},
		vizspec.Component{ID: "caption", Type: vizspec.ComponentCaptionPanel},
	)}
	q.sort(nil, 0, len(q.array)-1)
	return q.spec, nil
}

type quickTracer struct {
	*recorder
}

func (q *quickTracer) sort(parent *call, lo, hi int) {
	c := q.enter("quickSort", parent, lo, hi)
	q.emit(fmt.Sprintf("Enter quickSort(%d, %d)", lo, hi), qsLineEnter, q.state(c, vizspec.PhaseEnter), nil)

	if lo >= hi {
		q.emit(fmt.Sprintf("Range [%d, %d] has at most one element, nothing to partition", lo, hi),
			qsLineBase, q.state(c, vizspec.PhaseBase), nil)
		q.emit(fmt.Sprintf("Return from quickSort(%d, %d)", lo, hi), qsLineReturn, q.state(c, vizspec.PhaseReturn), nil)
		return
	}

	pivot := q.array[hi]
	p, events := q.partition(lo, hi)
	events, dropped := capEvents(events)

	st := q.state(c, vizspec.PhaseDivide)
	st.Pointers = q.pointers(map[string]int{"lo": lo, "hi": hi, "p": p})
	st.Partition = &vizspec.PartitionState{
		PivotIndex: p,
		Less:       slices.Clone(q.array[lo:p]),
		Greater:    slices.Clone(q.array[p+1 : hi+1]),
	}
	caption := fmt.Sprintf("Partition [%d, %d] around pivot %s, which lands at index %d", lo, hi, formatValue(pivot), p)
	if dropped > 0 {
		caption += fmt.Sprintf(" (%d more events not shown)", dropped)
	}
	q.emit(caption, qsLineDivide, st, events)

	q.emit(fmt.Sprintf("Sort the left part [%d, %d]", lo, p-1), qsLineLeft, q.state(c, vizspec.PhaseRecurseLeft), nil)
	q.sort(&c, lo, p-1)

	q.emit(fmt.Sprintf("Sort the right part [%d, %d]", p+1, hi), qsLineRight, q.state(c, vizspec.PhaseRecurseRight), nil)
	q.sort(&c, p+1, hi)

	q.emit(fmt.Sprintf("[%d, %d] is sorted, return from quickSort(%d, %d)", lo, hi, lo, hi),
		qsLineReturn, q.state(c, vizspec.PhaseReturn), nil)
}

// partition runs Lomuto partitioning of [lo, hi] with a[hi] as pivot and
// returns the pivot's final index with the compares and swaps it made.
func (q *quickTracer) partition(lo, hi int) (int, []vizspec.StepEvent) {
	a := q.array
	pivot := a[hi]
	var events []vizspec.StepEvent

	i := lo
	for j := lo; j < hi; j++ {
		events = append(events, vizspec.CompareEvent{I: j, J: hi, Outcome: vizspec.CompareOutcome(a[j], pivot)})
		if a[j] < pivot {
			if i != j {
				a[i], a[j] = a[j], a[i]
				events = append(events, vizspec.SwapEvent{I: i, J: j})
			}
			i++
		}
	}
	if i != hi {
		a[i], a[hi] = a[hi], a[i]
		events = append(events, vizspec.SwapEvent{I: i, J: hi})
	}
	return i, events
}
