package trace

import (
	"errors"
	"fmt"
	"slices"

	"github.com/CodexForgeBR/vizspec/internal/vizspec"
)

var errNoTarget = errors.New("search requires a target")

var linearSearchLines = []string{
	"for i in 0..n-1:",
	"  if a[i] == target:",
	"    return i",
	"return -1",
}

// LinearSearch traces a left-to-right scan for in.Target.
func LinearSearch(in vizspec.NormalizedInput) (*vizspec.VizSpec, error) {
	if err := checkInput(in, vizspec.LinearSearch); err != nil {
		return nil, err
	}
	if in.Target == nil {
		return nil, errNoTarget
	}
	target := *in.Target
	r := newRecorder(vizspec.LinearSearch, "Linear search for "+formatValue(target), in.Clone(), slices.Clone(linearSearchLines),
		vizspec.Component{ID: "code", Type: vizspec.ComponentCodeBlock},
		vizspec.Component{ID: "cells", Type: vizspec.ComponentArrayCells, Props: map[string]any{"showIndices": true}},
		vizspec.Component{ID: "pointers", Type: vizspec.ComponentPointerLabels},
		vizspec.Component{ID: "events", Type: vizspec.ComponentEventLog},
		vizspec.Component{ID: "caption", Type: vizspec.ComponentCaptionPanel},
	)

	r.emit(fmt.Sprintf("Scan the array from index 0 looking for %s", formatValue(target)), 1,
		vizspec.StepState{Pointers: r.pointers(map[string]int{"i": 0})}, nil)

	for i, v := range r.array {
		outcome := vizspec.CompareOutcome(v, target)
		r.emit(fmt.Sprintf("Compare a[%d] = %s with %s", i, formatValue(v), formatValue(target)), 2,
			vizspec.StepState{Pointers: r.pointers(map[string]int{"i": i})},
			[]vizspec.StepEvent{vizspec.CompareEvent{I: i, J: i, Outcome: outcome}})
		if outcome == vizspec.OutcomeEqual {
			r.emit(fmt.Sprintf("Found %s at index %d", formatValue(target), i), 3,
				vizspec.StepState{Pointers: r.pointers(map[string]int{"i": i}), Range: r.span(i, i)}, nil)
			return r.spec, nil
		}
	}

	r.emit(fmt.Sprintf("%s is not in the array", formatValue(target)), 4, vizspec.StepState{}, nil)
	return r.spec, nil
}

var binarySearchLines = []string{
	"lo, hi = 0, n - 1",
	"while lo <= hi:",
	"  mid = (lo + hi) / 2",
	"  if a[mid] == target: return mid",
	"  if a[mid] < target: lo = mid + 1",
	"  else: hi = mid - 1",
	"return -1",
}

// BinarySearch traces an iterative binary search for in.Target over an
// ascending array.
func BinarySearch(in vizspec.NormalizedInput) (*vizspec.VizSpec, error) {
	if err := checkInput(in, vizspec.BinarySearch); err != nil {
		return nil, err
	}
	if in.Target == nil {
		return nil, errNoTarget
	}
	if !slices.IsSorted(in.Array) {
		return nil, errors.New("binary-search requires an ascending array")
	}
	target := *in.Target
	r := newRecorder(vizspec.BinarySearch, "Binary search for "+formatValue(target), in.Clone(), slices.Clone(binarySearchLines),
		vizspec.Component{ID: "code", Type: vizspec.ComponentCodeBlock},
		vizspec.Component{ID: "cells", Type: vizspec.ComponentArrayCells, Props: map[string]any{"showIndices": true}},
		vizspec.Component{ID: "pointers", Type: vizspec.ComponentPointerLabels},
		vizspec.Component{ID: "range", Type: vizspec.ComponentRangeHighlight},
		vizspec.Component{ID: "caption", Type: vizspec.ComponentCaptionPanel},
	)

	lo, hi := 0, len(r.array)-1
	r.emit(fmt.Sprintf("Search for %s in the whole array [%d, %d]", formatValue(target), lo, hi), 1,
		vizspec.StepState{Pointers: r.pointers(map[string]int{"lo": lo, "hi": hi}), Range: r.span(lo, hi)}, nil)

	for lo <= hi {
		mid := lo + (hi-lo)/2
		v := r.array[mid]
		outcome := vizspec.CompareOutcome(v, target)
		r.emit(fmt.Sprintf("Check the middle of [%d, %d]: a[%d] = %s", lo, hi, mid, formatValue(v)), 3,
			vizspec.StepState{Pointers: r.pointers(map[string]int{"lo": lo, "mid": mid, "hi": hi}), Range: r.span(lo, hi)},
			[]vizspec.StepEvent{vizspec.CompareEvent{I: mid, J: mid, Outcome: outcome}})

		switch outcome {
		case vizspec.OutcomeEqual:
			r.emit(fmt.Sprintf("Found %s at index %d", formatValue(target), mid), 4,
				vizspec.StepState{Pointers: r.pointers(map[string]int{"mid": mid}), Range: r.span(mid, mid)}, nil)
			return r.spec, nil
		case vizspec.OutcomeLess:
			lo = mid + 1
			r.emit(fmt.Sprintf("%s < %s, discard the left half and continue in [%d, %d]", formatValue(v), formatValue(target), lo, hi), 5,
				vizspec.StepState{Pointers: r.pointers(map[string]int{"lo": lo, "hi": hi}), Range: r.span(lo, hi)}, nil)
		default:
			hi = mid - 1
			r.emit(fmt.Sprintf("%s > %s, discard the right half and continue in [%d, %d]", formatValue(v), formatValue(target), lo, hi), 6,
				vizspec.StepState{Pointers: r.pointers(map[string]int{"lo": lo, "hi": hi}), Range: r.span(lo, hi)}, nil)
		}
	}

	r.emit(fmt.Sprintf("The range is empty, %s is not in the array", formatValue(target)), 7,
		vizspec.StepState{Pointers: r.pointers(map[string]int{"lo": lo, "hi": hi})}, nil)
	return r.spec, nil
}
