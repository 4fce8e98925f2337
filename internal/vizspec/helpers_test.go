package vizspec

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// linearSpec is a small valid non-recursive spec.
func linearSpec() *VizSpec {
	arr := func() []float64 { return []float64{4, 7, 1} }
	return &VizSpec{
		Version:   Version,
		Algorithm: LinearSearch,
		Title:     "Linear search for 7",
		Code: CodePanel{Lines: []string{
			"for i in 0..n-1:",
			"  if a[i] == target: return i",
			"return -1",
		}},
		Scene: Scene{Components: []Component{
			{ID: "code", Type: ComponentCodeBlock},
			{ID: "cells", Type: ComponentArrayCells, Props: map[string]any{"showIndices": true}},
			{ID: "ptrs", Type: ComponentPointerLabels},
		}},
		Steps: []Step{
			{ID: "s1", Caption: "Start at index 0", ActiveCodeLine: 1,
				State: StepState{Array: arr(), Pointers: map[string]int{"i": 0}}},
			{ID: "s2", Caption: "Compare a[0] with 7", ActiveCodeLine: 2,
				State:  StepState{Array: arr(), Pointers: map[string]int{"i": 0}},
				Events: []StepEvent{CompareEvent{I: 0, J: 0, Outcome: OutcomeLess}}},
			{ID: "s3", Caption: "Found 7 at index 1", ActiveCodeLine: 2,
				State:  StepState{Array: arr(), Pointers: map[string]int{"i": 1}, Range: &Range{L: 1, R: 1}},
				Events: []StepEvent{CompareEvent{I: 1, J: 1, Outcome: OutcomeEqual}}},
		},
	}
}

// frame describes one step of a hand-built recursive trace.
type frame struct {
	call  string
	depth int
	phase Phase
}

// quickFrames is a correct quicksort trace over [2, 1].
func quickFrames() []frame {
	return []frame{
		{"c1", 0, PhaseEnter},
		{"c1", 0, PhaseDivide},
		{"c1", 0, PhaseRecurseLeft},
		{"c2", 1, PhaseEnter},
		{"c2", 1, PhaseBase},
		{"c2", 1, PhaseReturn},
		{"c1", 0, PhaseRecurseRight},
		{"c3", 1, PhaseEnter},
		{"c3", 1, PhaseBase},
		{"c3", 1, PhaseReturn},
		{"c1", 0, PhaseReturn},
	}
}

// mergeFrames is a correct mergesort trace over [2, 1].
func mergeFrames() []frame {
	return []frame{
		{"c1", 0, PhaseEnter},
		{"c1", 0, PhaseDivide},
		{"c1", 0, PhaseRecurseLeft},
		{"c2", 1, PhaseEnter},
		{"c2", 1, PhaseBase},
		{"c2", 1, PhaseReturn},
		{"c1", 0, PhaseRecurseRight},
		{"c3", 1, PhaseEnter},
		{"c3", 1, PhaseBase},
		{"c3", 1, PhaseReturn},
		{"c1", 0, PhaseCombine},
		{"c1", 0, PhaseReturn},
	}
}

// recursiveSpec builds a spec whose steps follow frames. Stacks always agree
// with depth, and divide/combine steps carry partition/merge state.
func recursiveSpec(alg Algorithm, frames []frame) *VizSpec {
	spec := &VizSpec{
		Version:   Version,
		Algorithm: alg,
		Title:     string(alg) + " on [2, 1]",
		Code:      CodePanel{Lines: []string{"sort(lo, hi)", "if lo >= hi: return", "split", "sort left", "sort right", "merge", "return"}},
		Scene: Scene{Components: []Component{
			{ID: "code", Type: ComponentCodeBlock},
			{ID: "bars", Type: ComponentArrayBars},
			{ID: "stack", Type: ComponentStackView},
		}},
		Steps: []Step{},
	}
	for k, f := range frames {
		stack := make([]string, f.depth+1)
		for i := range stack {
			stack[i] = fmt.Sprintf("sort#%d", i)
		}
		st := StepState{
			Array: []float64{2, 1},
			Stack: stack,
			Recursion: &RecursionFrame{
				CallID: f.call, Fn: "sort", Depth: f.depth, Phase: f.phase, Args: "lo, hi",
			},
		}
		if alg == QuickSort && f.phase == PhaseDivide {
			st.Partition = &PartitionState{PivotIndex: 0, Less: []float64{}, Greater: []float64{2}}
		}
		if alg == MergeSort && f.phase == PhaseCombine {
			st.Merge = &MergeState{Left: []float64{2}, Right: []float64{1}, Merged: []float64{1, 2}, WriteRange: &Range{L: 0, R: 1}}
		}
		spec.Steps = append(spec.Steps, Step{
			ID:             fmt.Sprintf("s%d", k+1),
			Caption:        fmt.Sprintf("%s %s", f.call, f.phase),
			ActiveCodeLine: 1,
			State:          st,
		})
	}
	return spec
}

// toMap converts spec into its generic JSON form for mutation.
func toMap(t *testing.T, spec *VizSpec) map[string]any {
	t.Helper()
	data, err := json.Marshal(spec)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func encode(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

// dig walks a generic JSON tree by object keys and array indices and
// returns the object found there.
func dig(t *testing.T, v any, keys ...any) map[string]any {
	t.Helper()
	cur := v
	for _, k := range keys {
		switch key := k.(type) {
		case string:
			m, ok := cur.(map[string]any)
			require.True(t, ok, "expected object at %v", key)
			cur = m[key]
		case int:
			s, ok := cur.([]any)
			require.True(t, ok, "expected array at %v", key)
			cur = s[key]
		}
	}
	m, ok := cur.(map[string]any)
	require.True(t, ok, "expected object at end of path")
	return m
}

func codesOf(issues Issues) string {
	codes := make([]string, 0, len(issues))
	for _, c := range issues.Codes() {
		codes = append(codes, string(c))
	}
	return strings.Join(codes, ",")
}
