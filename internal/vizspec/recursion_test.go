package vizspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecursion_ValidTraces(t *testing.T) {
	tests := []struct {
		alg    Algorithm
		frames []frame
	}{
		{QuickSort, quickFrames()},
		{MergeSort, mergeFrames()},
	}
	for _, tt := range tests {
		t.Run(string(tt.alg), func(t *testing.T) {
			spec, issues := ValidateFor(encode(t, recursiveSpec(tt.alg, tt.frames)), tt.alg)
			require.Empty(t, issues, issues.Error())
			assert.Equal(t, tt.alg, spec.Algorithm)
		})
	}
}

func TestRecursion_DepthJump(t *testing.T) {
	frames := quickFrames()
	frames[1].depth = 1
	frames[2].depth = 5

	_, issues := Validate(encode(t, recursiveSpec(QuickSort, frames)))
	require.True(t, issues.Has(CodeDepthJump), issues.Error())
	assert.Contains(t, issues.Error(), "steps[2].state.recursion.depth: depth jumps from 1 (steps[1]) to 5")
	for _, i := range issues {
		if i.Code == CodeDepthJump {
			assert.Equal(t, CategoryLifecycle, i.Code.Category())
		}
	}
}

func TestRecursion_LifecycleViolations(t *testing.T) {
	tests := []struct {
		name   string
		alg    Algorithm
		build  func() *VizSpec
		code   Code
		detail string
	}{
		{
			name: "first step is not the root enter",
			alg:  QuickSort,
			build: func() *VizSpec {
				return recursiveSpec(QuickSort, quickFrames()[1:])
			},
			code:   CodeBadFirstFrame,
			detail: "first step must be {depth: 0, phase: enter}",
		},
		{
			name: "last step is not the root return",
			alg:  QuickSort,
			build: func() *VizSpec {
				f := quickFrames()
				return recursiveSpec(QuickSort, f[:len(f)-1])
			},
			code:   CodeBadLastFrame,
			detail: "last step must be {depth: 0, phase: return}",
		},
		{
			name: "missing StackView",
			alg:  QuickSort,
			build: func() *VizSpec {
				s := recursiveSpec(QuickSort, quickFrames())
				s.Scene.Components = s.Scene.Components[:2]
				return s
			},
			code:   CodeMissingStackView,
			detail: "require a StackView",
		},
		{
			name: "generic caption",
			alg:  MergeSort,
			build: func() *VizSpec {
				s := recursiveSpec(MergeSort, mergeFrames())
				s.Steps[4].Caption = " recursion "
				return s
			},
			code:   CodeGenericCaption,
			detail: "steps[4].caption",
		},
		{
			name: "missing stack",
			alg:  QuickSort,
			build: func() *VizSpec {
				s := recursiveSpec(QuickSort, quickFrames())
				s.Steps[3].State.Stack = nil
				return s
			},
			code:   CodeMissingStack,
			detail: "steps[3].state.stack",
		},
		{
			name: "missing recursion",
			alg:  QuickSort,
			build: func() *VizSpec {
				s := recursiveSpec(QuickSort, quickFrames())
				s.Steps[3].State.Recursion = nil
				return s
			},
			code:   CodeMissingRecursion,
			detail: "steps[3].state.recursion",
		},
		{
			name: "quicksort divide without partition",
			alg:  QuickSort,
			build: func() *VizSpec {
				s := recursiveSpec(QuickSort, quickFrames())
				s.Steps[1].State.Partition = nil
				return s
			},
			code:   CodeMissingPartition,
			detail: "steps[1].state.partition",
		},
		{
			name: "mergesort combine without merge",
			alg:  MergeSort,
			build: func() *VizSpec {
				s := recursiveSpec(MergeSort, mergeFrames())
				s.Steps[10].State.Merge = nil
				return s
			},
			code:   CodeMissingMerge,
			detail: "steps[10].state.merge",
		},
		{
			name: "base case mixed with divide work",
			alg:  QuickSort,
			build: func() *VizSpec {
				f := quickFrames()
				f[1].phase = PhaseBase
				return recursiveSpec(QuickSort, f)
			},
			code:   CodeBaseCaseMixed,
			detail: `call "c1" has a base phase but also recurse-left, recurse-right`,
		},
		{
			name: "base after return",
			alg:  QuickSort,
			build: func() *VizSpec {
				f := quickFrames()
				f[4].phase, f[5].phase = PhaseReturn, PhaseBase
				return recursiveSpec(QuickSort, f)
			},
			code:   CodeBaseAfterReturn,
			detail: `call "c2" reaches base after return`,
		},
		{
			name: "phases out of order",
			alg:  QuickSort,
			build: func() *VizSpec {
				f := quickFrames()
				f[1].phase, f[2].phase = PhaseRecurseLeft, PhaseDivide
				return recursiveSpec(QuickSort, f)
			},
			code:   CodePhaseOrder,
			detail: "enter -> divide -> recurse-left -> recurse-right -> return",
		},
		{
			name: "missing required phase",
			alg:  QuickSort,
			build: func() *VizSpec {
				f := quickFrames()
				f = append(f[:6], f[7:]...)
				return recursiveSpec(QuickSort, f)
			},
			code:   CodeMissingPhase,
			detail: `call "c1" is missing phase recurse-right`,
		},
		{
			name: "mergesort call without combine",
			alg:  MergeSort,
			build: func() *VizSpec {
				f := mergeFrames()
				f = append(f[:10], f[11:]...)
				return recursiveSpec(MergeSort, f)
			},
			code:   CodeMissingPhase,
			detail: `call "c1" is missing phase combine`,
		},
		{
			name: "reused call id",
			alg:  QuickSort,
			build: func() *VizSpec {
				f := quickFrames()
				for i := 7; i <= 9; i++ {
					f[i].call = "c2"
				}
				return recursiveSpec(QuickSort, f)
			},
			code:   CodeRepeatedPhase,
			detail: `call "c2" has 2 enter phases`,
		},
		{
			name: "call never returns",
			alg:  QuickSort,
			build: func() *VizSpec {
				f := quickFrames()
				f = append(f[:5], f[6:]...)
				return recursiveSpec(QuickSort, f)
			},
			code:   CodeCallMissingReturn,
			detail: `call "c2" never returns`,
		},
		{
			name: "call starts without enter",
			alg:  QuickSort,
			build: func() *VizSpec {
				f := quickFrames()
				f[3].phase = PhaseBase
				f[4].phase = PhaseBase
				return recursiveSpec(QuickSort, f)
			},
			code:   CodeCallMissingEnter,
			detail: `call "c2" starts with base`,
		},
		{
			name: "descent without recurse",
			alg:  QuickSort,
			build: func() *VizSpec {
				f := quickFrames()
				f[1].depth = 1
				return recursiveSpec(QuickSort, f)
			},
			code:   CodeBadDescent,
			detail: "depth increases after phase enter",
		},
		{
			name: "ascent without return",
			alg:  QuickSort,
			build: func() *VizSpec {
				f := quickFrames()
				f[5].phase = PhaseBase
				return recursiveSpec(QuickSort, f)
			},
			code:   CodeBadAscent,
			detail: "depth decreases after phase base",
		},
		{
			name: "depth disagrees with stack",
			alg:  MergeSort,
			build: func() *VizSpec {
				s := recursiveSpec(MergeSort, mergeFrames())
				s.Steps[2].State.Stack = append(s.Steps[2].State.Stack, "extra")
				return s
			},
			code:   CodeDepthStackMismatch,
			detail: "steps[2].state.recursion.depth",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, issues := ValidateFor(encode(t, tt.build()), tt.alg)
			assert.Nil(t, spec)
			require.True(t, issues.Has(tt.code), "want %s, got %s", tt.code, codesOf(issues))
			assert.Contains(t, issues.Error(), tt.detail)
		})
	}
}

func TestRecursion_SkippedForIterativeAlgorithms(t *testing.T) {
	spec := linearSpec()
	spec.Steps[1].Caption = "Recursion"
	_, issues := Validate(encode(t, spec))
	assert.Empty(t, issues, issues.Error())
}

func TestRequiredPhases(t *testing.T) {
	assert.Equal(t, []Phase{PhaseEnter, PhaseDivide, PhaseRecurseLeft, PhaseRecurseRight, PhaseReturn}, RequiredPhases(QuickSort))
	assert.Equal(t, []Phase{PhaseEnter, PhaseDivide, PhaseRecurseLeft, PhaseRecurseRight, PhaseCombine, PhaseReturn}, RequiredPhases(MergeSort))
	assert.Nil(t, RequiredPhases(BinarySearch))
}
