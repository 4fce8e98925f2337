// Package vizspec defines the arrays-visualization document (VizSpec) and
// the validator that decides whether an untrusted, model-generated document
// is a consistent step-by-step trace of a sorting or searching algorithm.
//
// Validation runs in two passes. The structural decoder turns raw JSON into
// a typed tree under a closed-world schema; the semantic pass then walks the
// whole tree and checks cross-field invariants (index bounds, code line
// references, recursion call lifecycle). Every violation is reported as an
// Issue with a field path and a machine-readable Code.
package vizspec

import (
	"encoding/json"
	"unicode/utf8"
)

// Document limits.
const (
	Version = "1.0"

	MaxTitleLength = 140
	MaxCodeLines   = 40
	MaxSteps       = 300
	MaxArrayLength = 32
	MaxStackFrames = 128
	MaxEvents      = 48
	MaxBufferLen   = 32
)

// Algorithm identifies the algorithm a VizSpec walks through.
type Algorithm string

const (
	LinearSearch Algorithm = "linear-search"
	BinarySearch Algorithm = "binary-search"
	QuickSort    Algorithm = "quicksort"
	MergeSort    Algorithm = "mergesort"
)

// Algorithms lists every supported algorithm in a stable order.
var Algorithms = []Algorithm{LinearSearch, BinarySearch, QuickSort, MergeSort}

// Valid reports whether a is one of the supported algorithms.
func (a Algorithm) Valid() bool {
	for _, known := range Algorithms {
		if a == known {
			return true
		}
	}
	return false
}

// IsRecursive reports whether specs for a must carry recursion metadata.
func (a Algorithm) IsRecursive() bool {
	return a == QuickSort || a == MergeSort
}

// ComponentType is one of the closed set of visual widget kinds a scene may declare.
type ComponentType string

const (
	ComponentCodeBlock      ComponentType = "CodeBlock"
	ComponentArrayBars      ComponentType = "ArrayBars"
	ComponentArrayCells     ComponentType = "ArrayCells"
	ComponentPointerLabels  ComponentType = "PointerLabels"
	ComponentRangeHighlight ComponentType = "RangeHighlight"
	ComponentStackView      ComponentType = "StackView"
	ComponentCallTree       ComponentType = "CallTree"
	ComponentPartitionView  ComponentType = "PartitionView"
	ComponentMergeView      ComponentType = "MergeView"
	ComponentEventLog       ComponentType = "EventLog"
	ComponentCaptionPanel   ComponentType = "CaptionPanel"
	ComponentLegend         ComponentType = "Legend"
)

// ComponentTypes is the full component vocabulary.
var ComponentTypes = []ComponentType{
	ComponentCodeBlock,
	ComponentArrayBars,
	ComponentArrayCells,
	ComponentPointerLabels,
	ComponentRangeHighlight,
	ComponentStackView,
	ComponentCallTree,
	ComponentPartitionView,
	ComponentMergeView,
	ComponentEventLog,
	ComponentCaptionPanel,
	ComponentLegend,
}

// Valid reports whether t belongs to the component vocabulary.
func (t ComponentType) Valid() bool {
	for _, known := range ComponentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Phase is one stage of a recursive call's lifecycle.
type Phase string

const (
	PhaseEnter        Phase = "enter"
	PhaseBase         Phase = "base"
	PhaseDivide       Phase = "divide"
	PhaseRecurseLeft  Phase = "recurse-left"
	PhaseRecurseRight Phase = "recurse-right"
	PhaseCombine      Phase = "combine"
	PhaseReturn       Phase = "return"
)

// Phases lists every lifecycle phase in canonical order.
var Phases = []Phase{
	PhaseEnter, PhaseBase, PhaseDivide, PhaseRecurseLeft, PhaseRecurseRight, PhaseCombine, PhaseReturn,
}

// Valid reports whether p is a known phase.
func (p Phase) Valid() bool {
	for _, known := range Phases {
		if p == known {
			return true
		}
	}
	return false
}

// VizSpec is the root visualization document.
type VizSpec struct {
	Version   string    `json:"version"`
	Algorithm Algorithm `json:"algorithm"`
	Title     string    `json:"title"`
	Code      CodePanel `json:"code"`
	Scene     Scene     `json:"scene"`
	Steps     []Step    `json:"steps"`
}

// CodePanel holds the pseudocode shown next to the animation. Steps refer
// to its lines by 1-based number.
type CodePanel struct {
	Lines []string `json:"lines"`
}

// Scene is the static render manifest. It never carries per-frame data.
type Scene struct {
	Components []Component `json:"components"`
}

// Has reports whether the scene declares a component of type t.
func (s Scene) Has(t ComponentType) bool {
	for _, c := range s.Components {
		if c.Type == t {
			return true
		}
	}
	return false
}

// Component declares one visual widget. Props values are limited to
// strings, float64 numbers and booleans.
type Component struct {
	ID    string         `json:"id"`
	Type  ComponentType  `json:"type"`
	Props map[string]any `json:"props,omitempty"`
}

// Step is one frame of the timeline.
type Step struct {
	ID             string      `json:"id"`
	Caption        string      `json:"caption"`
	ActiveCodeLine int         `json:"activeCodeLine"`
	State          StepState   `json:"state"`
	Events         []StepEvent `json:"events,omitempty"`
}

// StepState is the authoritative snapshot for one step. Every index-valued
// field refers into Array.
type StepState struct {
	Array     []float64       `json:"array"`
	Pointers  map[string]int  `json:"pointers,omitempty"`
	Range     *Range          `json:"range,omitempty"`
	Stack     []string        `json:"stack,omitempty"`
	Recursion *RecursionFrame `json:"recursion,omitempty"`
	Partition *PartitionState `json:"partition,omitempty"`
	Merge     *MergeState     `json:"merge,omitempty"`
}

// Range is an inclusive index range.
type Range struct {
	L int `json:"l"`
	R int `json:"r"`
}

// RecursionFrame identifies the logical call a step belongs to. All steps of
// one invocation share a CallID.
type RecursionFrame struct {
	CallID       string `json:"callId"`
	ParentCallID string `json:"parentCallId,omitempty"`
	Fn           string `json:"fn"`
	Depth        int    `json:"depth"`
	Phase        Phase  `json:"phase"`
	Args         string `json:"args"`
}

// PartitionState describes a quicksort partition around PivotIndex.
type PartitionState struct {
	PivotIndex int       `json:"pivotIndex"`
	Less       []float64 `json:"less"`
	Greater    []float64 `json:"greater"`
}

// MergeState describes a mergesort combine step.
type MergeState struct {
	Left       []float64 `json:"left"`
	Right      []float64 `json:"right"`
	Merged     []float64 `json:"merged"`
	WriteRange *Range    `json:"writeRange,omitempty"`
}

// JSON encodes spec in its wire shape.
func (s *VizSpec) JSON() ([]byte, error) {
	return json.Marshal(s)
}

// IndentedJSON encodes spec for humans.
func (s *VizSpec) IndentedJSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
