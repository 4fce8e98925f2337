package vizspec

import (
	"fmt"
	"math"
	"slices"
)

// NormalizedInput is the structured request a visualization is generated
// for. It is treated as immutable: consumers that need to mutate the array
// work on Clone().
type NormalizedInput struct {
	Algorithm Algorithm
	Array     []float64
	Target    *float64
}

// NewNormalizedInput checks the request invariants: a known algorithm,
// 1..MaxArrayLength finite values, a target for searches and an ascending
// array for binary search. The array is copied.
func NewNormalizedInput(alg Algorithm, array []float64, target *float64) (NormalizedInput, error) {
	if !alg.Valid() {
		return NormalizedInput{}, fmt.Errorf("unknown algorithm %q", alg)
	}
	if len(array) == 0 || len(array) > MaxArrayLength {
		return NormalizedInput{}, fmt.Errorf("array must have 1 to %d elements, got %d", MaxArrayLength, len(array))
	}
	for i, v := range array {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NormalizedInput{}, fmt.Errorf("array[%d] is not finite", i)
		}
	}
	if alg == LinearSearch || alg == BinarySearch {
		if target == nil {
			return NormalizedInput{}, fmt.Errorf("%s requires a target", alg)
		}
		if math.IsNaN(*target) || math.IsInf(*target, 0) {
			return NormalizedInput{}, fmt.Errorf("target is not finite")
		}
	}
	if alg == BinarySearch && !slices.IsSorted(array) {
		return NormalizedInput{}, fmt.Errorf("binary-search requires an ascending array")
	}

	in := NormalizedInput{Algorithm: alg, Array: slices.Clone(array)}
	if target != nil {
		t := *target
		in.Target = &t
	}
	return in, nil
}

// Clone returns a copy of the input array.
func (in NormalizedInput) Clone() []float64 {
	return slices.Clone(in.Array)
}
