package vizspec

import "encoding/json"

// EventType tags a StepEvent variant on the wire.
type EventType string

const (
	EventSwap    EventType = "swap"
	EventCompare EventType = "compare"
)

// Outcome is the result of a comparison event.
type Outcome string

const (
	OutcomeLess    Outcome = "lt"
	OutcomeEqual   Outcome = "eq"
	OutcomeGreater Outcome = "gt"
)

// Valid reports whether o is a known outcome.
func (o Outcome) Valid() bool {
	return o == OutcomeLess || o == OutcomeEqual || o == OutcomeGreater
}

// StepEvent is a sealed sum type over the events a step may carry. The only
// implementations are SwapEvent and CompareEvent.
type StepEvent interface {
	Type() EventType
	Indices() (i, j int)
	isStepEvent()
}

// SwapEvent records that positions I and J exchanged values.
type SwapEvent struct {
	I int
	J int
}

func (SwapEvent) Type() EventType       { return EventSwap }
func (e SwapEvent) Indices() (int, int) { return e.I, e.J }
func (SwapEvent) isStepEvent()          {}

// MarshalJSON writes the tagged wire form.
func (e SwapEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type EventType `json:"type"`
		I    int       `json:"i"`
		J    int       `json:"j"`
	}{EventSwap, e.I, e.J})
}

// CompareEvent records a comparison between positions I and J. Outcome is
// optional.
type CompareEvent struct {
	I       int
	J       int
	Outcome Outcome
}

func (CompareEvent) Type() EventType       { return EventCompare }
func (e CompareEvent) Indices() (int, int) { return e.I, e.J }
func (CompareEvent) isStepEvent()          {}

// MarshalJSON writes the tagged wire form, omitting an empty outcome.
func (e CompareEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    EventType `json:"type"`
		I       int       `json:"i"`
		J       int       `json:"j"`
		Outcome Outcome   `json:"outcome,omitempty"`
	}{EventCompare, e.I, e.J, e.Outcome})
}

// CompareOutcome returns the outcome of comparing a with b.
func CompareOutcome(a, b float64) Outcome {
	switch {
	case a < b:
		return OutcomeLess
	case a > b:
		return OutcomeGreater
	default:
		return OutcomeEqual
	}
}
