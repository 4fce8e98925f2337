package vizspec

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/CodexForgeBR/vizspec/internal/parser"
)

// Validate parses raw model output and validates it. It returns either the
// typed spec with nil issues, or a nil spec with at least one issue. It never
// panics on malformed input.
func Validate(raw string) (*VizSpec, Issues) {
	text := parser.ExtractCandidate(raw)

	v, err := decodeJSON(text)
	if err != nil {
		return nil, Issues{{Code: CodeInvalidJSON, Message: "not valid JSON: " + err.Error()}}
	}

	d := &decoder{}
	spec := d.spec(v)
	if len(d.issues) > 0 {
		return nil, d.issues
	}
	if issues := Check(spec); len(issues) > 0 {
		return nil, issues
	}
	return spec, nil
}

// ValidateFor validates raw and additionally requires the declared algorithm
// to equal want.
func ValidateFor(raw string, want Algorithm) (*VizSpec, Issues) {
	spec, issues := Validate(raw)
	if len(issues) > 0 {
		return nil, issues
	}
	if spec.Algorithm != want {
		return nil, Issues{{
			Code:    CodeAlgorithmMismatch,
			Path:    "algorithm",
			Message: fmt.Sprintf("declared algorithm %q does not match requested %q", spec.Algorithm, want),
		}}
	}
	return spec, nil
}

// ValidateSpec re-checks an already typed spec by round-tripping it through
// its wire form, so values built in code get the same scrutiny as text.
func ValidateSpec(spec *VizSpec, want Algorithm) (*VizSpec, Issues) {
	data, err := spec.JSON()
	if err != nil {
		return nil, Issues{{Code: CodeInvalidJSON, Message: "cannot encode spec: " + err.Error()}}
	}
	return ValidateFor(string(data), want)
}

func decodeJSON(text string) (any, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("empty document")
	}
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected content after the top-level value")
	}
	return v, nil
}
