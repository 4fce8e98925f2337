package vizspec

import (
	"encoding/json"
	"math"
	"sort"
	"strings"
)

// decoder walks a generic JSON tree (decoded with UseNumber) and builds the
// typed VizSpec, accumulating every structural issue it meets. It never
// stops at the first failure.
type decoder struct {
	issues Issues
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	default:
		return "unknown"
	}
}

// object asserts v is an object whose keys are drawn from required and
// optional, and that every required key is present.
func (d *decoder) object(path string, v any, required, optional []string) (map[string]any, bool) {
	if v == nil {
		d.issues.add(CodeNull, path, "null is not allowed")
		return nil, false
	}
	m, ok := v.(map[string]any)
	if !ok {
		d.issues.add(CodeWrongType, path, "expected object, got %s", kindOf(v))
		return nil, false
	}

	allowed := make(map[string]bool, len(required)+len(optional))
	for _, k := range required {
		allowed[k] = true
	}
	for _, k := range optional {
		allowed[k] = true
	}

	var unknown []string
	for k := range m {
		if !allowed[k] {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	for _, k := range unknown {
		d.issues.add(CodeUnknownField, joinPath(path, k), "unknown field %q", k)
	}

	for _, k := range required {
		if _, ok := m[k]; !ok {
			d.issues.add(CodeMissingField, joinPath(path, k), "required field is missing")
		}
	}
	return m, true
}

// mapping asserts v is an object with arbitrary non-empty keys, returned in
// sorted order.
func (d *decoder) mapping(path string, v any) (map[string]any, []string, bool) {
	if v == nil {
		d.issues.add(CodeNull, path, "null is not allowed")
		return nil, nil, false
	}
	m, ok := v.(map[string]any)
	if !ok {
		d.issues.add(CodeWrongType, path, "expected object, got %s", kindOf(v))
		return nil, nil, false
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		if strings.TrimSpace(k) == "" {
			d.issues.add(CodeLength, path, "keys must not be empty")
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return m, keys, true
}

func (d *decoder) str(path string, v any) (string, bool) {
	switch s := v.(type) {
	case nil:
		d.issues.add(CodeNull, path, "null is not allowed")
	case string:
		return s, true
	default:
		d.issues.add(CodeWrongType, path, "expected string, got %s", kindOf(v))
	}
	return "", false
}

// text is a non-empty string of at most max runes (max <= 0 means unbounded).
func (d *decoder) text(path string, v any, max int) (string, bool) {
	s, ok := d.str(path, v)
	if !ok {
		return "", false
	}
	if strings.TrimSpace(s) == "" {
		d.issues.add(CodeLength, path, "must not be empty")
		return s, false
	}
	if max > 0 && runeLen(s) > max {
		d.issues.add(CodeLength, path, "must be at most %d characters, got %d", max, runeLen(s))
		return s, false
	}
	return s, true
}

func (d *decoder) number(path string, v any) (float64, bool) {
	switch n := v.(type) {
	case nil:
		d.issues.add(CodeNull, path, "null is not allowed")
	case json.Number:
		f, err := n.Float64()
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			d.issues.add(CodeNonFinite, path, "number %s is not finite", n.String())
			return 0, false
		}
		return f, true
	default:
		d.issues.add(CodeWrongType, path, "expected number, got %s", kindOf(v))
	}
	return 0, false
}

// integer accepts any integral JSON number (so 3 and 3.0 both decode to 3).
func (d *decoder) integer(path string, v any) (int, bool) {
	f, ok := d.number(path, v)
	if !ok {
		return 0, false
	}
	if f != math.Trunc(f) {
		d.issues.add(CodeNotInteger, path, "expected integer, got %v", f)
		return 0, false
	}
	if math.Abs(f) > math.MaxInt32 {
		d.issues.add(CodeOutOfRange, path, "integer %v is out of range", f)
		return 0, false
	}
	return int(f), true
}

func (d *decoder) list(path string, v any, min, max int) ([]any, bool) {
	if v == nil {
		d.issues.add(CodeNull, path, "null is not allowed")
		return nil, false
	}
	items, ok := v.([]any)
	if !ok {
		d.issues.add(CodeWrongType, path, "expected array, got %s", kindOf(v))
		return nil, false
	}
	if len(items) < min {
		d.issues.add(CodeLength, path, "must contain at least %d item(s), got %d", min, len(items))
	}
	if max > 0 && len(items) > max {
		d.issues.add(CodeLength, path, "must contain at most %d items, got %d", max, len(items))
	}
	return items, true
}

// numbers decodes a list of finite numbers. The result is never nil so the
// field re-encodes as [] rather than null.
func (d *decoder) numbers(path string, v any, min, max int) []float64 {
	out := []float64{}
	items, ok := d.list(path, v, min, max)
	if !ok {
		return out
	}
	for i, item := range items {
		if f, ok := d.number(indexPath(path, i), item); ok {
			out = append(out, f)
		}
	}
	return out
}

func (d *decoder) spec(v any) *VizSpec {
	m, ok := d.object("", v, []string{"version", "algorithm", "title", "code", "scene", "steps"}, nil)
	if !ok {
		return nil
	}
	spec := &VizSpec{}

	if raw, ok := m["version"]; ok {
		if s, ok := d.str("version", raw); ok {
			if s != Version {
				d.issues.add(CodeInvalidValue, "version", "must be %q, got %q", Version, s)
			}
			spec.Version = s
		}
	}
	if raw, ok := m["algorithm"]; ok {
		if s, ok := d.str("algorithm", raw); ok {
			spec.Algorithm = Algorithm(s)
			if !spec.Algorithm.Valid() {
				d.issues.add(CodeInvalidValue, "algorithm", "unknown algorithm %q", s)
			}
		}
	}
	if raw, ok := m["title"]; ok {
		spec.Title, _ = d.text("title", raw, MaxTitleLength)
	}
	if raw, ok := m["code"]; ok {
		spec.Code = d.code("code", raw)
	}
	if raw, ok := m["scene"]; ok {
		spec.Scene = d.scene("scene", raw)
	}
	spec.Steps = []Step{}
	if raw, ok := m["steps"]; ok {
		items, _ := d.list("steps", raw, 1, MaxSteps)
		for i, item := range items {
			spec.Steps = append(spec.Steps, d.step(indexPath("steps", i), item))
		}
	}
	return spec
}

func (d *decoder) code(path string, v any) CodePanel {
	panel := CodePanel{Lines: []string{}}
	m, ok := d.object(path, v, []string{"lines"}, nil)
	if !ok {
		return panel
	}
	if raw, ok := m["lines"]; ok {
		p := joinPath(path, "lines")
		items, _ := d.list(p, raw, 1, MaxCodeLines)
		for i, item := range items {
			line, _ := d.text(indexPath(p, i), item, 0)
			panel.Lines = append(panel.Lines, line)
		}
	}
	return panel
}

func (d *decoder) scene(path string, v any) Scene {
	scene := Scene{Components: []Component{}}
	m, ok := d.object(path, v, []string{"components"}, nil)
	if !ok {
		return scene
	}
	raw, ok := m["components"]
	if !ok {
		return scene
	}
	p := joinPath(path, "components")
	items, ok := d.list(p, raw, 1, 0)
	if !ok {
		return scene
	}

	seenID := make(map[string]bool, len(items))
	seenType := make(map[ComponentType]bool, len(items))
	for i, item := range items {
		cp := indexPath(p, i)
		c, ok := d.component(cp, item)
		if !ok {
			continue
		}
		if seenID[c.ID] {
			d.issues.add(CodeDuplicateComponentID, joinPath(cp, "id"), "duplicate component id %q", c.ID)
		}
		if seenType[c.Type] {
			d.issues.add(CodeDuplicateComponentType, joinPath(cp, "type"), "component type %s is declared more than once", c.Type)
		}
		seenID[c.ID] = true
		seenType[c.Type] = true
		scene.Components = append(scene.Components, c)
	}
	if !seenType[ComponentCodeBlock] {
		d.issues.add(CodeMissingCodeBlock, p, "exactly one CodeBlock component is required")
	}
	return scene
}

func (d *decoder) component(path string, v any) (Component, bool) {
	var c Component
	m, ok := d.object(path, v, []string{"id", "type"}, []string{"props"})
	if !ok {
		return c, false
	}
	valid := true
	if raw, ok := m["id"]; ok {
		if c.ID, ok = d.text(joinPath(path, "id"), raw, 0); !ok {
			valid = false
		}
	} else {
		valid = false
	}
	if raw, ok := m["type"]; ok {
		s, ok := d.str(joinPath(path, "type"), raw)
		c.Type = ComponentType(s)
		if ok && !c.Type.Valid() {
			d.issues.add(CodeInvalidValue, joinPath(path, "type"), "unrecognized component type %q", s)
			valid = false
		} else if !ok {
			valid = false
		}
	} else {
		valid = false
	}
	if raw, ok := m["props"]; ok {
		c.Props = d.props(joinPath(path, "props"), raw)
	}
	return c, valid
}

// props keeps only primitive values. Nested objects and arrays are rejected
// because per-frame data must live in steps, not in the scene.
func (d *decoder) props(path string, v any) map[string]any {
	m, keys, ok := d.mapping(path, v)
	if !ok || len(keys) == 0 {
		return nil
	}
	out := make(map[string]any, len(keys))
	for _, k := range keys {
		p := joinPath(path, k)
		switch val := m[k].(type) {
		case nil:
			d.issues.add(CodeNull, p, "null is not allowed")
		case string, bool:
			out[k] = val
		case json.Number:
			if f, ok := d.number(p, val); ok {
				out[k] = f
			}
		default:
			d.issues.add(CodePropsNonPrimitive, p, "props value must be a string, number or boolean, got %s", kindOf(val))
		}
	}
	return out
}

func (d *decoder) step(path string, v any) Step {
	var s Step
	m, ok := d.object(path, v, []string{"id", "caption", "activeCodeLine", "state"}, []string{"events"})
	if !ok {
		return s
	}
	if raw, ok := m["id"]; ok {
		s.ID, _ = d.text(joinPath(path, "id"), raw, 0)
	}
	if raw, ok := m["caption"]; ok {
		s.Caption, _ = d.text(joinPath(path, "caption"), raw, 0)
	}
	if raw, ok := m["activeCodeLine"]; ok {
		p := joinPath(path, "activeCodeLine")
		if n, ok := d.integer(p, raw); ok {
			if n < 1 {
				d.issues.add(CodeOutOfRange, p, "must be at least 1, got %d", n)
			}
			s.ActiveCodeLine = n
		}
	}
	if raw, ok := m["state"]; ok {
		s.State = d.state(joinPath(path, "state"), raw)
	}
	if raw, ok := m["events"]; ok {
		p := joinPath(path, "events")
		items, _ := d.list(p, raw, 0, MaxEvents)
		for i, item := range items {
			if e := d.event(indexPath(p, i), item); e != nil {
				s.Events = append(s.Events, e)
			}
		}
	}
	return s
}

func (d *decoder) state(path string, v any) StepState {
	st := StepState{Array: []float64{}}
	m, ok := d.object(path, v, []string{"array"},
		[]string{"pointers", "range", "stack", "recursion", "partition", "merge"})
	if !ok {
		return st
	}
	if raw, ok := m["array"]; ok {
		st.Array = d.numbers(joinPath(path, "array"), raw, 1, MaxArrayLength)
	}
	if raw, ok := m["pointers"]; ok {
		p := joinPath(path, "pointers")
		if pm, keys, ok := d.mapping(p, raw); ok && len(keys) > 0 {
			st.Pointers = make(map[string]int, len(keys))
			for _, k := range keys {
				if n, ok := d.integer(joinPath(p, k), pm[k]); ok {
					st.Pointers[k] = n
				}
			}
		}
	}
	if raw, ok := m["range"]; ok {
		st.Range = d.rangeValue(joinPath(path, "range"), raw)
	}
	if raw, ok := m["stack"]; ok {
		p := joinPath(path, "stack")
		items, ok := d.list(p, raw, 0, MaxStackFrames)
		if ok {
			st.Stack = make([]string, 0, len(items))
		}
		for i, item := range items {
			if frame, ok := d.str(indexPath(p, i), item); ok {
				st.Stack = append(st.Stack, frame)
			}
		}
	}
	if raw, ok := m["recursion"]; ok {
		st.Recursion = d.recursion(joinPath(path, "recursion"), raw)
	}
	if raw, ok := m["partition"]; ok {
		st.Partition = d.partition(joinPath(path, "partition"), raw)
	}
	if raw, ok := m["merge"]; ok {
		st.Merge = d.merge(joinPath(path, "merge"), raw)
	}
	return st
}

func (d *decoder) rangeValue(path string, v any) *Range {
	m, ok := d.object(path, v, []string{"l", "r"}, nil)
	if !ok {
		return nil
	}
	r := &Range{}
	if raw, ok := m["l"]; ok {
		r.L, _ = d.integer(joinPath(path, "l"), raw)
	}
	if raw, ok := m["r"]; ok {
		r.R, _ = d.integer(joinPath(path, "r"), raw)
	}
	return r
}

func (d *decoder) recursion(path string, v any) *RecursionFrame {
	m, ok := d.object(path, v, []string{"callId", "fn", "depth", "phase", "args"}, []string{"parentCallId"})
	if !ok {
		return nil
	}
	f := &RecursionFrame{}
	if raw, ok := m["callId"]; ok {
		f.CallID, _ = d.text(joinPath(path, "callId"), raw, 0)
	}
	if raw, ok := m["parentCallId"]; ok {
		f.ParentCallID, _ = d.text(joinPath(path, "parentCallId"), raw, 0)
	}
	if raw, ok := m["fn"]; ok {
		f.Fn, _ = d.text(joinPath(path, "fn"), raw, 0)
	}
	if raw, ok := m["depth"]; ok {
		p := joinPath(path, "depth")
		if n, ok := d.integer(p, raw); ok {
			if n < 0 {
				d.issues.add(CodeOutOfRange, p, "depth must be non-negative, got %d", n)
			}
			f.Depth = n
		}
	}
	if raw, ok := m["phase"]; ok {
		p := joinPath(path, "phase")
		if s, ok := d.str(p, raw); ok {
			f.Phase = Phase(s)
			if !f.Phase.Valid() {
				d.issues.add(CodeInvalidValue, p, "unknown phase %q", s)
			}
		}
	}
	if raw, ok := m["args"]; ok {
		f.Args, _ = d.str(joinPath(path, "args"), raw)
	}
	return f
}

func (d *decoder) partition(path string, v any) *PartitionState {
	m, ok := d.object(path, v, []string{"pivotIndex", "less", "greater"}, nil)
	if !ok {
		return nil
	}
	ps := &PartitionState{Less: []float64{}, Greater: []float64{}}
	if raw, ok := m["pivotIndex"]; ok {
		ps.PivotIndex, _ = d.integer(joinPath(path, "pivotIndex"), raw)
	}
	if raw, ok := m["less"]; ok {
		ps.Less = d.numbers(joinPath(path, "less"), raw, 0, MaxBufferLen)
	}
	if raw, ok := m["greater"]; ok {
		ps.Greater = d.numbers(joinPath(path, "greater"), raw, 0, MaxBufferLen)
	}
	return ps
}

func (d *decoder) merge(path string, v any) *MergeState {
	m, ok := d.object(path, v, []string{"left", "right", "merged"}, []string{"writeRange"})
	if !ok {
		return nil
	}
	ms := &MergeState{Left: []float64{}, Right: []float64{}, Merged: []float64{}}
	if raw, ok := m["left"]; ok {
		ms.Left = d.numbers(joinPath(path, "left"), raw, 0, MaxBufferLen)
	}
	if raw, ok := m["right"]; ok {
		ms.Right = d.numbers(joinPath(path, "right"), raw, 0, MaxBufferLen)
	}
	if raw, ok := m["merged"]; ok {
		ms.Merged = d.numbers(joinPath(path, "merged"), raw, 0, MaxBufferLen)
	}
	if raw, ok := m["writeRange"]; ok {
		ms.WriteRange = d.rangeValue(joinPath(path, "writeRange"), raw)
	}
	return ms
}

func (d *decoder) event(path string, v any) StepEvent {
	if v == nil {
		d.issues.add(CodeNull, path, "null is not allowed")
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		d.issues.add(CodeWrongType, path, "expected object, got %s", kindOf(v))
		return nil
	}
	raw, ok := m["type"]
	if !ok {
		d.issues.add(CodeMissingField, joinPath(path, "type"), "required field is missing")
		return nil
	}
	tag, ok := d.str(joinPath(path, "type"), raw)
	if !ok {
		return nil
	}

	switch EventType(tag) {
	case EventSwap:
		if _, ok := d.object(path, v, []string{"type", "i", "j"}, nil); !ok {
			return nil
		}
		i, j := d.eventIndices(path, m)
		return SwapEvent{I: i, J: j}
	case EventCompare:
		if _, ok := d.object(path, v, []string{"type", "i", "j"}, []string{"outcome"}); !ok {
			return nil
		}
		i, j := d.eventIndices(path, m)
		e := CompareEvent{I: i, J: j}
		if raw, ok := m["outcome"]; ok {
			p := joinPath(path, "outcome")
			if s, ok := d.str(p, raw); ok {
				e.Outcome = Outcome(s)
				if !e.Outcome.Valid() {
					d.issues.add(CodeInvalidValue, p, "unknown outcome %q", s)
				}
			}
		}
		return e
	default:
		d.issues.add(CodeInvalidValue, joinPath(path, "type"), "unknown event type %q", tag)
		return nil
	}
}

func (d *decoder) eventIndices(path string, m map[string]any) (int, int) {
	var i, j int
	if raw, ok := m["i"]; ok {
		i, _ = d.integer(joinPath(path, "i"), raw)
	}
	if raw, ok := m["j"]; ok {
		j, _ = d.integer(joinPath(path, "j"), raw)
	}
	return i, j
}
