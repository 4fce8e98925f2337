package prompt

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Template files embedded at compile time
var (
	//go:embed templates/system.txt
	SystemTemplate string

	//go:embed templates/recursion-rules.txt
	RecursionRules string

	//go:embed templates/request.txt
	RequestTemplate string

	//go:embed templates/repair.txt
	RepairTemplate string
)

// Templates is the set of prompt texts a Builder renders. Fields map to the
// keys of a YAML override file.
type Templates struct {
	System         string `yaml:"system"`
	RecursionRules string `yaml:"recursion_rules"`
	Request        string `yaml:"request"`
	Repair         string `yaml:"repair"`
}

// DefaultTemplates returns the embedded templates.
func DefaultTemplates() Templates {
	return Templates{
		System:         SystemTemplate,
		RecursionRules: RecursionRules,
		Request:        RequestTemplate,
		Repair:         RepairTemplate,
	}
}

// LoadTemplates reads YAML overrides from path on top of the embedded
// defaults. Keys left out of the file keep their default text; unknown keys
// are an error.
func LoadTemplates(path string) (Templates, error) {
	t := DefaultTemplates()
	if path == "" {
		return t, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read prompts file: %w", err)
	}

	var override Templates
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&override); err != nil && !errors.Is(err, io.EOF) {
		return t, fmt.Errorf("parse prompts file %s: %w", path, err)
	}

	if override.System != "" {
		t.System = override.System
	}
	if override.RecursionRules != "" {
		t.RecursionRules = override.RecursionRules
	}
	if override.Request != "" {
		t.Request = override.Request
	}
	if override.Repair != "" {
		t.Repair = override.Repair
	}
	return t, nil
}
