package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodexForgeBR/vizspec/internal/ai"
	"github.com/CodexForgeBR/vizspec/internal/vizspec"
)

func mustInput(t *testing.T, alg vizspec.Algorithm, arr []float64, target *float64) vizspec.NormalizedInput {
	t.Helper()
	in, err := vizspec.NewNormalizedInput(alg, arr, target)
	require.NoError(t, err)
	return in
}

// TestTemplatesLoad verifies that all template files are loaded via go:embed
// and carry their placeholders.
func TestTemplatesLoad(t *testing.T) {
	tests := []struct {
		name     string
		template string
		markers  []string
	}{
		{"SystemTemplate", SystemTemplate, []string{"{{ALGORITHM_RULES}}", "Never use null", "CodeBlock"}},
		{"RecursionRules", RecursionRules, []string{"{{ALGORITHM}}", "{{PHASES}}", "StackView"}},
		{"RequestTemplate", RequestTemplate, []string{"{{QUESTION}}", "{{ALGORITHM}}", "{{ARRAY}}", "{{TARGET_LINE}}"}},
		{"RepairTemplate", RepairTemplate, []string{"{{HINTS}}", "{{DETAIL}}", "{{CANDIDATE}}"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotEmpty(t, tt.template)
			for _, m := range tt.markers {
				assert.Contains(t, tt.template, m)
			}
		})
	}
}

func TestBuilder_System(t *testing.T) {
	b := NewBuilder(DefaultTemplates())

	quick := b.System(vizspec.QuickSort)
	assert.Contains(t, quick, "RECURSION RULES (quicksort is recursive)")
	assert.Contains(t, quick, "enter -> divide -> recurse-left -> recurse-right -> return")
	assert.NotContains(t, quick, "{{")

	merge := b.System(vizspec.MergeSort)
	assert.Contains(t, merge, "recurse-right -> combine -> return")

	linear := b.System(vizspec.LinearSearch)
	assert.NotContains(t, linear, "RECURSION RULES")
	assert.NotContains(t, linear, "{{")
}

func TestBuilder_Request(t *testing.T) {
	b := NewBuilder(DefaultTemplates())
	target := 7.0

	got := b.Request("  where is 7?  ", mustInput(t, vizspec.LinearSearch, []float64{4, 7, 1.5}, &target))
	assert.Contains(t, got, "where is 7?")
	assert.Contains(t, got, "- algorithm: linear-search")
	assert.Contains(t, got, "- array: [4, 7, 1.5]")
	assert.Contains(t, got, "- target: 7")
	assert.NotContains(t, got, "{{")

	got = b.Request("sort it", mustInput(t, vizspec.QuickSort, []float64{2, 1}, nil))
	assert.NotContains(t, got, "target")
}

func TestBuilder_Initial(t *testing.T) {
	b := NewBuilder(DefaultTemplates())
	history := []ai.Message{
		{Role: ai.RoleUser, Content: "hi"},
		{Role: ai.RoleAssistant, Content: "hello"},
	}
	msgs := b.Initial("sort [2, 1]", history, mustInput(t, vizspec.MergeSort, []float64{2, 1}, nil))

	require.Len(t, msgs, 4)
	assert.Equal(t, ai.RoleSystem, msgs[0].Role)
	assert.Equal(t, history, msgs[1:3])
	assert.Equal(t, ai.RoleUser, msgs[3].Role)
	assert.Contains(t, msgs[3].Content, "sort [2, 1]")
}

func TestBuilder_Repair(t *testing.T) {
	b := NewBuilder(DefaultTemplates())
	in := mustInput(t, vizspec.QuickSort, []float64{2, 1}, nil)

	msgs := b.Repair("sort", nil, in, `{"version":"1.0"}`,
		[]string{"Use depth changes of at most 1.", "Add a StackView."},
		"steps[2].state.recursion.depth: depth jumps from 1 (steps[1]) to 5")

	require.Len(t, msgs, 3)
	last := msgs[2]
	assert.Equal(t, ai.RoleUser, last.Role)
	assert.Contains(t, last.Content, "- Use depth changes of at most 1.\n- Add a StackView.")
	assert.Contains(t, last.Content, "depth jumps from 1")
	assert.Contains(t, last.Content, `{"version":"1.0"}`)
	assert.NotContains(t, last.Content, "{{")
}

func TestBuilder_RepairTruncatesLongCandidates(t *testing.T) {
	b := NewBuilder(DefaultTemplates())
	in := mustInput(t, vizspec.QuickSort, []float64{2, 1}, nil)
	candidate := strings.Repeat("x", maxCandidateRunes+100)

	msgs := b.Repair("sort", nil, in, candidate, nil, "bad")
	last := msgs[len(msgs)-1].Content
	assert.Contains(t, last, "...(truncated)")
	assert.NotContains(t, last, strings.Repeat("x", maxCandidateRunes+1))
}

func TestLoadTemplates(t *testing.T) {
	t.Run("empty path uses defaults", func(t *testing.T) {
		got, err := LoadTemplates("")
		require.NoError(t, err)
		assert.Equal(t, DefaultTemplates(), got)
	})

	t.Run("partial override", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "prompts.yaml")
		require.NoError(t, os.WriteFile(path, []byte("repair: |\n  Try again.\n  {{HINTS}}\n"), 0o644))

		got, err := LoadTemplates(path)
		require.NoError(t, err)
		assert.Equal(t, "Try again.\n{{HINTS}}\n", got.Repair)
		assert.Equal(t, SystemTemplate, got.System)

		msgs := NewBuilder(got).Repair("q", nil, mustInput(t, vizspec.QuickSort, []float64{1}, nil), "c", []string{"h"}, "d")
		assert.Equal(t, "Try again.\n- h", msgs[len(msgs)-1].Content)
	})

	t.Run("unknown key", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "prompts.yaml")
		require.NoError(t, os.WriteFile(path, []byte("greeting: hi\n"), 0o644))
		_, err := LoadTemplates(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse prompts file")
	})

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "prompts.yaml")
		require.NoError(t, os.WriteFile(path, nil, 0o644))
		got, err := LoadTemplates(path)
		require.NoError(t, err)
		assert.Equal(t, DefaultTemplates(), got)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadTemplates(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read prompts file")
	})
}
