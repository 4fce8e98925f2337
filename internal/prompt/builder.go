// Package prompt renders the chat transcripts sent to the generator: the
// initial request for a VizSpec and the repair turns that follow a
// validation failure.
package prompt

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/CodexForgeBR/vizspec/internal/ai"
	"github.com/CodexForgeBR/vizspec/internal/vizspec"
)

// maxCandidateRunes bounds how much of a rejected document is echoed back.
const maxCandidateRunes = 24000

// Builder renders messages from a set of templates.
type Builder struct {
	templates Templates
}

// NewBuilder returns a builder over t.
func NewBuilder(t Templates) *Builder {
	return &Builder{templates: t}
}

// System renders the system prompt for alg. Recursive algorithms get the
// call lifecycle rules.
func (b *Builder) System(alg vizspec.Algorithm) string {
	prompt := b.templates.System

	rules := ""
	if alg.IsRecursive() {
		rules = strings.ReplaceAll(b.templates.RecursionRules, "{{ALGORITHM}}", string(alg))
		rules = strings.ReplaceAll(rules, "{{PHASES}}", phaseOrder(alg))
	}
	prompt = strings.ReplaceAll(prompt, "{{ALGORITHM_RULES}}", rules)

	return strings.TrimSpace(prompt)
}

// Request renders the user turn describing question and its normalized input.
func (b *Builder) Request(question string, in vizspec.NormalizedInput) string {
	prompt := b.templates.Request

	prompt = strings.ReplaceAll(prompt, "{{QUESTION}}", strings.TrimSpace(question))
	prompt = strings.ReplaceAll(prompt, "{{ALGORITHM}}", string(in.Algorithm))
	prompt = strings.ReplaceAll(prompt, "{{ARRAY}}", formatArray(in.Array))

	if in.Target != nil {
		prompt = strings.ReplaceAll(prompt, "{{TARGET_LINE}}", "- target: "+formatNumber(*in.Target)+"\n")
	} else {
		prompt = strings.ReplaceAll(prompt, "{{TARGET_LINE}}", "")
	}

	return strings.TrimSpace(prompt)
}

// Initial returns the transcript for the first attempt: system prompt,
// prior conversation, then the request.
func (b *Builder) Initial(question string, history []ai.Message, in vizspec.NormalizedInput) []ai.Message {
	msgs := make([]ai.Message, 0, len(history)+2)
	msgs = append(msgs, ai.Message{Role: ai.RoleSystem, Content: b.System(in.Algorithm)})
	msgs = append(msgs, history...)
	msgs = append(msgs, ai.Message{Role: ai.RoleUser, Content: b.Request(question, in)})
	return msgs
}

// Repair returns the transcript for a repair attempt. It extends the
// initial transcript with the hint bullets, the validator's detail and the
// rejected candidate.
func (b *Builder) Repair(question string, history []ai.Message, in vizspec.NormalizedInput, candidate string, hints []string, detail string) []ai.Message {
	prompt := b.templates.Repair

	bullets := make([]string, len(hints))
	for i, h := range hints {
		bullets[i] = "- " + h
	}
	prompt = strings.ReplaceAll(prompt, "{{HINTS}}", strings.Join(bullets, "\n"))
	prompt = strings.ReplaceAll(prompt, "{{DETAIL}}", strings.TrimSpace(detail))
	prompt = strings.ReplaceAll(prompt, "{{CANDIDATE}}", truncate(strings.TrimSpace(candidate), maxCandidateRunes))

	msgs := b.Initial(question, history, in)
	return append(msgs, ai.Message{Role: ai.RoleUser, Content: strings.TrimSpace(prompt)})
}

func phaseOrder(alg vizspec.Algorithm) string {
	phases := vizspec.RequiredPhases(alg)
	parts := make([]string, len(phases))
	for i, p := range phases {
		parts[i] = string(p)
	}
	return strings.Join(parts, " -> ")
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatArray(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = formatNumber(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max]) + "\n...(truncated)"
}
