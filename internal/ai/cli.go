package ai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/CodexForgeBR/vizspec/internal/parser"
)

// CLITool names a supported AI command line tool.
type CLITool string

const (
	ToolClaude CLITool = "claude"
	ToolCodex  CLITool = "codex"
)

// CLIGenerator runs the claude or codex CLI once per generation call. The
// CLIs have no temperature or token controls, so Options are ignored.
type CLIGenerator struct {
	Tool   CLITool
	Model  string
	Stderr io.Writer // defaults to io.Discard
}

// BuildArgs constructs the argument list for one non-interactive run.
func (g *CLIGenerator) BuildArgs(prompt string) []string {
	var args []string
	switch g.Tool {
	case ToolCodex:
		args = []string{"exec", "--json", "--skip-git-repo-check"}
	default:
		args = []string{
			"--print",
			"--output-format", "stream-json",
			"--verbose",
			"--max-turns", "1",
		}
	}
	if g.Model != "" {
		args = append(args, "--model", g.Model)
	}
	return append(args, prompt)
}

// flattenMessages renders a transcript as a single prompt for tools that
// take one text argument.
func flattenMessages(messages []Message) string {
	var b strings.Builder
	for i, m := range messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "### %s\n%s", strings.ToUpper(string(m.Role)), m.Content)
	}
	return b.String()
}

// GenerateText runs the tool and extracts the final assistant text from its
// JSON event stream.
func (g *CLIGenerator) GenerateText(ctx context.Context, messages []Message, _ Options) (string, error) {
	tool := string(g.Tool)
	if tool == "" {
		tool = string(ToolClaude)
	}

	cmd := exec.CommandContext(ctx, tool, g.BuildArgs(flattenMessages(messages))...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	if g.Stderr != nil {
		cmd.Stderr = io.MultiWriter(&stderr, g.Stderr)
	} else {
		cmd.Stderr = &stderr
	}
	runErr := cmd.Run()

	var text string
	if g.Tool == ToolCodex {
		text = parser.ParseCodexJSONL(stdout.String())
	} else {
		text = parser.ParseStreamJSON(stdout.String())
	}

	// Check for rate limit in output regardless of command success
	if detectRateLimit(text) || detectRateLimit(stderr.String()) {
		return "", &UpstreamError{Provider: tool, Err: &RateLimitError{Provider: tool, UnderlyingErr: runErr}}
	}
	if runErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", &UpstreamError{Provider: tool, Err: ctxErr}
		}
		return "", &UpstreamError{Provider: tool, Err: fmt.Errorf("%s command failed: %w", tool, runErr)}
	}
	if strings.TrimSpace(text) == "" {
		return "", &UpstreamError{Provider: tool, Err: errors.New("empty output")}
	}
	return text, nil
}
