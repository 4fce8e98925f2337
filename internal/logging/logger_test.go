package logging_test

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/CodexForgeBR/vizspec/internal/logging"
)

func init() {
	// Disable color output in tests so assertions match plain text.
	color.NoColor = true
}

// capture redirects log output into a buffer for the duration of fn.
func capture(t *testing.T, fn func()) string {
	t.Helper()
	var buf bytes.Buffer
	prev := logging.SetOutput(&buf)
	defer logging.SetOutput(prev)
	fn()
	return buf.String()
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds  int
		expected string
	}{
		{0, "0s"},
		{45, "45s"},
		{90, "1m 30s"},
		{3661, "1h 1m 1s"},
		{7200, "2h 0m 0s"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, logging.FormatDuration(tt.seconds))
		})
	}
}

func TestLevels(t *testing.T) {
	tests := []struct {
		name   string
		log    func(string)
		prefix string
	}{
		{"info", logging.Info, "[INFO]"},
		{"success", logging.Success, "[SUCCESS]"},
		{"warn", logging.Warn, "[WARN]"},
		{"error", logging.Error, "[ERROR]"},
		{"stage", logging.Stage, "[STAGE]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := capture(t, func() { tt.log("attempt 2 of 4") })
			assert.Equal(t, tt.prefix+" attempt 2 of 4\n", out)
		})
	}
}

func TestDebugSuppressedWhenNotVerbose(t *testing.T) {
	logging.SetVerbose(false)
	out := capture(t, func() {
		logging.Debug("hidden")
	})
	assert.Empty(t, out)
}

func TestDebugShownWhenVerbose(t *testing.T) {
	logging.SetVerbose(true)
	defer logging.SetVerbose(false)

	out := capture(t, func() {
		logging.Debug("visible")
	})
	assert.Contains(t, out, "[DEBUG]")
	assert.Contains(t, out, "visible")
}
