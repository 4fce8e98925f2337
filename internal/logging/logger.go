// Package logging provides colored, leveled log output for the vizspec CLI.
//
// Every line goes to stderr so stdout carries only documents. Debug output
// is suppressed unless verbose mode is enabled via SetVerbose(true).
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

var (
	mu      sync.Mutex
	out     io.Writer = os.Stderr
	verbose bool
)

// Color printers for each log level.
var (
	infoPrefix    = color.New(color.FgBlue).SprintFunc()
	successPrefix = color.New(color.FgGreen).SprintFunc()
	warnPrefix    = color.New(color.FgYellow).SprintFunc()
	errorPrefix   = color.New(color.FgRed).SprintFunc()
	stagePrefix   = color.New(color.FgCyan).SprintFunc()
	debugPrefix   = color.New(color.FgBlue).SprintFunc()
)

// SetVerbose enables or disables Debug output.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// SetOutput redirects all log lines to w and returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := out
	out = w
	return prev
}

func write(prefix, msg string) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintln(out, prefix+" "+msg)
}

// Info prints an informational message in blue.
func Info(msg string) {
	write(infoPrefix("[INFO]"), msg)
}

// Success prints a success message in green.
func Success(msg string) {
	write(successPrefix("[SUCCESS]"), msg)
}

// Warn prints a warning message in yellow.
func Warn(msg string) {
	write(warnPrefix("[WARN]"), msg)
}

// Error prints an error message in red.
func Error(msg string) {
	write(errorPrefix("[ERROR]"), msg)
}

// Stage prints a pipeline stage marker in cyan.
func Stage(msg string) {
	write(stagePrefix("[STAGE]"), msg)
}

// Debug prints a debug message in blue, only when verbose mode is enabled.
func Debug(msg string) {
	mu.Lock()
	v := verbose
	mu.Unlock()
	if !v {
		return
	}
	write(debugPrefix("[DEBUG]"), msg)
}

// FormatDuration converts a duration in seconds to a human-readable string.
//
// Examples:
//
//	FormatDuration(0)    => "0s"
//	FormatDuration(45)   => "45s"
//	FormatDuration(90)   => "1m 30s"
//	FormatDuration(3661) => "1h 1m 1s"
func FormatDuration(seconds int) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	if seconds < 3600 {
		return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
	}
	return fmt.Sprintf("%dh %dm %ds", seconds/3600, (seconds%3600)/60, seconds%60)
}
