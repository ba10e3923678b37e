// Package logging provides leveled diagnostic output with charmbracelet/log.
//
// Diagnostics go to stderr so they never mix with command output, which
// collaborating tools parse from stdout.
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

const (
	// EnvLogLevel overrides the default log level ("debug", "info", "warn",
	// "error", "fatal").
	EnvLogLevel = "TODOAPP_LOG_LEVEL"

	// EnvLogFormat selects the log output format ("text", "logfmt", "json").
	EnvLogFormat = "TODOAPP_LOG_FORMAT"
)

// Options holds configuration for the diagnostic logger.
type Options struct {
	Level           log.Level
	Formatter       log.Formatter
	ReportTimestamp bool
	Prefix          string
}

// DefaultOptions returns the logger defaults: warnings and above, text
// output, no timestamps.
func DefaultOptions() Options {
	return Options{
		Level:           log.WarnLevel,
		Formatter:       log.TextFormatter,
		ReportTimestamp: false,
		Prefix:          "todoapp",
	}
}

// New creates a diagnostic logger writing to w with the given options.
func New(w io.Writer, opts Options) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           opts.Level,
		Formatter:       opts.Formatter,
		ReportTimestamp: opts.ReportTimestamp,
		Prefix:          opts.Prefix,
	})
}

// ForCLI builds the process logger on stderr. verbose lowers the level to
// debug; otherwise TODOAPP_LOG_LEVEL applies, falling back to the default.
func ForCLI(verbose bool) *log.Logger {
	opts := DefaultOptions()
	if env := os.Getenv(EnvLogLevel); env != "" {
		opts.Level = ParseLevel(env)
	}
	if env := os.Getenv(EnvLogFormat); env != "" {
		opts.Formatter = ParseFormatter(env)
	}
	if verbose {
		opts.Level = log.DebugLevel
	}
	return New(os.Stderr, opts)
}

// ParseLevel parses a string log level to a charmbracelet/log Level.
func ParseLevel(level string) log.Level {
	switch level {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.WarnLevel
	}
}

// ParseFormatter parses a string formatter name to a charmbracelet/log
// Formatter.
func ParseFormatter(format string) log.Formatter {
	switch format {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}
