// Package logging configures the console logger and store observers.
package logging

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/kanbo/kanbo-go/internal/board"
	"github.com/kanbo/kanbo-go/internal/config"
	"github.com/kanbo/kanbo-go/internal/task"
)

// Options holds configuration for console logging.
type Options struct {
	Level           log.Level
	Formatter       log.Formatter
	ReportTimestamp bool
	Prefix          string
}

// DefaultOptions returns default options for console logging.
func DefaultOptions() Options {
	return Options{
		Level:           log.InfoLevel,
		Formatter:       log.TextFormatter,
		ReportTimestamp: false,
		Prefix:          "kanbo",
	}
}

// New creates a logger writing to w with the given options.
func New(w io.Writer, opts Options) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           opts.Level,
		Formatter:       opts.Formatter,
		ReportTimestamp: opts.ReportTimestamp,
		Prefix:          opts.Prefix,
	})
}

// FromConfig builds a logger from the logging fields of cfg.
func FromConfig(w io.Writer, cfg *config.Config) *log.Logger {
	opts := DefaultOptions()
	opts.Level = ParseLevel(cfg.LogLevel)
	opts.Formatter = ParseFormat(cfg.LogFormat)
	opts.ReportTimestamp = cfg.LogTimestamps
	return New(w, opts)
}

// ParseLevel maps a config string to a log level, defaulting to info.
func ParseLevel(s string) log.Level {
	switch s {
	case "debug":
		return log.DebugLevel
	case "info", "":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	}
	return log.InfoLevel
}

// ParseFormat maps a config string to a log formatter, defaulting to text.
func ParseFormat(s string) log.Formatter {
	switch s {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	}
	return log.TextFormatter
}

// SnapshotObserver returns a store observer that logs per-status counts and
// completion percent after every mutation. This is the diagnostics side of
// the state-changed hook, independent of persistence.
func SnapshotObserver(logger *log.Logger) func(snapshot []task.Task) {
	return func(snapshot []task.Task) {
		stats := board.Collect(snapshot)
		logger.Debug("board changed",
			"backlog", stats.Backlog,
			"in_progress", stats.InProgress,
			"done", stats.Done,
			"percent", stats.PercentString(),
		)
	}
}
