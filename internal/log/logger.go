package log

import (
	"io"
	"log/slog"
	"time"

	charmlog "github.com/charmbracelet/log"
)

// timeFormat is the timestamp layout of the text logger.
const timeFormat = time.TimeOnly

// level returns Debug for verbose output and Warn otherwise.
func level(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

// NewLogger creates a human-readable logger that sanitizes sensitive
// values before writing them to w (typically os.Stderr).
//
// Records are rendered by charmbracelet/log, which colors levels when w
// is a terminal and falls back to plain text otherwise.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	sink := charmlog.NewWithOptions(w, charmlog.Options{
		Level:           charmlog.Level(level(verbose)),
		ReportTimestamp: true,
		TimeFormat:      timeFormat,
		Prefix:          "leadcrawl",
	})
	return slog.New(NewRedactHandler(sink))
}

// NewJSONLogger creates a logger that writes sanitized JSON lines to w.
// Useful for structured log aggregation.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	jsonHandler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level(verbose)})
	return slog.New(NewRedactHandler(jsonHandler))
}
