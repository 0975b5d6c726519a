// Package telemetry sets up structured logging and run metrics.
package telemetry

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger creates a logger writing to w, or os.Stderr when w is nil.
// format "json" selects the JSON handler; anything else is text.
func NewLogger(verbose bool, format string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// InitLogger creates a logger and installs it as the slog default.
func InitLogger(verbose bool, format string, w io.Writer) *slog.Logger {
	logger := NewLogger(verbose, format, w)
	slog.SetDefault(logger)
	return logger
}
