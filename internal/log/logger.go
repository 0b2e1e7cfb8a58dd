// Package log sets up the application's slog logging. Every component
// gets a child logger carrying a "component" attribute so mixed output
// from the server, stores and worker stays attributable.
package log

import (
	"log/slog"
	"os"
	"strings"
)

// Setup installs the process-wide default logger. Format is "text" or
// "json"; anything else falls back to text. The returned logger is the
// root; use For to derive component loggers from it.
func Setup(level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// For returns a child logger tagged with the component name.
func For(component string) *slog.Logger {
	return slog.Default().With("component", component)
}

// ParseLevel maps a config string to a slog level, defaulting to Info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
