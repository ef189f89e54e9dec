// Package logging configures the process-wide structured logger.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// ParseLevel converts a textual log level into a slog.Level.
// Unknown values fall back to info.
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

// SetDefaultStructuredLogger installs a JSON slog handler as the default
// logger, tagged with the service name and version. The level is taken from
// the LOG_LEVEL environment variable (default: info).
func SetDefaultStructuredLogger(name, version string) {
	configure(name, version, true, ParseLevel(os.Getenv("LOG_LEVEL")))
}

// SetDefaultLogger installs the default logger with explicit settings.
// When json is false a human-readable text handler is used, which suits
// interactive CLI runs. The debug flag forces the debug level regardless
// of LOG_LEVEL.
func SetDefaultLogger(name, version string, json, debug bool) {
	level := ParseLevel(os.Getenv("LOG_LEVEL"))
	if debug {
		level = slog.LevelDebug
	}
	configure(name, version, json, level)
}

func configure(name, version string, json bool, level slog.Level) {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if json {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger := slog.New(handler).With(
		slog.String("service", name),
		slog.String("version", version),
	)
	slog.SetDefault(logger)
}
