// Package logging provides slog setup helpers for athena-dhclient.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Setup initializes the default slog logger with the given level and output.
func Setup(level string, output io.Writer) *slog.Logger {
	if output == nil {
		output = os.Stdout
	}

	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}

	logger := slog.New(slog.NewJSONHandler(output, opts))
	slog.SetDefault(logger)
	return logger
}

// ParseLevel converts a string level to slog.Level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "trace", "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
