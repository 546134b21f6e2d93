// Package logging defines the structured-logging interface used across the
// client. Two implementations are provided: SlogLogger (log/slog) and
// ZerologLogger (rs/zerolog). New picks one from the configured format.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "profile loaded", "user_id", id, "source", "server")
type Logger interface {
	// Debug logs diagnostic detail (request ids, cache hits).
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// Format selects the Logger implementation built by New.
type Format string

const (
	FormatText    Format = "text"
	FormatJSON    Format = "json"
	FormatConsole Format = "console"
)

// New builds a Logger writing to w (os.Stderr when nil). Text and JSON go
// through slog; console uses zerolog's human-readable writer. Development
// lowers the level to debug.
func New(format Format, development bool, w io.Writer) Logger {
	if w == nil {
		w = os.Stderr
	}

	level := slog.LevelInfo
	if development {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	switch format {
	case FormatJSON:
		return NewSlogLogger(slog.New(slog.NewJSONHandler(w, opts)))
	case FormatConsole:
		return NewZerologLogger(w, development)
	default:
		return NewSlogLogger(slog.New(slog.NewTextHandler(w, opts)))
	}
}

// Nop returns a Logger that discards everything. Handy as a default in
// constructors and tests.
func Nop() Logger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
