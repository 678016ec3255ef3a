// Package lorelog configures the process-wide structured logger. It
// deliberately returns a *slog.Logger instance rather than exposing one
// through package-level state: spec.md §9 disallows global mutable
// state, so every component that logs takes a *slog.Logger explicitly.
package lorelog

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Format selects the slog handler.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Options configures New.
type Options struct {
	Format Format
	Level  slog.Level
	Output io.Writer // defaults to os.Stderr
}

// New builds a *slog.Logger per opts. A zero Options value yields a text
// logger at Info level writing to stderr, matching the teacher's default
// non-daemon logging.
func New(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	handlerOpts := &slog.HandlerOptions{Level: opts.Level}

	var handler slog.Handler
	if opts.Format == FormatJSON {
		handler = slog.NewJSONHandler(out, handlerOpts)
	} else {
		handler = slog.NewTextHandler(out, handlerOpts)
	}
	return slog.New(handler)
}

// FromEnv builds a logger from LORE_LOG_FORMAT ("text"|"json") and
// LORE_LOG_LEVEL ("debug"|"info"|"warn"|"error"), falling back to the
// same defaults as New when unset or unrecognized.
func FromEnv() *slog.Logger {
	format := FormatText
	if strings.EqualFold(os.Getenv("LORE_LOG_FORMAT"), "json") {
		format = FormatJSON
	}

	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LORE_LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return New(Options{Format: format, Level: level})
}

// Discard returns a logger that drops every record, used by tests and
// fail-silent code paths (e.g. auto-context injection) that must never
// let logging itself become observable noise.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
