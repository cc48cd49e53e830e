// Package logging defines the structured-logging interface shared by the
// client components, plus slog and zap backed implementations.
//
// Components never reach for a global logger: they receive a Logger at
// construction time, which keeps tests quiet (see Nop) and lets the CLI pick
// the output format at startup.
package logging

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "realtime state changed", "from", prev, "to", next)
type Logger interface {
	// Debug logs low-level diagnostics (frame routing, dropped messages).
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

// Supported output formats for New.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// New builds a Logger writing to w. FormatText produces slog key=value lines,
// FormatJSON produces zap JSON records. Level is one of debug, info, warn, error.
func New(format, level string, w io.Writer) (Logger, error) {
	if level == "" {
		level = "info"
	}
	switch strings.ToLower(format) {
	case "", FormatText:
		return newSlogText(w, level)
	case FormatJSON:
		return newZapJSON(w, level)
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) Logger                  { return n }

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return nopLogger{}
}
