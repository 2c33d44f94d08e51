// Package log provides a structured logging interface for fedscaffold training runs.
//
// The Logger interface is slog-shaped so the backend can be swapped; the default
// backend is zerolog (see zerolog.go). Standard attribute keys live in
// attributes.go so client, server and simulation logs can be filtered uniformly.
//
// Example usage:
//
//	logger := log.GetLogger().With(
//	    log.ComponentKey, "optim",
//	    log.ClientIDKey, 3,
//	)
//	logger.Info("Local round finished",
//	    log.RoundKey, 12,
//	    log.IterationKey, 50,
//	)
package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// Fields are alternating key/value pairs. Error treats a leading error value
// specially: it is attached as the error field together with its stack trace.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Warn(msg string, fields ...any)
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits log records at the given level.
	// Use it to skip computing expensive diagnostics that would be dropped.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
