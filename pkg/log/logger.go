package log

import (
	"io"
	"os"

	"github.com/YuminosukeSato/fedscaffold/pkg/errors"
)

// SetupLogger installs a JSON zerolog logger on stdout as the default logger and
// routes errors.Warn into it at warn level.
func SetupLogger(loglevel string) {
	SetupLoggerTo(os.Stdout, ToLogLevel(loglevel))
}

// SetupLoggerTo is SetupLogger with an explicit writer and level.
func SetupLoggerTo(w io.Writer, level Level) {
	logger := NewZerologLogger(w, level)
	SetLogger(logger)
	errors.SetZerologWarnFunc(func(warning error) {
		logger.Warn(warning.Error(), ComponentKey, "warnings")
	})
}

// ToLogLevel parses "debug", "info", "warn" or "error" and panics on anything else.
func ToLogLevel(level string) Level {
	l, err := ParseLevel(level)
	if err != nil {
		panic(err.Error())
	}
	return l
}

// ParseLevel is ToLogLevel returning an error instead of panicking.
func ParseLevel(level string) (Level, error) {
	switch level {
	case "info":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	case "warn":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return 0, errors.NewValidationError("log_level", "must be debug, info, warn or error", level)
	}
}
