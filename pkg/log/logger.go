// Package log configures the process-wide slog logger used by the
// evaluation pipeline. Output is JSON with source locations; errors logged
// through ErrAttr carry their stacktrace as a separate attribute.
package log

import (
	"io"
	"log/slog"
	"os"
)

// Attribute keys shared between ErrAttr and the stacktrace handler.
const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// SetupLogger installs the default JSON logger at the given level.
// Unknown levels fall back to info; the configuration layer rejects them
// before this runs.
func SetupLogger(level string) {
	SetupLoggerTo(os.Stdout, level)
}

// SetupLoggerTo is SetupLogger with an explicit output, used by tests.
func SetupLoggerTo(w io.Writer, level string) {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource: true,
		Level:     ToLogLevel(level),
	})
	slog.SetDefault(slog.New(WrapByErrFmtHandler(handler)))
}

// ToLogLevel maps a configuration string onto a slog level.
func ToLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ErrAttr wraps an error for structured logging. The stacktrace handler
// keys off ErrAttrKey to expand it.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}
