// Package logging provides structured logging configuration using log/slog.
//
// The terminal belongs to the menu while the program runs, so records are
// written to a rotating log file instead of stdout. Operation ids (one per
// import or backup) travel in the context so every record of one operation
// can be correlated.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures Setup.
type Options struct {
	Level      string // debug, info, warn, error (default: info)
	Format     string // text or json (default: text)
	File       string // log file path; empty writes to stderr
	MaxSizeMB  int    // rotate after this many megabytes
	MaxBackups int    // rotated files to keep
}

// Setup configures the global slog logger and returns the writer it logs
// to. Close it on shutdown to flush the log file.
func Setup(opts Options) io.WriteCloser {
	var w io.WriteCloser = nopCloser{os.Stderr}
	if opts.File != "" {
		w = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
		}
	}

	slog.SetDefault(slog.New(NewHandler(w, opts.Level, opts.Format)))
	return w
}

// NewHandler builds the slog handler used by Setup.
func NewHandler(w io.Writer, level, format string) slog.Handler {
	handlerOpts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}
	if strings.ToLower(format) == "json" {
		return slog.NewJSONHandler(w, handlerOpts)
	}
	return slog.NewTextHandler(w, handlerOpts)
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

type contextKey string

const ctxKeyOperationID contextKey = "op_id"

// WithOperation returns a context carrying an operation id.
func WithOperation(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyOperationID, id)
}

// OperationID returns the operation id stored in ctx, if any.
func OperationID(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyOperationID).(string); ok {
		return v
	}
	return ""
}

// FromContext returns the default logger enriched with the operation id.
func FromContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()
	if id := OperationID(ctx); id != "" {
		logger = logger.With("op_id", id)
	}
	return logger
}

// WithFields returns a logger with additional structured fields.
//
// Usage:
//
//	importLogger := logging.WithFields(ctx, "file", path)
//	importLogger.Info("import started")
func WithFields(ctx context.Context, args ...any) *slog.Logger {
	return FromContext(ctx).With(args...)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
