package common

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
)

// LoggerKey is the context key for logger values.
type LoggerKey struct{}

// Fields represents structured logging fields.
type Fields map[string]any

// ParseLevel converts a configured level name into a slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: log level %q", ErrInvalidConfig, level)
	}
}

// SetupLogger configures the global logger with appropriate settings.
func SetupLogger(level slog.Level, format string) error {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: level,
	}

	switch format {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	case "console", "":
		handler = slog.NewTextHandler(os.Stderr, opts)
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalidConfig, format)
	}

	slog.SetDefault(slog.New(handler))

	return nil
}

// WithLogger stores a logger in the context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey{}, logger)
}

// LoggerFrom returns the context logger, or the default logger when none is set.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(LoggerKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// LogError logs err at error level on the context logger.
func LogError(ctx context.Context, err error, msg string, fields Fields) {
	logFields(ctx, slog.LevelError, msg, fields, slog.String("error", err.Error()))
}

// LogWarn logs err at warn level on the context logger.
func LogWarn(ctx context.Context, err error, msg string, fields Fields) {
	logFields(ctx, slog.LevelWarn, msg, fields, slog.String("error", err.Error()))
}

// LogInfo logs an info message with fields on the context logger.
func LogInfo(ctx context.Context, msg string, fields Fields) {
	logFields(ctx, slog.LevelInfo, msg, fields)
}

// LogDebug logs a debug message with fields on the context logger.
func LogDebug(ctx context.Context, msg string, fields Fields) {
	logFields(ctx, slog.LevelDebug, msg, fields)
}

// logFields emits fields in key order so log lines are stable across runs.
func logFields(ctx context.Context, level slog.Level, msg string, fields Fields, extra ...slog.Attr) {
	logger := LoggerFrom(ctx)
	if !logger.Enabled(ctx, level) {
		return
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]slog.Attr, 0, len(fields)+len(extra))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, fields[k]))
	}
	attrs = append(attrs, extra...)

	logger.LogAttrs(ctx, level, msg, attrs...)
}
