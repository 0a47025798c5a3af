package arrayrt

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/hupe1980/arrayrt/array"
)

// Logger wraps slog.Logger with arrayrt-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, nil))
}

// WithArray adds the array's shape to the logger.
func (l *Logger) WithArray(a *array.Array) *Logger {
	return &Logger{
		Logger: l.Logger.With(
			"element_type", a.ElementTypeSpecifier(),
			"dimensions", a.Dimensions(),
		),
	}
}

// WithCache adds a cache name field to the logger.
func (l *Logger) WithCache(name string) *Logger {
	return &Logger{Logger: l.Logger.With("cache", name)}
}

// LogAdjust logs an adjust-array operation.
func (l *Logger) LogAdjust(ctx context.Context, dims []int, inPlace bool, invalidated int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "adjust failed",
			"dimensions", dims,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "adjust completed",
		"dimensions", dims,
		"in_place", inPlace,
		"invalidated", invalidated,
	)
}

// LogInvalidation logs an array invalidated by a shrinking adjustment.
func (l *Logger) LogInvalidation(ctx context.Context, a *array.Array) {
	target, offset := a.Displacement()
	attrs := []any{"offset", offset}
	if target != nil {
		attrs = append(attrs, "displaced_to", target.String())
	}
	l.WithArray(a).WarnContext(ctx, "displaced array invalidated", attrs...)
}

// LogCacheDefine logs a cache definition.
func (l *Logger) LogCacheDefine(ctx context.Context, name string, capacity int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "cache definition failed",
			"cache", name,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "cache defined",
		"cache", name,
		"capacity", capacity,
	)
}

// LogCacheClear logs a drop-all-caches pass.
func (l *Logger) LogCacheClear(ctx context.Context, count int) {
	l.InfoContext(ctx, "caches cleared", "count", count)
}

// LogEviction logs a cache eviction. Use WithCache to name the cache.
func (l *Logger) LogEviction(ctx context.Context, evictions int64) {
	l.DebugContext(ctx, "cache line evicted", "evictions", evictions)
}
