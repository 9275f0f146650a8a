package primego

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/primego/algorithm"
)

// Logger wraps slog.Logger with primego-specific context.
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
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithAlgorithm adds an algorithm field to the logger.
func (l *Logger) WithAlgorithm(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("algorithm", name),
	}
}

// WithLimit adds a limit field to the logger.
func (l *Logger) WithLimit(limit int) *Logger {
	return &Logger{
		Logger: l.Logger.With("limit", limit),
	}
}

// LogGenerate logs a generation call.
func (l *Logger) LogGenerate(ctx context.Context, algo string, limit, threads, count int, dur time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "generate failed",
			"algorithm", algo,
			"limit", limit,
			"threads", threads,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "generate completed",
			"algorithm", algo,
			"limit", limit,
			"threads", threads,
			"count", count,
			"duration", dur,
		)
	}
}

// LogSkip logs a request rejected by the guard policy.
func (l *Logger) LogSkip(ctx context.Context, algo string, limit, threads int, reason SkipReason) {
	l.WarnContext(ctx, "generate skipped",
		"algorithm", algo,
		"limit", limit,
		"threads", threads,
		"reason", string(reason),
	)
}

// LogWorkerFailures logs chunks that did not contribute to a result.
func (l *Logger) LogWorkerFailures(ctx context.Context, algo string, failures []algorithm.ChunkFailure) {
	for _, f := range failures {
		l.ErrorContext(ctx, "chunk worker failed",
			"algorithm", algo,
			"chunk", f.Index,
			"range", f.Range.String(),
			"worker", f.Worker,
			"error", f.Err,
		)
	}
}

// LogCacheClear logs a manual cache clear.
func (l *Logger) LogCacheClear(ctx context.Context, entries int) {
	l.InfoContext(ctx, "result cache cleared",
		"entries", entries,
	)
}
