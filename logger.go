package enginecore

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/hupe1980/enginecore/arena"
	"github.com/hupe1980/enginecore/config"
)

// Logger wraps slog.Logger with engine-specific helpers.
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
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewConfigLogger creates a Logger writing to w as cfg describes.
func NewConfigLogger(w io.Writer, cfg config.LogConfig) *Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Format == "json" {
		return NewLogger(slog.NewJSONHandler(w, opts))
	}
	return NewLogger(slog.NewTextHandler(w, opts))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithCore adds the core instance ID to the logger.
func (l *Logger) WithCore(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("core", id),
	}
}

// WithFrame adds a frame number field to the logger.
func (l *Logger) WithFrame(frame uint64) *Logger {
	return &Logger{
		Logger: l.Logger.With("frame", frame),
	}
}

// WithArena adds an arena name field to the logger.
func (l *Logger) WithArena(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("arena", name),
	}
}

// LogFrame logs the end of a frame.
func (l *Logger) LogFrame(ctx context.Context, s FrameStats) {
	l.DebugContext(ctx, "frame completed",
		"frame", s.Frame,
		"duration", s.Duration,
		"destroyed", s.Destroyed,
		"live", s.Live,
		"frame_bytes", s.FrameBytes,
		"committed", s.CommittedBytes,
	)
}

// LogArena logs arena statistics.
func (l *Logger) LogArena(ctx context.Context, name string, s arena.Stats) {
	l.DebugContext(ctx, "arena stats",
		"arena", name,
		"offset", s.Offset,
		"committed", s.Committed,
		"high_water", s.HighWater,
		"reserved", s.Reserved,
	)
}

// LogClose logs core teardown.
func (l *Logger) LogClose(ctx context.Context, frames uint64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "core close failed",
			"frames", frames,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "core closed",
			"frames", frames,
		)
	}
}
