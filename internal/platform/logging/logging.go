// Package logging builds the service's slog loggers and carries the
// request-scoped logger through context.Context.
//
// The Logging middleware stores a logger enriched with request_id,
// correlation_id and trace_id; application code picks it up with
// FromContext and logs failures with the operation, the todo ID and the
// error:
//
//	logging.FromContext(ctx).ErrorContext(ctx, "failed to save todo",
//	    slog.String("operation", "CreateTodo"),
//	    slog.String("todo_id", id),
//	    slog.Any("error", err),
//	)
//
// Every handler built by New redacts credentials (see SensitiveHeaders and
// the masq rules in redact_handler.go) before anything is written.
package logging

import (
	"context"
	"io"
	"log/slog"
)

type loggerKey struct{}

// New returns a logger writing to w.
//
// level is any string slog.Level accepts ("debug", "INFO", "warn+2", ...);
// anything else means info. format "text" selects the text handler, every
// other value JSON. Debug loggers also record the source location.
func New(level, format string, w io.Writer) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:       lvl,
		AddSource:   lvl <= slog.LevelDebug,
		ReplaceAttr: newRedactAttr(),
	}

	switch format {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts))
	default:
		return slog.New(slog.NewJSONHandler(w, opts))
	}
}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger stored by WithLogger, or slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	return fromContextOr(ctx, slog.Default())
}

func fromContextOr(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if ctx == nil {
		return fallback
	}
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return fallback
}
