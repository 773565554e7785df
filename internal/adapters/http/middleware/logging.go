package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen11/go-todo-service/internal/platform/logging"
)

// Logging logs "request started" and "request completed" for every request
// through a child of logger tagged with the request, correlation and trace
// IDs. Handlers reach the child via logging.FromContext.
//
// Completion is logged at error for 5xx, warn for 4xx and info otherwise.
// Request headers are logged at debug, redacted.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := r.Context()
			reqLogger := logger.With(requestAttrs(ctx)...)
			ctx = logging.WithLogger(ctx, reqLogger)

			reqLogger.InfoContext(ctx, "request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
			logHeaders(ctx, reqLogger, r.Header)

			rw := newStatusRecorder(w)
			next.ServeHTTP(rw, r.WithContext(ctx))

			status := rw.Status()
			reqLogger.Log(ctx, completionLevel(status), "request completed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Int64("bytes", rw.BytesWritten()),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

func requestAttrs(ctx context.Context) []any {
	attrs := []any{
		slog.String("request_id", RequestIDFromContext(ctx)),
		slog.String("correlation_id", CorrelationIDFromContext(ctx)),
	}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		attrs = append(attrs, slog.String("trace_id", sc.TraceID().String()))
	}
	return attrs
}

func logHeaders(ctx context.Context, logger *slog.Logger, h http.Header) {
	if !logger.Enabled(ctx, slog.LevelDebug) {
		return
	}
	attrs := RedactHeaders(h)
	args := make([]any, len(attrs))
	for i, a := range attrs {
		args[i] = a
	}
	logger.DebugContext(ctx, "request headers", args...)
}

func completionLevel(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
