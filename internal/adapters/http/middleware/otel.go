package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen11/go-todo-service/internal/platform/telemetry"
)

const tracerName = "github.com/jsamuelsen11/go-todo-service/internal/adapters/http/middleware"

// unmatchedRoute labels metrics for requests no route matched.
const unmatchedRoute = "unmatched"

// OpenTelemetry starts a server span per request, continuing any W3C trace
// context the caller sent, and records request metrics when metrics is
// non-nil.
//
// Spans and metrics are labelled with the chi route pattern once routing has
// run ("HTTP GET /api/v1/todos/{id}"), never with the raw path.
func OpenTelemetry(metrics *telemetry.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx, span := startServerSpan(r)
			defer span.End()

			rw := newStatusRecorder(w)
			next.ServeHTTP(rw, r.WithContext(ctx))

			route := routePattern(r)
			status := rw.Status()
			finishServerSpan(span, r.Method, route, status)
			recordServerMetrics(ctx, metrics, r.Method, route, status, time.Since(start))
		})
	}
}

func startServerSpan(r *http.Request) (context.Context, trace.Span) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	return otel.Tracer(tracerName).Start(ctx, "HTTP "+r.Method+" "+r.URL.Path,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			telemetry.AttrHTTPMethod.String(r.Method),
			attribute.String("http.url", r.URL.String()),
		),
	)
}

func finishServerSpan(span trace.Span, method, route string, status int) {
	if route != "" {
		span.SetName("HTTP " + method + " " + route)
		span.SetAttributes(telemetry.AttrHTTPRoute.String(route))
	}
	span.SetAttributes(telemetry.AttrHTTPStatus.Int(status))
	if status >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, http.StatusText(status))
	}
}

// routePattern is the matched chi pattern, or "" outside a chi router.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.RoutePattern()
	}
	return ""
}

func recordServerMetrics(
	ctx context.Context,
	metrics *telemetry.Metrics,
	method, route string,
	status int,
	elapsed time.Duration,
) {
	if metrics == nil {
		return
	}
	if route == "" {
		route = unmatchedRoute
	}
	result := "success"
	if status >= http.StatusBadRequest {
		result = "error"
	}

	attrs := metric.WithAttributes(
		telemetry.AttrHTTPMethod.String(method),
		telemetry.AttrHTTPRoute.String(route),
		telemetry.AttrHTTPStatus.Int(status),
		telemetry.AttrResult.String(result),
	)
	metrics.ServerRequestDuration.Record(ctx, elapsed.Seconds(), attrs)
	metrics.ServerRequestTotal.Add(ctx, 1, attrs)
}
