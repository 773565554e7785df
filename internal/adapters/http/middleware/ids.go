package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const (
	headerRequestID     = "X-Request-ID"
	headerCorrelationID = "X-Correlation-ID"
)

// maxInboundIDLength caps caller-supplied request and correlation IDs.
// Longer values are replaced rather than echoed into logs and headers.
const maxInboundIDLength = 128

type (
	requestIDKey     struct{}
	correlationIDKey struct{}
)

// WithRequestID stores id as the request ID of ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request ID stored in ctx, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// WithCorrelationID stores id as the correlation ID of ctx.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// CorrelationIDFromContext returns the correlation ID stored in ctx, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey{}).(string)
	return id
}

// RequestID tags every request with an X-Request-ID. A usable inbound header
// is kept, anything else is replaced by a random UUID.
func RequestID() func(http.Handler) http.Handler {
	return tagRequest(headerRequestID, WithRequestID, func(*http.Request) string {
		return uuid.NewString()
	})
}

// CorrelationID tags every request with an X-Correlation-ID, falling back to
// the request ID. It must be mounted after RequestID.
func CorrelationID() func(http.Handler) http.Handler {
	return tagRequest(headerCorrelationID, WithCorrelationID, func(r *http.Request) string {
		return RequestIDFromContext(r.Context())
	})
}

// tagRequest resolves an ID for header, binds it with store and echoes it on
// the response.
func tagRequest(
	header string,
	store func(context.Context, string) context.Context,
	fallback func(*http.Request) string,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := inboundID(r, header)
			if !ok {
				id = fallback(r)
			}
			w.Header().Set(header, id)
			next.ServeHTTP(w, r.WithContext(store(r.Context(), id)))
		})
	}
}

func inboundID(r *http.Request, header string) (string, bool) {
	id := r.Header.Get(header)
	if id == "" || len(id) > maxInboundIDLength {
		return "", false
	}
	return id, true
}
