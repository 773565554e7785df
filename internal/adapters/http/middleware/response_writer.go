// Package middleware provides HTTP middleware for the inbound request pipeline.
//
// Global middleware wraps every route, health probes included:
//
//	Recovery → RequestID → CorrelationID → OpenTelemetry → Logging
//
// API middleware wraps /api/v1 only:
//
//	RateLimit → Timeout → Idempotency → Handler
//
// RateLimit and Idempotency are only installed when configured.
package middleware

import "net/http"

// statusRecorder wraps an http.ResponseWriter and remembers what was sent:
// the status code, whether headers are committed, and the body size.
type statusRecorder struct {
	http.ResponseWriter
	status    int
	committed bool
	bytes     int64
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

// WriteHeader records code and forwards it. Repeat calls are dropped.
func (sr *statusRecorder) WriteHeader(code int) {
	if sr.committed {
		return
	}
	sr.status = code
	sr.committed = true
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	sr.committed = true
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += int64(n)
	return n, err
}

// Status is the code sent to the client, 200 if the handler wrote a body
// without calling WriteHeader or wrote nothing at all.
func (sr *statusRecorder) Status() int { return sr.status }

// Committed reports whether headers have gone out, after which the status
// can no longer change.
func (sr *statusRecorder) Committed() bool { return sr.committed }

// BytesWritten is the number of body bytes accepted by the underlying writer.
func (sr *statusRecorder) BytesWritten() int64 { return sr.bytes }

// Unwrap lets http.ResponseController reach the underlying writer.
func (sr *statusRecorder) Unwrap() http.ResponseWriter {
	return sr.ResponseWriter
}
