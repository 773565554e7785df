package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/jsamuelsen11/go-todo-service/internal/adapters/http/dto"
)

// Recovery returns middleware that turns a handler panic into a 500 problem
// response and an error log carrying the panic value, the stack and, when
// RequestID ran inside it, the request ID. Nothing about the panic reaches
// the client. If the handler already sent headers only the log is written.
//
// http.ErrAbortHandler is re-panicked untouched so net/http can abort the
// connection without logging a stack trace.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := newStatusRecorder(w)

			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if isAbortPanic(v) {
					panic(v)
				}

				logger.ErrorContext(r.Context(), "panic recovered",
					slog.String("panic", fmt.Sprint(v)),
					slog.String("stack", string(debug.Stack())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("request_id", rw.Header().Get(headerRequestID)),
				)
				if !rw.Committed() {
					dto.WriteStatusResponse(rw, r, http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(rw, r)
		})
	}
}

func isAbortPanic(v any) bool {
	err, ok := v.(error)
	return ok && errors.Is(err, http.ErrAbortHandler)
}
