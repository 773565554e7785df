package middleware

import (
	"context"
	"maps"
	"net/http"
	"sync"
	"time"

	"github.com/jsamuelsen11/go-todo-service/internal/adapters/http/dto"
)

// Timeout bounds every request by d. The handler sees the deadline on its
// context, so a unit of work running under TransactionService is rolled back
// when it expires. If the handler has not returned by then, the client gets
// a 504 problem response and anything the handler writes afterwards is
// discarded.
//
// Panics in the handler are re-raised on the serving goroutine for Recovery.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			buf := &bufferedResponse{header: make(http.Header)}
			outcome := make(chan any, 1)

			go func() {
				var recovered any
				defer func() { outcome <- recovered }()
				defer func() { recovered = recover() }()
				next.ServeHTTP(buf, r.WithContext(ctx))
			}()

			select {
			case v := <-outcome:
				if v != nil {
					panic(v)
				}
				buf.copyTo(w)
			case <-ctx.Done():
				buf.abandon()
				dto.WriteErrorResponse(w, r, ctx.Err())
			}
		})
	}
}

// bufferedResponse holds a handler's response until Timeout decides whether
// it reaches the client. Once abandoned, writes fail with ErrHandlerTimeout.
type bufferedResponse struct {
	mu        sync.Mutex
	header    http.Header
	body      []byte
	status    int
	abandoned bool
}

func (b *bufferedResponse) Header() http.Header {
	return b.header
}

func (b *bufferedResponse) WriteHeader(code int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.status == 0 {
		b.status = code
	}
}

func (b *bufferedResponse) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.abandoned {
		return 0, http.ErrHandlerTimeout
	}
	if b.status == 0 {
		b.status = http.StatusOK
	}
	b.body = append(b.body, p...)
	return len(p), nil
}

func (b *bufferedResponse) abandon() {
	b.mu.Lock()
	b.abandoned = true
	b.mu.Unlock()
}

// copyTo replays the buffered response onto w. Only called after the handler
// goroutine has returned.
func (b *bufferedResponse) copyTo(w http.ResponseWriter) {
	maps.Copy(w.Header(), b.header)
	if b.status != 0 {
		w.WriteHeader(b.status)
	}
	if len(b.body) > 0 {
		_, _ = w.Write(b.body)
	}
}
