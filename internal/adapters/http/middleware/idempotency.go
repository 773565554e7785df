package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jsamuelsen11/go-todo-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/go-todo-service/internal/domain"
	"github.com/jsamuelsen11/go-todo-service/internal/platform/logging"
	"github.com/jsamuelsen11/go-todo-service/internal/ports"
)

const (
	headerIdempotencyKey = "Idempotency-Key"

	maxIdempotencyKeyLength = 255
)

var errDuplicateRequest = fmt.Errorf("%w: a request with this Idempotency-Key was already accepted", domain.ErrConflict)

// Idempotency returns middleware that executes a POST carrying an
// Idempotency-Key header at most once per key within ttl. The key is reserved
// in store before the handler runs; a second request with the same key while
// the reservation is held gets 409 Conflict.
//
// If the handler responds with a status >= 400 or panics, the reservation is
// released so the client can retry. Requests without the header, and
// non-POST requests, pass through untouched. When the store cannot be reached
// the request is rejected with 502 rather than risking a duplicate.
func Idempotency(store ports.IdempotencyStore, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(headerIdempotencyKey)
			if r.Method != http.MethodPost || key == "" {
				next.ServeHTTP(w, r)
				return
			}
			if len(key) > maxIdempotencyKeyLength {
				dto.WriteErrorResponse(w, r, domain.NewValidationError("header."+headerIdempotencyKey,
					fmt.Sprintf("must be at most %d characters", maxIdempotencyKeyLength)))
				return
			}

			ctx := r.Context()
			scoped := r.URL.Path + ":" + key

			reserved, err := store.Reserve(ctx, scoped, ttl)
			if err != nil {
				logging.FromContext(ctx).ErrorContext(ctx, "idempotency reservation failed",
					slog.String("idempotency_key", key),
					slog.Any("error", err),
				)
				dto.WriteErrorResponse(w, r, fmt.Errorf("%w: %w", domain.ErrUnavailable, err))
				return
			}
			if !reserved {
				dto.WriteErrorResponse(w, r, errDuplicateRequest)
				return
			}

			rw := newStatusRecorder(w)
			completed := false
			defer func() {
				if !completed || rw.Status() >= http.StatusBadRequest {
					release(ctx, store, scoped, key)
				}
			}()

			next.ServeHTTP(rw, r)
			completed = true
		})
	}
}

// release frees a reservation after a failed request. It runs detached from
// the request's cancellation so a timed-out request still releases its key.
func release(ctx context.Context, store ports.IdempotencyStore, scoped, key string) {
	releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	if err := store.Release(releaseCtx, scoped); err != nil {
		logging.FromContext(ctx).WarnContext(ctx, "idempotency key release failed",
			slog.String("idempotency_key", key),
			slog.Any("error", err),
		)
	}
}
