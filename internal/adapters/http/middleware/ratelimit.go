package middleware

import (
	"math"
	"net/http"
	"strconv"

	"golang.org/x/time/rate"

	"github.com/jsamuelsen11/go-todo-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/go-todo-service/internal/domain"
)

// RateLimit returns middleware that admits at most rps requests per second
// with the given burst, shared by all clients of this instance. Requests over
// the limit get an RFC 9457 429 response with a Retry-After header and never
// reach the handler.
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res := limiter.Reserve()
			if delay := res.Delay(); delay > 0 {
				res.Cancel()
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
				dto.WriteErrorResponse(w, r, domain.ErrRateLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
