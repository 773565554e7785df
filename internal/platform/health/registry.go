// Package health provides a thread-safe health check registry for tracking
// the health of the service's dependencies (database, Redis). The registry is
// used by the readiness endpoint to determine whether the service can accept
// traffic.
package health

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jsamuelsen11/go-todo-service/internal/ports"
)

// DefaultCheckTimeout bounds each individual check when no timeout is set.
const DefaultCheckTimeout = 2 * time.Second

// Compile-time interface check.
var _ ports.HealthRegistry = (*Registry)(nil)

// Registry is a thread-safe implementation of [ports.HealthRegistry].
// Components that implement [ports.HealthChecker] are registered at startup
// and checked on each readiness check.
type Registry struct {
	mu           sync.RWMutex
	checkers     []ports.HealthChecker
	checkTimeout time.Duration
}

// Option configures a Registry.
type Option func(*Registry)

// WithCheckTimeout sets the deadline applied to each check. Values <= 0 are
// ignored.
func WithCheckTimeout(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.checkTimeout = d
		}
	}
}

// New creates an empty health check registry.
func New(opts ...Option) *Registry {
	r := &Registry{checkTimeout: DefaultCheckTimeout}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a health checker to the registry. Safe for concurrent use.
func (r *Registry) Register(checker ports.HealthChecker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers = append(r.checkers, checker)
}

// CheckAll runs all registered checks concurrently, each under its own
// timeout, and returns results keyed by checker name. A panicking check is
// reported as an error. Nil values indicate
// healthy components. The checker slice is copied under a read lock so checks
// run without holding the lock.
func (r *Registry) CheckAll(ctx context.Context) map[string]error {
	r.mu.RLock()
	checkers := make([]ports.HealthChecker, len(r.checkers))
	copy(checkers, r.checkers)
	r.mu.RUnlock()

	var wg sync.WaitGroup
	errs := make([]error, len(checkers))
	for i, c := range checkers {
		wg.Go(func() {
			errs[i] = r.check(ctx, c)
		})
	}
	wg.Wait()

	// Registration order decides which result wins on duplicate names.
	results := make(map[string]error, len(checkers))
	for i, c := range checkers {
		results[c.Name()] = errs[i]
	}
	return results
}

func (r *Registry) check(ctx context.Context, c ports.HealthChecker) (err error) {
	ctx, cancel := context.WithTimeout(ctx, r.checkTimeout)
	defer cancel()

	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("health check %s panicked: %v", c.Name(), v)
		}
	}()

	return c.HealthCheck(ctx)
}
