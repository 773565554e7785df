package ports

import "context"

// HealthChecker is a dependency the readiness check can ask about, such as
// the database or the Redis idempotency store.
type HealthChecker interface {
	// Name keys the checker's result in readiness responses.
	Name() string
	// HealthCheck returns nil when the dependency is usable. It must give up
	// when ctx is done.
	HealthCheck(ctx context.Context) error
}

// HealthRegistry collects checkers at startup and runs them on each
// readiness request.
type HealthRegistry interface {
	Register(checker HealthChecker)
	// CheckAll maps each checker's name to its result; nil means healthy.
	CheckAll(ctx context.Context) map[string]error
}
