// Package idempotency stores Idempotency-Key reservations in Redis so that a
// retried POST is executed at most once across all service instances.
package idempotency

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jsamuelsen11/go-todo-service/internal/platform/config"
	"github.com/jsamuelsen11/go-todo-service/internal/ports"
)

// keyPrefix namespaces reservations inside a shared Redis database.
const keyPrefix = "todo-service:idempotency:"

// Compile-time interface checks.
var (
	_ ports.IdempotencyStore = (*RedisStore)(nil)
	_ ports.HealthChecker    = (*RedisStore)(nil)
)

// NewClient creates a go-redis client from cfg. The connection is lazy; use
// RedisStore.HealthCheck to verify reachability.
func NewClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// RedisStore implements ports.IdempotencyStore with SET NX and a TTL.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a RedisStore backed by client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) key(k string) string {
	return keyPrefix + k
}

// Reserve records key if it is not already held. It returns true when the key
// was newly reserved.
func (s *RedisStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.key(key), 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("reserving idempotency key: %w", err)
	}
	return ok, nil
}

// Release deletes a reservation so the caller may retry. Releasing a key that
// is not held succeeds.
func (s *RedisStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("releasing idempotency key: %w", err)
	}
	return nil
}

// Name returns the identifier used in readiness responses.
func (s *RedisStore) Name() string {
	return "redis"
}

// HealthCheck pings Redis within ctx's deadline.
func (s *RedisStore) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}
	return nil
}
