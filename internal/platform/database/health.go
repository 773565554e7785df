package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/jsamuelsen11/go-todo-service/internal/ports"
)

// Compile-time interface check.
var _ ports.HealthChecker = (*HealthChecker)(nil)

// HealthChecker reports whether the database accepts connections.
type HealthChecker struct {
	db *gorm.DB
}

// NewHealthChecker creates a HealthChecker for db.
func NewHealthChecker(db *gorm.DB) *HealthChecker {
	return &HealthChecker{db: db}
}

// Name returns the identifier used in readiness responses.
func (h *HealthChecker) Name() string {
	return "database"
}

// HealthCheck pings the database within ctx's deadline.
func (h *HealthChecker) HealthCheck(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database: ping failed: %w", err)
	}
	return nil
}
