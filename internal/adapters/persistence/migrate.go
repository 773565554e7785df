package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/jsamuelsen11/go-todo-service/internal/adapters/persistence/model"
)

// Migrate creates or updates the tables used by this package.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(&model.Todo{}); err != nil {
		return fmt.Errorf("migrating todos: %w", err)
	}
	return nil
}
