package persistence_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"github.com/jsamuelsen11/go-todo-service/internal/adapters/persistence"
	appctx "github.com/jsamuelsen11/go-todo-service/internal/app/context"
	"github.com/jsamuelsen11/go-todo-service/internal/platform/config"
	"github.com/jsamuelsen11/go-todo-service/internal/platform/database"
)

type fixture struct {
	db       *gorm.DB
	provider *appctx.Provider[*gorm.DB]
	repo     *persistence.TodoRepository
	tx       *persistence.TransactionService
}

// newFixture opens a migrated SQLite database in a temp dir.
func newFixture(t *testing.T, opts ...persistence.TxOption) *fixture {
	t.Helper()

	cfg := config.DatabaseConfig{
		Driver:       database.DriverSQLite,
		DSN:          filepath.Join(t.TempDir(), "todos.sqlite"),
		MaxOpenConns: 4,
		MaxIdleConns: 4,
	}
	db, err := database.Open(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close(db)
	})
	if err := persistence.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	provider := appctx.NewProvider(db)
	return &fixture{
		db:       db,
		provider: provider,
		repo:     persistence.NewTodoRepository(provider),
		tx:       persistence.NewTransactionService(provider, opts...),
	}
}

func strPtr(v string) *string { return &v }

func countTodos(t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	var n int64
	if err := db.Table("todos").Count(&n).Error; err != nil {
		t.Fatalf("count todos: %v", err)
	}
	return n
}
