package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jsamuelsen11/go-todo-service/internal/adapters/persistence/model"
	appctx "github.com/jsamuelsen11/go-todo-service/internal/app/context"
	"github.com/jsamuelsen11/go-todo-service/internal/domain"
	"github.com/jsamuelsen11/go-todo-service/internal/domain/todo"
	"github.com/jsamuelsen11/go-todo-service/internal/ports"
)

// Compile-time interface check.
var _ ports.TodoRepository = (*TodoRepository)(nil)

// upsertColumns are overwritten when Save hits an existing ID. created_at
// keeps the original insertion time.
var upsertColumns = []string{"title", "description", "completed", "updated_at"}

// TodoRepository stores todos in the todos table.
type TodoRepository struct {
	provider *appctx.Provider[*gorm.DB]
}

// NewTodoRepository creates a TodoRepository that resolves its handle from
// provider on every call.
func NewTodoRepository(provider *appctx.Provider[*gorm.DB]) *TodoRepository {
	return &TodoRepository{provider: provider}
}

func (r *TodoRepository) conn(ctx context.Context) *gorm.DB {
	return r.provider.Get(ctx).WithContext(ctx)
}

// Save inserts t or overwrites the stored row with the same ID.
func (r *TodoRepository) Save(ctx context.Context, t *todo.Todo) error {
	row := model.FromDomain(t)

	err := r.conn(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(upsertColumns),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("saving todo %s: %w", row.ID, err)
	}
	return nil
}

// FindByID returns the todo with the given ID, or domain.ErrNotFound.
func (r *TodoRepository) FindByID(ctx context.Context, id string) (*todo.Todo, error) {
	var row model.Todo

	err := r.conn(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("todo %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("finding todo %s: %w", id, err)
	}
	return row.ToDomain(), nil
}

// FindAll returns every todo, oldest first. Rows created in the same instant
// are ordered by ID.
func (r *TodoRepository) FindAll(ctx context.Context) ([]todo.Todo, error) {
	var rows []model.Todo

	if err := r.conn(ctx).Order("created_at ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing todos: %w", err)
	}

	todos := make([]todo.Todo, 0, len(rows))
	for _, row := range rows {
		todos = append(todos, *row.ToDomain())
	}
	return todos, nil
}

// Delete removes the row with t's ID. It succeeds when no such row exists.
func (r *TodoRepository) Delete(ctx context.Context, t *todo.Todo) error {
	if err := r.conn(ctx).Where("id = ?", t.ID()).Delete(&model.Todo{}).Error; err != nil {
		return fmt.Errorf("deleting todo %s: %w", t.ID(), err)
	}
	return nil
}
