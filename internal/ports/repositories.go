package ports

import (
	"context"

	"github.com/jsamuelsen11/go-todo-service/internal/domain/todo"
)

// TodoRepository persists todos. Implementations resolve their database
// handle from ctx, so calls made inside TransactionService.Run take part in
// that transaction without any extra parameter.
type TodoRepository interface {
	// Save inserts the todo, or overwrites the stored row with the same ID.
	Save(ctx context.Context, t *todo.Todo) error

	// FindByID returns the todo with the given ID.
	// Returns domain.ErrNotFound if no row matches.
	FindByID(ctx context.Context, id string) (*todo.Todo, error)

	// FindAll returns every stored todo ordered by creation time.
	FindAll(ctx context.Context) ([]todo.Todo, error)

	// Delete removes the row with the todo's ID. Deleting a todo that is not
	// stored succeeds.
	Delete(ctx context.Context, t *todo.Todo) error
}
