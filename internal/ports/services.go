package ports

import (
	"context"

	"github.com/jsamuelsen11/go-todo-service/internal/domain/todo"
)

// TodoService defines the service port for todo use cases.
// Implemented by the application layer; called by inbound adapters (handlers).
// Every mutating operation runs as a single transaction.
type TodoService interface {
	// ListTodos returns every stored todo.
	ListTodos(ctx context.Context) ([]todo.Todo, error)

	// GetTodo returns a single todo by ID.
	// Returns domain.ErrNotFound if the todo does not exist.
	GetTodo(ctx context.Context, id string) (*todo.Todo, error)

	// CreateTodo creates and persists a new, not-completed todo.
	// Returns domain.ErrValidation if the input fails validation.
	CreateTodo(ctx context.Context, input CreateTodoInput) (*todo.Todo, error)

	// UpdateTodo replaces the title and description of an existing todo.
	// Returns domain.ErrNotFound if the todo does not exist.
	// Returns domain.ErrValidation if the input fails validation.
	UpdateTodo(ctx context.Context, id string, input UpdateTodoInput) (*todo.Todo, error)

	// MarkTodoCompleted marks a todo as completed.
	// Returns domain.ErrNotFound if the todo does not exist and
	// domain.ErrConflict if it is already completed.
	MarkTodoCompleted(ctx context.Context, id string) (*todo.Todo, error)

	// MarkTodoNotCompleted marks a todo as not completed.
	// Returns domain.ErrNotFound if the todo does not exist and
	// domain.ErrConflict if it is not completed.
	MarkTodoNotCompleted(ctx context.Context, id string) (*todo.Todo, error)

	// DeleteTodo removes a todo.
	// Returns domain.ErrNotFound if the todo does not exist.
	DeleteTodo(ctx context.Context, id string) error
}

// CreateTodoInput carries the fields accepted when creating a todo.
type CreateTodoInput struct {
	Title       string
	Description *string
}

// UpdateTodoInput carries the replacement values for a todo's mutable fields.
type UpdateTodoInput struct {
	Title       string
	Description *string
}
