// Package app provides application services that orchestrate use cases by
// coordinating between domain logic and infrastructure through port interfaces.
package app

import (
	"context"
	"log/slog"

	appctx "github.com/jsamuelsen11/go-todo-service/internal/app/context"
	"github.com/jsamuelsen11/go-todo-service/internal/domain/todo"
	"github.com/jsamuelsen11/go-todo-service/internal/ports"
)

// Compile-time check that TodoService implements ports.TodoService.
var _ ports.TodoService = (*TodoService)(nil)

// TodoService implements ports.TodoService. Reads go straight to the
// repository; every write runs as one transaction through the
// TransactionService, and the repository picks the transaction up from ctx.
type TodoService struct {
	repo   ports.TodoRepository
	tx     ports.TransactionService
	logger *slog.Logger
}

// NewTodoService creates a TodoService. A nil logger discards output.
func NewTodoService(repo ports.TodoRepository, tx ports.TransactionService, logger *slog.Logger) *TodoService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &TodoService{
		repo:   repo,
		tx:     tx,
		logger: logger,
	}
}

// ListTodos returns every stored todo.
func (s *TodoService) ListTodos(ctx context.Context) ([]todo.Todo, error) {
	s.logger.InfoContext(ctx, "listing todos")

	todos, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list todos",
			slog.String("operation", "ListTodos"),
			slog.Any("error", err),
		)
		return nil, err
	}

	return todos, nil
}

// GetTodo returns a single todo by ID.
func (s *TodoService) GetTodo(ctx context.Context, id string) (*todo.Todo, error) {
	s.logger.InfoContext(ctx, "fetching todo", slog.String("todo_id", id))

	td, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to fetch todo",
			slog.String("operation", "GetTodo"),
			slog.String("todo_id", id),
			slog.Any("error", err),
		)
		return nil, err
	}

	return td, nil
}

// CreateTodo validates and stores a new todo.
func (s *TodoService) CreateTodo(ctx context.Context, input ports.CreateTodoInput) (*todo.Todo, error) {
	td := todo.New(input.Title, input.Description)
	s.logger.InfoContext(ctx, "creating todo", slog.String("todo_id", td.ID()))

	if err := td.Validate(); err != nil {
		return nil, err
	}

	if err := s.tx.Run(ctx, func(ctx context.Context) error {
		return s.repo.Save(ctx, td)
	}); err != nil {
		s.logger.ErrorContext(ctx, "failed to create todo",
			slog.String("operation", "CreateTodo"),
			slog.String("todo_id", td.ID()),
			slog.Any("error", err),
		)
		return nil, err
	}

	return td, nil
}

// UpdateTodo replaces the title and description of an existing todo.
func (s *TodoService) UpdateTodo(ctx context.Context, id string, input ports.UpdateTodoInput) (*todo.Todo, error) {
	s.logger.InfoContext(ctx, "updating todo", slog.String("todo_id", id))

	return s.modify(ctx, "UpdateTodo", "failed to update todo", id, func(td *todo.Todo) error {
		td.Update(input.Title, input.Description)
		return td.Validate()
	})
}

// MarkTodoCompleted marks a todo as completed.
func (s *TodoService) MarkTodoCompleted(ctx context.Context, id string) (*todo.Todo, error) {
	s.logger.InfoContext(ctx, "marking todo completed", slog.String("todo_id", id))

	return s.modify(ctx, "MarkTodoCompleted", "failed to mark todo completed", id, (*todo.Todo).MarkAsCompleted)
}

// MarkTodoNotCompleted marks a todo as not completed.
func (s *TodoService) MarkTodoNotCompleted(ctx context.Context, id string) (*todo.Todo, error) {
	s.logger.InfoContext(ctx, "marking todo not completed", slog.String("todo_id", id))

	return s.modify(ctx, "MarkTodoNotCompleted", "failed to mark todo not completed", id, (*todo.Todo).MarkAsNotCompleted)
}

// DeleteTodo removes an existing todo.
func (s *TodoService) DeleteTodo(ctx context.Context, id string) error {
	s.logger.InfoContext(ctx, "deleting todo", slog.String("todo_id", id))

	err := s.tx.Run(ctx, func(ctx context.Context) error {
		td, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		return s.repo.Delete(ctx, td)
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to delete todo",
			slog.String("operation", "DeleteTodo"),
			slog.String("todo_id", id),
			slog.Any("error", err),
		)
		return err
	}

	return nil
}

// modify loads a todo, applies change and saves it, all in one transaction.
// Nothing is saved if change returns an error.
func (s *TodoService) modify(
	ctx context.Context,
	operation, failMsg, id string,
	change func(*todo.Todo) error,
) (*todo.Todo, error) {
	td, err := appctx.Do(ctx, s.tx, func(ctx context.Context) (*todo.Todo, error) {
		td, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := change(td); err != nil {
			return nil, err
		}
		if err := s.repo.Save(ctx, td); err != nil {
			return nil, err
		}
		return td, nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, failMsg,
			slog.String("operation", operation),
			slog.String("todo_id", id),
			slog.Any("error", err),
		)
		return nil, err
	}

	return td, nil
}
