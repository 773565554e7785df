package app

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen11/go-todo-service/internal/domain"
	"github.com/jsamuelsen11/go-todo-service/internal/domain/todo"
	"github.com/jsamuelsen11/go-todo-service/internal/ports"
	"github.com/jsamuelsen11/go-todo-service/mocks"
)

var errStore = errors.New("store unavailable")

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func strPtr(v string) *string { return &v }

// txKey marks contexts produced by the fake transaction so tests can assert
// that repository calls happened inside Run.
type txKey struct{}

// passthroughTx makes the transaction mock execute the unit of work with a
// marked context and return its error unchanged.
func passthroughTx(tx *mocks.MockTransactionService) {
	tx.EXPECT().Run(mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
			return fn(context.WithValue(ctx, txKey{}, true))
		})
}

// inTx matches contexts created by passthroughTx.
var inTx = mock.MatchedBy(func(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
})

func newService(t *testing.T) (*TodoService, *mocks.MockTodoRepository, *mocks.MockTransactionService) {
	t.Helper()
	repo := mocks.NewMockTodoRepository(t)
	tx := mocks.NewMockTransactionService(t)
	return NewTodoService(repo, tx, discardLogger()), repo, tx
}

func storedTodo(completed bool) *todo.Todo {
	return todo.FromPrimitives(todo.Primitives{
		ID:          "0190a6d2-7f3e-7c4a-9b1e-2d3f4a5b6c7d",
		Title:       "Buy groceries",
		Description: strPtr("Milk, eggs, bread"),
		Completed:   completed,
	})
}

// --- NewTodoService ---

func TestNewTodoService_NilLogger(t *testing.T) {
	t.Parallel()

	svc := NewTodoService(mocks.NewMockTodoRepository(t), mocks.NewMockTransactionService(t), nil)
	if svc.logger == nil {
		t.Fatal("NewTodoService(nil logger) should create a no-op logger, got nil")
	}
}

// --- ListTodos ---

func TestTodoService_ListTodos(t *testing.T) {
	t.Parallel()

	t.Run("returns todos without a transaction", func(t *testing.T) {
		t.Parallel()
		svc, repo, _ := newService(t)

		want := []todo.Todo{*storedTodo(false), *storedTodo(true)}
		repo.EXPECT().FindAll(mock.Anything).Return(want, nil)

		got, err := svc.ListTodos(context.Background())
		if err != nil {
			t.Fatalf("ListTodos() error = %v, want nil", err)
		}
		if len(got) != 2 {
			t.Errorf("ListTodos() len = %d, want 2", len(got))
		}
	})

	t.Run("propagates store failure", func(t *testing.T) {
		t.Parallel()
		svc, repo, _ := newService(t)

		repo.EXPECT().FindAll(mock.Anything).Return(nil, errStore)

		if _, err := svc.ListTodos(context.Background()); !errors.Is(err, errStore) {
			t.Errorf("ListTodos() error = %v, want errStore", err)
		}
	})
}

// --- GetTodo ---

func TestTodoService_GetTodo(t *testing.T) {
	t.Parallel()

	t.Run("returns the todo", func(t *testing.T) {
		t.Parallel()
		svc, repo, _ := newService(t)
		want := storedTodo(false)

		repo.EXPECT().FindByID(mock.Anything, want.ID()).Return(want, nil)

		got, err := svc.GetTodo(context.Background(), want.ID())
		if err != nil {
			t.Fatalf("GetTodo() error = %v", err)
		}
		if got.ID() != want.ID() {
			t.Errorf("GetTodo().ID() = %q, want %q", got.ID(), want.ID())
		}
	})

	t.Run("returns not found", func(t *testing.T) {
		t.Parallel()
		svc, repo, _ := newService(t)

		repo.EXPECT().FindByID(mock.Anything, "missing").Return(nil, domain.ErrNotFound)

		if _, err := svc.GetTodo(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("GetTodo() error = %v, want ErrNotFound", err)
		}
	})
}

// --- CreateTodo ---

func TestTodoService_CreateTodo(t *testing.T) {
	t.Parallel()

	t.Run("saves inside a transaction", func(t *testing.T) {
		t.Parallel()
		svc, repo, tx := newService(t)
		passthroughTx(tx)

		var saved *todo.Todo
		repo.EXPECT().Save(inTx, mock.AnythingOfType("*todo.Todo")).
			Run(func(_ context.Context, td *todo.Todo) { saved = td }).
			Return(nil)

		got, err := svc.CreateTodo(context.Background(), ports.CreateTodoInput{
			Title:       "Write report",
			Description: strPtr("quarterly"),
		})
		if err != nil {
			t.Fatalf("CreateTodo() error = %v", err)
		}
		if got != saved {
			t.Error("CreateTodo() returned a different todo than the one saved")
		}
		if got.Title() != "Write report" || got.Completed() {
			t.Errorf("CreateTodo() = %+v, want title %q and not completed", got.Primitives(), "Write report")
		}
		if got.ID() == "" {
			t.Error("CreateTodo() returned an empty ID")
		}
	})

	t.Run("rejects invalid input before opening a transaction", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newService(t)

		_, err := svc.CreateTodo(context.Background(), ports.CreateTodoInput{Title: ""})
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("CreateTodo() error = %v, want ErrValidation", err)
		}
	})

	t.Run("returns the save error", func(t *testing.T) {
		t.Parallel()
		svc, repo, tx := newService(t)
		passthroughTx(tx)

		repo.EXPECT().Save(inTx, mock.Anything).Return(errStore)

		_, err := svc.CreateTodo(context.Background(), ports.CreateTodoInput{Title: "Write report"})
		if !errors.Is(err, errStore) {
			t.Errorf("CreateTodo() error = %v, want errStore", err)
		}
	})
}

// --- UpdateTodo ---

func TestTodoService_UpdateTodo(t *testing.T) {
	t.Parallel()

	t.Run("replaces fields and saves", func(t *testing.T) {
		t.Parallel()
		svc, repo, tx := newService(t)
		passthroughTx(tx)
		existing := storedTodo(true)

		repo.EXPECT().FindByID(inTx, existing.ID()).Return(existing, nil)
		repo.EXPECT().Save(inTx, existing).Return(nil)

		got, err := svc.UpdateTodo(context.Background(), existing.ID(), ports.UpdateTodoInput{Title: "Renamed"})
		if err != nil {
			t.Fatalf("UpdateTodo() error = %v", err)
		}
		if got.Title() != "Renamed" {
			t.Errorf("Title() = %q, want %q", got.Title(), "Renamed")
		}
		if got.Description() != nil {
			t.Errorf("Description() = %q, want nil", *got.Description())
		}
		if !got.Completed() {
			t.Error("Completed() = false, update must not touch completion")
		}
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		svc, repo, tx := newService(t)
		passthroughTx(tx)

		repo.EXPECT().FindByID(inTx, "missing").Return(nil, domain.ErrNotFound)

		_, err := svc.UpdateTodo(context.Background(), "missing", ports.UpdateTodoInput{Title: "Renamed"})
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("UpdateTodo() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("invalid title is not saved", func(t *testing.T) {
		t.Parallel()
		svc, repo, tx := newService(t)
		passthroughTx(tx)
		existing := storedTodo(false)

		repo.EXPECT().FindByID(inTx, existing.ID()).Return(existing, nil)

		_, err := svc.UpdateTodo(context.Background(), existing.ID(), ports.UpdateTodoInput{Title: "x"})
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("UpdateTodo() error = %v, want ErrValidation", err)
		}
	})
}

// --- MarkTodoCompleted / MarkTodoNotCompleted ---

func TestTodoService_MarkTodoCompleted(t *testing.T) {
	t.Parallel()

	t.Run("completes and saves", func(t *testing.T) {
		t.Parallel()
		svc, repo, tx := newService(t)
		passthroughTx(tx)
		existing := storedTodo(false)

		repo.EXPECT().FindByID(inTx, existing.ID()).Return(existing, nil)
		repo.EXPECT().Save(inTx, existing).Return(nil)

		got, err := svc.MarkTodoCompleted(context.Background(), existing.ID())
		if err != nil {
			t.Fatalf("MarkTodoCompleted() error = %v", err)
		}
		if !got.Completed() {
			t.Error("Completed() = false, want true")
		}
	})

	t.Run("already completed is a conflict and nothing is saved", func(t *testing.T) {
		t.Parallel()
		svc, repo, tx := newService(t)
		passthroughTx(tx)
		existing := storedTodo(true)

		repo.EXPECT().FindByID(inTx, existing.ID()).Return(existing, nil)

		_, err := svc.MarkTodoCompleted(context.Background(), existing.ID())
		if !errors.Is(err, todo.ErrAlreadyCompleted) {
			t.Errorf("MarkTodoCompleted() error = %v, want ErrAlreadyCompleted", err)
		}
		if !errors.Is(err, domain.ErrConflict) {
			t.Errorf("errors.Is(err, ErrConflict) = false for %v", err)
		}
	})
}

func TestTodoService_MarkTodoNotCompleted(t *testing.T) {
	t.Parallel()

	t.Run("reopens and saves", func(t *testing.T) {
		t.Parallel()
		svc, repo, tx := newService(t)
		passthroughTx(tx)
		existing := storedTodo(true)

		repo.EXPECT().FindByID(inTx, existing.ID()).Return(existing, nil)
		repo.EXPECT().Save(inTx, existing).Return(nil)

		got, err := svc.MarkTodoNotCompleted(context.Background(), existing.ID())
		if err != nil {
			t.Fatalf("MarkTodoNotCompleted() error = %v", err)
		}
		if got.Completed() {
			t.Error("Completed() = true, want false")
		}
	})

	t.Run("not completed is a conflict", func(t *testing.T) {
		t.Parallel()
		svc, repo, tx := newService(t)
		passthroughTx(tx)
		existing := storedTodo(false)

		repo.EXPECT().FindByID(inTx, existing.ID()).Return(existing, nil)

		_, err := svc.MarkTodoNotCompleted(context.Background(), existing.ID())
		if !errors.Is(err, todo.ErrNotCompleted) {
			t.Errorf("MarkTodoNotCompleted() error = %v, want ErrNotCompleted", err)
		}
	})

	t.Run("save failure surfaces", func(t *testing.T) {
		t.Parallel()
		svc, repo, tx := newService(t)
		passthroughTx(tx)
		existing := storedTodo(true)

		repo.EXPECT().FindByID(inTx, existing.ID()).Return(existing, nil)
		repo.EXPECT().Save(inTx, existing).Return(errStore)

		_, err := svc.MarkTodoNotCompleted(context.Background(), existing.ID())
		if !errors.Is(err, errStore) {
			t.Errorf("MarkTodoNotCompleted() error = %v, want errStore", err)
		}
	})
}

// --- DeleteTodo ---

func TestTodoService_DeleteTodo(t *testing.T) {
	t.Parallel()

	t.Run("finds then deletes inside a transaction", func(t *testing.T) {
		t.Parallel()
		svc, repo, tx := newService(t)
		passthroughTx(tx)
		existing := storedTodo(false)

		repo.EXPECT().FindByID(inTx, existing.ID()).Return(existing, nil)
		repo.EXPECT().Delete(inTx, existing).Return(nil)

		if err := svc.DeleteTodo(context.Background(), existing.ID()); err != nil {
			t.Fatalf("DeleteTodo() error = %v", err)
		}
	})

	t.Run("missing todo is not found", func(t *testing.T) {
		t.Parallel()
		svc, repo, tx := newService(t)
		passthroughTx(tx)

		repo.EXPECT().FindByID(inTx, "missing").Return(nil, domain.ErrNotFound)

		if err := svc.DeleteTodo(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("DeleteTodo() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("transaction failure surfaces", func(t *testing.T) {
		t.Parallel()
		svc, _, tx := newService(t)
		commitErr := errors.New("committing transaction: disk I/O error")

		tx.EXPECT().Run(mock.Anything, mock.Anything).Return(commitErr)

		if err := svc.DeleteTodo(context.Background(), "any"); !errors.Is(err, commitErr) {
			t.Errorf("DeleteTodo() error = %v, want commitErr", err)
		}
	})
}
