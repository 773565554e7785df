package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/go-todo-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/go-todo-service/internal/domain/todo"
	"github.com/jsamuelsen11/go-todo-service/mocks"
)

const testTodoID = "0190a6d2-7f3e-7c4a-9b1e-2d3f4a5b6c7d"

func strPtr(s string) *string { return &s }

func sampleTodo(completed bool) *todo.Todo {
	return todo.FromPrimitives(todo.Primitives{
		ID:          testTodoID,
		Title:       "Buy groceries",
		Description: strPtr("Milk, eggs, bread"),
		Completed:   completed,
	})
}

// todoRoutes mounts h the way the API router does, so chi resolves {id}.
func todoRoutes(h *handlers.TodoHandler) http.Handler {
	r := chi.NewRouter()
	r.Route("/api/v1/todos", func(r chi.Router) {
		r.Get("/", h.ListTodos)
		r.Post("/", h.CreateTodo)
		r.Get("/{id}", h.GetTodo)
		r.Put("/{id}", h.UpdateTodo)
		r.Delete("/{id}", h.DeleteTodo)
		r.Put("/{id}/complete", h.CompleteTodo)
		r.Put("/{id}/uncomplete", h.UncompleteTodo)
	})
	return r
}

// serve sends one request through a TodoHandler backed by svc.
func serve(t *testing.T, svc *mocks.MockTodoService, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var rdr io.Reader = http.NoBody
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	todoRoutes(handlers.NewTodoHandler(svc)).ServeHTTP(rec, req)
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out), "body: %s", rec.Body.String())
	return out
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, rec.Code, "body: %s", rec.Body.String())
}
