package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/jsamuelsen11/go-todo-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/go-todo-service/internal/domain/todo"
	"github.com/jsamuelsen11/go-todo-service/internal/ports"
)

// TodoHandler serves /api/v1/todos.
type TodoHandler struct {
	svc ports.TodoService
}

// NewTodoHandler returns a TodoHandler backed by svc.
func NewTodoHandler(svc ports.TodoService) *TodoHandler {
	return &TodoHandler{svc: svc}
}

// ListTodos handles GET /api/v1/todos.
func (h *TodoHandler) ListTodos(w http.ResponseWriter, r *http.Request) {
	todos, err := h.svc.ListTodos(r.Context())
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.ToTodoListResponse(todos))
}

// CreateTodo handles POST /api/v1/todos and answers 201 with the new todo.
func (h *TodoHandler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	req, ok := readTodo(w, r)
	if !ok {
		return
	}

	created, err := h.svc.CreateTodo(r.Context(), ports.CreateTodoInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, dto.ToTodoResponse(created))
}

// GetTodo handles GET /api/v1/todos/{id}.
func (h *TodoHandler) GetTodo(w http.ResponseWriter, r *http.Request) {
	h.respondTodo(w, r, h.svc.GetTodo)
}

// UpdateTodo handles PUT /api/v1/todos/{id}. The path ID is checked before
// the body is read.
func (h *TodoHandler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	h.respondTodo(w, r, func(ctx context.Context, id string) (*todo.Todo, error) {
		req, ok := readTodo(w, r)
		if !ok {
			return nil, errResponseWritten
		}
		return h.svc.UpdateTodo(ctx, id, ports.UpdateTodoInput{
			Title:       req.Title,
			Description: req.Description,
		})
	})
}

// CompleteTodo handles PUT /api/v1/todos/{id}/complete.
func (h *TodoHandler) CompleteTodo(w http.ResponseWriter, r *http.Request) {
	h.respondTodo(w, r, h.svc.MarkTodoCompleted)
}

// UncompleteTodo handles PUT /api/v1/todos/{id}/uncomplete.
func (h *TodoHandler) UncompleteTodo(w http.ResponseWriter, r *http.Request) {
	h.respondTodo(w, r, h.svc.MarkTodoNotCompleted)
}

// DeleteTodo handles DELETE /api/v1/todos/{id} and answers 204.
func (h *TodoHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err == nil {
		err = h.svc.DeleteTodo(r.Context(), id)
	}
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// respondTodo runs op against the {id} path parameter and writes the todo it
// returns with 200.
func (h *TodoHandler) respondTodo(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, id string) (*todo.Todo, error),
) {
	id, err := pathID(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	t, err := op(r.Context(), id)
	switch {
	case errors.Is(err, errResponseWritten):
	case err != nil:
		dto.WriteErrorResponse(w, r, err)
	default:
		writeJSON(w, r, http.StatusOK, dto.ToTodoResponse(t))
	}
}

// errResponseWritten tells respondTodo that op already answered the request.
var errResponseWritten = errors.New("response already written")
