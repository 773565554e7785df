// Package dto provides HTTP request/response data transfer objects and
// RFC 9457 Problem Details error responses for the inbound HTTP adapter layer.
package dto

import (
	"github.com/jsamuelsen11/go-todo-service/internal/domain/todo"
)

// TodoResponse represents a single todo in HTTP responses. A todo without a
// description serializes it as null.
type TodoResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Completed   bool    `json:"completed"`
}

// TodoListResponse represents a list of todos in HTTP responses.
type TodoListResponse struct {
	Todos []TodoResponse `json:"todos"`
	Count int            `json:"count"`
}

// ToTodoResponse converts a domain Todo entity to an HTTP response DTO.
func ToTodoResponse(t *todo.Todo) TodoResponse {
	p := t.Primitives()
	return TodoResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Completed:   p.Completed,
	}
}

// ToTodoListResponse converts a slice of domain Todo entities to an HTTP list
// response DTO. An empty slice produces an empty JSON array, not null.
func ToTodoListResponse(todos []todo.Todo) TodoListResponse {
	items := make([]TodoResponse, len(todos))
	for i := range todos {
		items[i] = ToTodoResponse(&todos[i])
	}
	return TodoListResponse{
		Todos: items,
		Count: len(items),
	}
}

// Health statuses reported by the liveness and readiness endpoints.
const (
	HealthOK          = "ok"
	HealthReady       = "ready"
	HealthNotReady    = "not_ready"
	HealthUnavailable = "unavailable"
)

// HealthResponse is the body of /health/live and /health/ready. Checks maps a
// dependency name to HealthOK or HealthUnavailable and is omitted for
// liveness.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}
