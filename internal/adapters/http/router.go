// Package http is the inbound HTTP adapter: routing, middleware and server
// lifecycle for the todo API.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/go-todo-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/go-todo-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/go-todo-service/internal/domain"
)

// APIPrefix is the mount point of the versioned API.
const APIPrefix = "/api/v1"

// Middlewares are the two stacks NewRouter installs, outermost first. Global
// wraps everything including the health probes; API wraps only APIPrefix, so
// rate limiting and idempotency never reach orchestrator probes.
type Middlewares struct {
	Global []func(http.Handler) http.Handler
	API    []func(http.Handler) http.Handler
}

type route struct {
	method, pattern string
	handler         http.HandlerFunc
}

func todoRoutes(h *handlers.TodoHandler) []route {
	return []route{
		{http.MethodGet, "/todos", h.ListTodos},
		{http.MethodPost, "/todos", h.CreateTodo},
		{http.MethodGet, "/todos/{id}", h.GetTodo},
		{http.MethodPut, "/todos/{id}", h.UpdateTodo},
		{http.MethodDelete, "/todos/{id}", h.DeleteTodo},
		{http.MethodPut, "/todos/{id}/complete", h.CompleteTodo},
		{http.MethodPut, "/todos/{id}/uncomplete", h.UncompleteTodo},
	}
}

// NewRouter returns the service's root handler. Unmatched paths answer 404
// and unsupported methods 405, both as problem+json.
func NewRouter(todo *handlers.TodoHandler, health *handlers.HealthHandler, mw Middlewares) http.Handler {
	r := chi.NewRouter()
	r.Use(mw.Global...)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		dto.WriteErrorResponse(w, req, domain.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		dto.WriteStatusResponse(w, req, http.StatusMethodNotAllowed)
	})

	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	r.Route(APIPrefix, func(api chi.Router) {
		api.Use(mw.API...)
		for _, rt := range todoRoutes(todo) {
			api.Method(rt.method, rt.pattern, rt.handler)
		}
	})

	return r
}
