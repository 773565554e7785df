package http_test

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	adapthttp "github.com/jsamuelsen11/go-todo-service/internal/adapters/http"
	"github.com/jsamuelsen11/go-todo-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/go-todo-service/internal/domain/todo"
	"github.com/jsamuelsen11/go-todo-service/mocks"
)

type routerDeps struct {
	svc      *mocks.MockTodoService
	registry *mocks.MockHealthRegistry
}

func newTestRouter(t *testing.T, mw adapthttp.Middlewares) (http.Handler, routerDeps) {
	t.Helper()

	deps := routerDeps{
		svc:      mocks.NewMockTodoService(t),
		registry: mocks.NewMockHealthRegistry(t),
	}
	router := adapthttp.NewRouter(
		handlers.NewTodoHandler(deps.svc),
		handlers.NewHealthHandler(deps.registry),
		mw,
	)
	return router, deps
}

func TestRouter_Routes(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, adapthttp.Middlewares{})
	mux, ok := router.(chi.Routes)
	require.True(t, ok)

	var got []string
	require.NoError(t, chi.Walk(mux, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		got = append(got, method+" "+route)
		return nil
	}))

	assert.Subset(t, got, []string{
		"GET /health/live",
		"GET /health/ready",
		"GET /api/v1/todos",
		"POST /api/v1/todos",
		"GET /api/v1/todos/{id}",
		"PUT /api/v1/todos/{id}",
		"DELETE /api/v1/todos/{id}",
		"PUT /api/v1/todos/{id}/complete",
		"PUT /api/v1/todos/{id}/uncomplete",
	}, got)
}

func TestRouter_MiddlewareScopes(t *testing.T) {
	t.Parallel()

	var global, api atomic.Int32
	count := func(n *atomic.Int32) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n.Add(1)
				next.ServeHTTP(w, r)
			})
		}
	}

	router, deps := newTestRouter(t, adapthttp.Middlewares{
		Global: []func(http.Handler) http.Handler{count(&global)},
		API:    []func(http.Handler) http.Handler{count(&api)},
	})
	deps.registry.EXPECT().CheckAll(mock.Anything).Return(map[string]error{})
	deps.svc.EXPECT().ListTodos(mock.Anything).Return([]todo.Todo{}, nil)

	steps := []struct {
		target              string
		wantGlobal, wantAPI int32
	}{
		{"/health/ready", 1, 0},
		{"/api/v1/todos", 2, 1},
		{"/nowhere", 3, 1},
	}
	for _, s := range steps {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, s.target, http.NoBody))
		assert.Equal(t, s.wantGlobal, global.Load(), "global after %s", s.target)
		assert.Equal(t, s.wantAPI, api.Load(), "api after %s", s.target)
	}
}

func TestRouter_Fallbacks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		method     string
		target     string
		wantStatus int
	}{
		{"unknown path", http.MethodGet, "/nonexistent", http.StatusNotFound},
		{"unknown API path", http.MethodGet, "/api/v1/projects", http.StatusNotFound},
		{"wrong method", http.MethodPatch, "/api/v1/todos", http.StatusMethodNotAllowed},
		{"wrong method on item", http.MethodPost, "/api/v1/todos/0190a6d2-7f3e-7c4a-9b1e-2d3f4a5b6c7d", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router, _ := newTestRouter(t, adapthttp.Middlewares{})
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.target, http.NoBody))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
		})
	}
}
