package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	adapthttp "github.com/jsamuelsen11/go-todo-service/internal/adapters/http"
	"github.com/jsamuelsen11/go-todo-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/go-todo-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/go-todo-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/go-todo-service/internal/adapters/persistence"
	"github.com/jsamuelsen11/go-todo-service/internal/app"
	appctx "github.com/jsamuelsen11/go-todo-service/internal/app/context"
	"github.com/jsamuelsen11/go-todo-service/internal/platform/config"
	"github.com/jsamuelsen11/go-todo-service/internal/platform/database"
	"github.com/jsamuelsen11/go-todo-service/internal/platform/health"
)

// newAPI wires the full stack over a temp SQLite database.
func newAPI(t *testing.T) http.Handler {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, config.DatabaseConfig{
		Driver:       database.DriverSQLite,
		DSN:          filepath.Join(t.TempDir(), "api.sqlite"),
		MaxOpenConns: 2,
		MaxIdleConns: 2,
	}, discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, persistence.Migrate(ctx, db))

	provider := appctx.NewProvider[*gorm.DB](db)
	svc := app.NewTodoService(
		persistence.NewTodoRepository(provider),
		persistence.NewTransactionService(provider),
		discardLogger(),
	)

	registry := health.New()
	registry.Register(database.NewHealthChecker(db))

	return adapthttp.NewRouter(
		handlers.NewTodoHandler(svc),
		handlers.NewHealthHandler(registry),
		adapthttp.Middlewares{
			Global: []func(http.Handler) http.Handler{
				middleware.Recovery(discardLogger()),
				middleware.RequestID(),
				middleware.Logging(discardLogger()),
			},
		},
	)
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestAPI_TodoLifecycle(t *testing.T) {
	t.Parallel()
	api := newAPI(t)

	rec := do(t, api, http.MethodPost, "/api/v1/todos", `{"title":"Write report","description":"Q3 numbers"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[dto.TodoResponse](t, rec)
	require.NotEmpty(t, created.ID)
	require.False(t, created.Completed)
	path := "/api/v1/todos/" + created.ID

	rec = do(t, api, http.MethodPut, path+"/complete", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.True(t, decode[dto.TodoResponse](t, rec).Completed)

	rec = do(t, api, http.MethodPut, path+"/complete", "")
	require.Equal(t, http.StatusConflict, rec.Code, "completing twice must conflict")

	rec = do(t, api, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, decode[dto.TodoResponse](t, rec).Completed, "failed toggle must not change state")

	rec = do(t, api, http.MethodPut, path, `{"title":"Write final report"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[dto.TodoResponse](t, rec)
	require.Equal(t, "Write final report", updated.Title)
	require.Nil(t, updated.Description)
	require.True(t, updated.Completed)

	rec = do(t, api, http.MethodPut, path+"/uncomplete", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.False(t, decode[dto.TodoResponse](t, rec).Completed)

	rec = do(t, api, http.MethodGet, "/api/v1/todos", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, decode[dto.TodoListResponse](t, rec).Count)

	rec = do(t, api, http.MethodDelete, path, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, api, http.MethodGet, path, "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, api, http.MethodDelete, path, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_ValidationLeavesStoreUnchanged(t *testing.T) {
	t.Parallel()
	api := newAPI(t)

	rec := do(t, api, http.MethodPost, "/api/v1/todos", `{"title":"x"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, api, http.MethodGet, "/api/v1/todos", "")
	require.Equal(t, 0, decode[dto.TodoListResponse](t, rec).Count)
}

func TestAPI_Readiness(t *testing.T) {
	t.Parallel()
	api := newAPI(t)

	rec := do(t, api, http.MethodGet, "/health/ready", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}
