package handlers

import (
	"log/slog"
	"net/http"

	"github.com/jsamuelsen11/go-todo-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/go-todo-service/internal/platform/logging"
	"github.com/jsamuelsen11/go-todo-service/internal/ports"
)

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	registry ports.HealthRegistry
}

func NewHealthHandler(registry ports.HealthRegistry) *HealthHandler {
	return &HealthHandler{registry: registry}
}

// Liveness handles GET /health/live. The process answering is the check.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, dto.HealthResponse{Status: dto.HealthOK})
}

// Readiness handles GET /health/ready: 200 when every registered dependency
// answers, 503 otherwise. Check errors are logged, never returned to the
// caller.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	resp := dto.HealthResponse{Status: dto.HealthReady, Checks: make(map[string]string)}
	for name, err := range h.registry.CheckAll(ctx) {
		if err == nil {
			resp.Checks[name] = dto.HealthOK
			continue
		}
		logger.WarnContext(ctx, "readiness check failed", slog.String("check", name), slog.Any("error", err))
		resp.Checks[name] = dto.HealthUnavailable
		resp.Status = dto.HealthNotReady
	}

	code := http.StatusOK
	if resp.Status != dto.HealthReady {
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, r, code, resp)
}
