// Package handlers holds the HTTP handlers for the todo API and the health
// probes. Handlers translate between DTOs and the service ports and leave
// status mapping to dto.WriteErrorResponse.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jsamuelsen11/go-todo-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/go-todo-service/internal/domain"
	"github.com/jsamuelsen11/go-todo-service/internal/platform/logging"
)

// maxBodyBytes caps JSON request bodies at 1 MiB.
const maxBodyBytes = 1 << 20

// pathID reads the {id} URL parameter. Any UUID spelling is accepted and
// returned in canonical lowercase form.
func pathID(r *http.Request) (string, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return "", domain.NewValidationError("id", "must be a valid UUID")
	}
	return id.String(), nil
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "encoding response", slog.Any("error", err))
	}
}

// readTodo decodes and validates a todo body. On failure the problem
// response has already been written and ok is false.
func readTodo(w http.ResponseWriter, r *http.Request) (req dto.TodoRequest, ok bool) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		dto.WriteErrorResponse(w, r, domain.NewValidationError("body", "invalid JSON"))
		return req, false
	}
	if err := req.Validate(); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return req, false
	}
	return req, true
}
