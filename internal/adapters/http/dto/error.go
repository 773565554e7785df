package dto

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/jsamuelsen11/go-todo-service/internal/domain"
)

// ProblemContentType is the media type of every error body.
const ProblemContentType = "application/problem+json"

// Problem is an RFC 9457 Problem Details body. Type is always "about:blank",
// so Title is the status text.
type Problem struct {
	Type     string         `json:"type"`
	Title    string         `json:"title"`
	Status   int            `json:"status"`
	Detail   string         `json:"detail,omitempty"`
	Instance string         `json:"instance,omitempty"`
	Errors   []FieldProblem `json:"errors,omitempty"`
}

// FieldProblem is one invalid field of a rejected request body.
type FieldProblem struct {
	Location string `json:"location"`
	Message  string `json:"message"`
}

// statusByError is checked in order; the first sentinel err matches wins.
var statusByError = []struct {
	target error
	status int
}{
	{domain.ErrValidation, http.StatusBadRequest},
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrConflict, http.StatusConflict},
	{domain.ErrRateLimited, http.StatusTooManyRequests},
	{domain.ErrUnavailable, http.StatusBadGateway},
	{context.DeadlineExceeded, http.StatusGatewayTimeout},
}

// StatusFor returns the HTTP status err maps to, 500 when nothing matches.
func StatusFor(err error) int {
	for _, m := range statusByError {
		if errors.Is(err, m.target) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}

// NewProblem builds the Problem for err. Validation errors list their fields
// under Errors, ordered by location.
func NewProblem(r *http.Request, err error) Problem {
	p := statusProblem(r, StatusFor(err))
	p.Detail = err.Error()

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		p.Errors = fieldProblems(verr.Fields)
	}
	return p
}

// WriteErrorResponse writes the Problem for err.
func WriteErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	writeProblem(w, r, NewProblem(r, err))
}

// WriteStatusResponse writes a bare Problem for status, for router-level
// outcomes such as 405 that carry no error.
func WriteStatusResponse(w http.ResponseWriter, r *http.Request, status int) {
	writeProblem(w, r, statusProblem(r, status))
}

func statusProblem(r *http.Request, status int) Problem {
	return Problem{
		Type:     "about:blank",
		Title:    http.StatusText(status),
		Status:   status,
		Instance: r.RequestURI,
	}
}

func writeProblem(w http.ResponseWriter, r *http.Request, p Problem) {
	w.Header().Set("Content-Type", ProblemContentType)
	w.WriteHeader(p.Status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		slog.ErrorContext(r.Context(), "encoding problem response", slog.Any("error", err))
	}
}

func fieldProblems(fields map[string]string) []FieldProblem {
	out := make([]FieldProblem, 0, len(fields))
	for field, msg := range fields {
		out = append(out, FieldProblem{Location: "body." + field, Message: msg})
	}
	slices.SortFunc(out, func(a, b FieldProblem) int {
		return strings.Compare(a.Location, b.Location)
	})
	return out
}
