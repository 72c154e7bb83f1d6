package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/queuectl/queuectl/storage"
)

// errorResponse is the standard error body, matching the
// code/message shape of the dashboards this package is modeled on.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "err", err)
	}
}

func ok(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, data)
}

func created(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusCreated, data)
}

func writeError(w http.ResponseWriter, code, message string, status int) {
	writeJSON(w, status, errorResponse{Error: errorDetail{Code: code, Message: message}})
}

func badRequest(w http.ResponseWriter, message string) {
	writeError(w, "INVALID_REQUEST", message, http.StatusBadRequest)
}

func notFound(w http.ResponseWriter, resource string) {
	writeError(w, "NOT_FOUND", resource+" not found", http.StatusNotFound)
}

func conflict(w http.ResponseWriter, message string) {
	writeError(w, "CONFLICT", message, http.StatusConflict)
}

func internalError(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "internal server error", "err", err)
	writeError(w, "INTERNAL_ERROR", "an internal error occurred", http.StatusInternalServerError)
}

// fromStoreError maps the storage package's sentinel errors to HTTP
// responses, the same dispatch-by-errors.Is shape this package's
// reference router uses for its own domain errors.
func fromStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		notFound(w, "job")
	case errors.Is(err, storage.ErrInvalidTransition):
		conflict(w, err.Error())
	case errors.Is(err, storage.ErrValidation):
		badRequest(w, err.Error())
	default:
		internalError(w, r, err)
	}
}
