package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"finanzas/internal/core"
	applog "finanzas/internal/log"
)

// envelope is the body of every API response.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

func writeCreated(w http.ResponseWriter, data any, message string) {
	writeJSON(w, http.StatusCreated, envelope{Success: true, Data: data, Message: message})
}

func writeMessage(w http.ResponseWriter, data any, message string) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data, Message: message})
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Message: message})
}

// statusFor maps the core error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrValidation), errors.Is(err, core.ErrInvalidTerm):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError reports err under the given action prefix. Server-side failures
// are logged in full and answered with the prefix only.
func writeError(w http.ResponseWriter, r *http.Request, action string, err error) {
	status := statusFor(err)
	message := action + ": " + err.Error()
	switch status {
	case http.StatusInternalServerError:
		applog.FromContext(r.Context()).ErrorContext(r.Context(), action, "error", err, "path", r.URL.Path)
		if errors.Is(err, core.ErrTransactionFailed) {
			message = action + ": no se guardó ningún cambio"
		} else {
			message = action
		}
	case http.StatusServiceUnavailable:
		applog.FromContext(r.Context()).ErrorContext(r.Context(), action, "error", err, "path", r.URL.Path)
		message = "Error de conexión"
	}
	writeFailure(w, status, message)
}

func notFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeFailure(w, http.StatusNotFound, "Recurso no encontrado")
	})
}

func methodNotAllowedHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeFailure(w, http.StatusMethodNotAllowed, "Método no permitido")
	})
}
