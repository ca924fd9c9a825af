package http

import (
	"context"
	"net/http"
	"time"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeData(w, map[string]any{
		"status":    "ok",
		"timestamp": s.now().UTC().Format(time.RFC3339),
		"uptime":    s.now().Sub(s.started).Round(time.Second).String(),
	})
}

// handleReady pings the store.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]string{"store": "ok"}
	if s.store == nil {
		checks["store"] = "not configured"
	} else if err := s.store.Ping(ctx); err != nil {
		checks["store"] = "failed: " + err.Error()
		writeJSON(w, http.StatusServiceUnavailable, envelope{
			Success: false,
			Data:    map[string]any{"status": "not_ready", "checks": checks},
			Message: "Error de conexión",
		})
		return
	}
	writeData(w, map[string]any{"status": "ready", "checks": checks})
}
