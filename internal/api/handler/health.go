package handler

import (
	"net/http"

	"github.com/jmokaya/mindscreen/internal/api/response"
	"github.com/jmokaya/mindscreen/internal/session"
)

// HealthCheck returns a simple health check response
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{
		"status": "ok",
	})
}

// Stats reports live sessions for operational visibility. IDs are
// ordered oldest first so the next eviction candidate is listed first.
func Stats(store *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]any{
			"active_sessions": store.Count(),
			"session_ids":     store.IDs(),
		})
	}
}
