// Package handlers wires HTTP routes to the application services.
package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"ttx-service/internal/app/report"
	"ttx-service/internal/app/scoreboard"
	"ttx-service/internal/app/session"
	"ttx-service/internal/archive"
)

type nowFunc func() time.Time

// Handler serves the GM console, player clients, and the audience
// scoreboard.
type Handler struct {
	sessions   *session.Service
	scoreboard *scoreboard.Service
	reports    *report.Service
	logger     *slog.Logger
	now        nowFunc
	statusFn   func() archive.Status
}

// NewHandler constructs a Handler with defaults.
func NewHandler(sessions *session.Service, board *scoreboard.Service, reports *report.Service, logger *slog.Logger, statusFn func() archive.Status) *Handler {
	return &Handler{
		sessions:   sessions,
		scoreboard: board,
		reports:    reports,
		logger:     logger,
		now:        time.Now,
		statusFn:   statusFn,
	}
}

// Health reports the service health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "", "shutting down", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic. The archive sweeper is a
// background concern, so repeated sweep failures degrade readiness
// without taking the API down.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.statusFn != nil {
		if status := h.statusFn(); status.ConsecutiveFailures >= 3 {
			msg := status.LastError
			if msg == "" {
				msg = "not ready"
			}
			writeError(w, r, http.StatusServiceUnavailable, "", msg, h.logger)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
}
