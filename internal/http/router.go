// Package http assembles the route table for the service.
package http

import (
	nethttp "net/http"

	"github.com/gorilla/mux"

	"ttx-service/internal/http/handlers"
)

// NewRouter registers all routes.
func NewRouter(h *handlers.Handler) nethttp.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.Health).Methods(nethttp.MethodGet)
	r.HandleFunc("/ready", h.Ready).Methods(nethttp.MethodGet)

	// GM console.
	r.HandleFunc("/games", h.CreateGame).Methods(nethttp.MethodPost)
	r.HandleFunc("/games", h.ListGames).Methods(nethttp.MethodGet)
	r.HandleFunc("/games/{id}", h.GetGame).Methods(nethttp.MethodGet)
	r.HandleFunc("/games/{id}", h.DeleteGame).Methods(nethttp.MethodDelete)
	r.HandleFunc("/games/{id}/start", h.StartGame).Methods(nethttp.MethodPost)
	r.HandleFunc("/games/{id}/end", h.EndGame).Methods(nethttp.MethodPost)
	r.HandleFunc("/games/{id}/pause", h.PauseGame).Methods(nethttp.MethodPost)
	r.HandleFunc("/games/{id}/resume", h.ResumeGame).Methods(nethttp.MethodPost)
	r.HandleFunc("/games/{id}/phase/open_for_decisions", h.OpenForDecisions).Methods(nethttp.MethodPost)
	r.HandleFunc("/games/{id}/phase/lock_decisions", h.LockDecisions).Methods(nethttp.MethodPost)
	r.HandleFunc("/games/{id}/phase/complete_and_next", h.CompleteAndNext).Methods(nethttp.MethodPost)
	r.HandleFunc("/games/{id}/phases/{phaseIndex}/decisions", h.ListDecisions).Methods(nethttp.MethodGet)
	r.HandleFunc("/games/{id}/phases/{phaseIndex}/decisions/{decisionID}/score", h.ScoreDecision).Methods(nethttp.MethodPost)
	r.HandleFunc("/games/{id}/phases/{phaseIndex}/comments", h.PhaseComments).Methods(nethttp.MethodGet)
	r.HandleFunc("/games/{id}/phases/{phaseIndex}/gm-notes", h.GetGMNotes).Methods(nethttp.MethodGet)
	r.HandleFunc("/games/{id}/phases/{phaseIndex}/gm-notes", h.PutGMNotes).Methods(nethttp.MethodPut)
	r.HandleFunc("/games/{id}/after-action-report", h.AfterActionReport).Methods(nethttp.MethodGet)
	r.HandleFunc("/scenarios", h.ListScenarios).Methods(nethttp.MethodGet)
	r.HandleFunc("/scenarios/{id}", h.GetScenario).Methods(nethttp.MethodGet)

	// Player clients.
	r.HandleFunc("/players/join", h.JoinGame).Methods(nethttp.MethodPost)
	r.HandleFunc("/games/{id}/players/{playerID}/state", h.PlayerState).Methods(nethttp.MethodGet)
	r.HandleFunc("/games/{id}/phases/{phaseIndex}/votes", h.SubmitVote).Methods(nethttp.MethodPost)
	r.HandleFunc("/games/{id}/phases/{phaseIndex}/voting-status", h.VotingStatus).Methods(nethttp.MethodGet)

	// Audience scoreboard.
	r.HandleFunc("/scoreboard/{ref}", h.Scoreboard).Methods(nethttp.MethodGet)

	return r
}
