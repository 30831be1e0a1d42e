package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Scoreboard serves the audience display, looked up by game ID or
// audience code. No authentication; the board shows nothing players
// cannot already see.
func (h *Handler) Scoreboard(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	view, err := h.scoreboard.Scoreboard(mux.Vars(r)["ref"])
	if err != nil {
		writeDomainError(w, r, err, logger)
		return
	}
	writeJSON(w, http.StatusOK, view, logger)
}
