package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"ttx-service/internal/app/session"
	"ttx-service/internal/domain"
)

// CreateGame sets up a new game in the lobby.
func (h *Handler) CreateGame(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	var body struct {
		ScenarioID string `json:"scenario_id"`
	}
	if !decodeJSON(w, r, &body, logger) {
		return
	}
	view, err := h.sessions.CreateGame(session.CreateGameInput{
		GMID:       gmID(r),
		ScenarioID: body.ScenarioID,
	})
	if err != nil {
		writeDomainError(w, r, err, logger)
		return
	}
	writeJSON(w, http.StatusCreated, view, logger)
}

// ListGames returns the calling GM's games, newest first.
func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	views, err := h.sessions.Games(gmID(r))
	if err != nil {
		writeDomainError(w, r, err, logger)
		return
	}
	writeJSON(w, http.StatusOK, views, logger)
}

// GetGame returns the composed game snapshot.
func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	view, err := h.sessions.Game(mux.Vars(r)["id"], gmID(r))
	if err != nil {
		writeDomainError(w, r, err, logger)
		return
	}
	writeJSON(w, http.StatusOK, view, logger)
}

// DeleteGame removes a game and everything recorded under it.
func (h *Handler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	if err := h.sessions.DeleteGame(mux.Vars(r)["id"], gmID(r)); err != nil {
		writeDomainError(w, r, err, logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type commandFunc func(gameID, gmID string) (session.GameView, error)

func (h *Handler) runCommand(w http.ResponseWriter, r *http.Request, cmd commandFunc) {
	logger := loggerFromContext(r, h.logger)
	view, err := cmd(mux.Vars(r)["id"], gmID(r))
	if err != nil {
		writeDomainError(w, r, err, logger)
		return
	}
	writeJSON(w, http.StatusOK, view, logger)
}

// StartGame begins the exercise at the first phase briefing.
func (h *Handler) StartGame(w http.ResponseWriter, r *http.Request) {
	h.runCommand(w, r, h.sessions.Start)
}

// EndGame finishes the game, freezing all further mutation.
func (h *Handler) EndGame(w http.ResponseWriter, r *http.Request) {
	h.runCommand(w, r, h.sessions.End)
}

// PauseGame suspends an in-progress game.
func (h *Handler) PauseGame(w http.ResponseWriter, r *http.Request) {
	h.runCommand(w, r, h.sessions.Pause)
}

// ResumeGame returns a paused game to play.
func (h *Handler) ResumeGame(w http.ResponseWriter, r *http.Request) {
	h.runCommand(w, r, h.sessions.Resume)
}

// OpenForDecisions opens the current phase for voting.
func (h *Handler) OpenForDecisions(w http.ResponseWriter, r *http.Request) {
	h.runCommand(w, r, h.sessions.OpenForDecisions)
}

// LockDecisions freezes votes and resolves each team's decision.
func (h *Handler) LockDecisions(w http.ResponseWriter, r *http.Request) {
	h.runCommand(w, r, h.sessions.LockDecisions)
}

// CompleteAndNext closes the phase and advances, or finishes the game
// after the last phase.
func (h *Handler) CompleteAndNext(w http.ResponseWriter, r *http.Request) {
	h.runCommand(w, r, h.sessions.CompleteAndNext)
}

// ListDecisions returns the resolved decisions for a phase.
func (h *Handler) ListDecisions(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	phase, ok := h.phaseIndex(w, r)
	if !ok {
		return
	}
	views, err := h.sessions.Decisions(mux.Vars(r)["id"], gmID(r), phase)
	if err != nil {
		writeDomainError(w, r, err, logger)
		return
	}
	writeJSON(w, http.StatusOK, views, logger)
}

// ScoreDecision assigns a decision its score.
func (h *Handler) ScoreDecision(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	var body struct {
		Score int    `json:"score"`
		Notes string `json:"notes"`
	}
	if !decodeJSON(w, r, &body, logger) {
		return
	}
	vars := mux.Vars(r)
	view, err := h.sessions.ScoreDecision(vars["id"], gmID(r), vars["decisionID"], body.Score, body.Notes)
	if err != nil {
		writeDomainError(w, r, err, logger)
		return
	}
	writeJSON(w, http.StatusOK, view, logger)
}

// PhaseComments returns the comment feed for a phase.
func (h *Handler) PhaseComments(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	phase, ok := h.phaseIndex(w, r)
	if !ok {
		return
	}
	views, err := h.sessions.PhaseComments(mux.Vars(r)["id"], gmID(r), phase)
	if err != nil {
		writeDomainError(w, r, err, logger)
		return
	}
	writeJSON(w, http.StatusOK, views, logger)
}

// GetGMNotes returns the GM's note for a phase.
func (h *Handler) GetGMNotes(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	phase, ok := h.phaseIndex(w, r)
	if !ok {
		return
	}
	notes, err := h.sessions.GMNote(mux.Vars(r)["id"], gmID(r), phase)
	if err != nil {
		writeDomainError(w, r, err, logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"notes": notes}, logger)
}

// PutGMNotes saves the GM's note for a phase.
func (h *Handler) PutGMNotes(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	phase, ok := h.phaseIndex(w, r)
	if !ok {
		return
	}
	var body struct {
		Notes string `json:"notes"`
	}
	if !decodeJSON(w, r, &body, logger) {
		return
	}
	if err := h.sessions.UpsertGMNote(mux.Vars(r)["id"], gmID(r), phase, body.Notes); err != nil {
		writeDomainError(w, r, err, logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"notes": body.Notes}, logger)
}

// AfterActionReport returns the full after-action document.
func (h *Handler) AfterActionReport(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	rep, err := h.reports.AfterAction(mux.Vars(r)["id"], gmID(r), h.now)
	if err != nil {
		writeDomainError(w, r, err, logger)
		return
	}
	writeJSON(w, http.StatusOK, rep, logger)
}

// ListScenarios returns the scenario catalog.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	views, err := h.sessions.Scenarios()
	if err != nil {
		writeDomainError(w, r, err, logger)
		return
	}
	writeJSON(w, http.StatusOK, views, logger)
}

// GetScenario returns one scenario with its phases.
func (h *Handler) GetScenario(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	view, err := h.sessions.Scenario(mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(w, r, err, logger)
		return
	}
	writeJSON(w, http.StatusOK, view, logger)
}

func (h *Handler) phaseIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := mux.Vars(r)["phaseIndex"]
	phase, err := strconv.Atoi(raw)
	if err != nil || phase < 0 {
		writeError(w, r, http.StatusBadRequest, string(domain.CodeValidation), "invalid phase index", loggerFromContext(r, h.logger))
		return 0, false
	}
	return phase, true
}
