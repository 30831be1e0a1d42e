package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"ttx-service/internal/app/session"
)

// JoinGame adds a player to whichever team owns the join code.
func (h *Handler) JoinGame(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	var body struct {
		TeamCode    string `json:"team_code"`
		DisplayName string `json:"display_name"`
	}
	if !decodeJSON(w, r, &body, logger) {
		return
	}
	view, err := h.sessions.Join(body.TeamCode, body.DisplayName)
	if err != nil {
		writeDomainError(w, r, err, logger)
		return
	}
	writeJSON(w, http.StatusCreated, view, logger)
}

// PlayerState is the player client's poll endpoint.
func (h *Handler) PlayerState(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	vars := mux.Vars(r)
	view, err := h.sessions.PlayerState(vars["id"], vars["playerID"])
	if err != nil {
		writeDomainError(w, r, err, logger)
		return
	}
	writeJSON(w, http.StatusOK, view, logger)
}

// SubmitVote records or replaces the player's vote for the phase.
func (h *Handler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	phase, ok := h.phaseIndex(w, r)
	if !ok {
		return
	}
	var body struct {
		PlayerID      string `json:"player_id"`
		Action        string `json:"action"`
		Rating        int    `json:"rating"`
		Comment       string `json:"comment"`
		Justification string `json:"justification"`
	}
	if !decodeJSON(w, r, &body, logger) {
		return
	}
	view, err := h.sessions.SubmitVote(mux.Vars(r)["id"], phase, session.SubmitVoteInput{
		PlayerID:      body.PlayerID,
		Action:        body.Action,
		Rating:        body.Rating,
		Comment:       body.Comment,
		Justification: body.Justification,
	})
	if err != nil {
		writeDomainError(w, r, err, logger)
		return
	}
	writeJSON(w, http.StatusCreated, view, logger)
}

// VotingStatus reports each team's voting progress for the phase.
func (h *Handler) VotingStatus(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	phase, ok := h.phaseIndex(w, r)
	if !ok {
		return
	}
	views, err := h.sessions.VotingStatus(mux.Vars(r)["id"], phase)
	if err != nil {
		writeDomainError(w, r, err, logger)
		return
	}
	writeJSON(w, http.StatusOK, views, logger)
}
