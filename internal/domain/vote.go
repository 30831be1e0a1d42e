package domain

import (
	"time"
	"unicode/utf8"
)

// Comment length cap mirrors the 500-character limit on vote
// comments in the exercise records.
const maxCommentLength = 500

// Vote is one player's proposed action for the current phase, unique
// per (phase, player). Resubmission before lock replaces the prior
// vote; votes freeze the moment the phase leaves open_for_decisions.
type Vote struct {
	ID                  string    `json:"id"`
	PhaseIndex          int       `json:"phase_index"`
	TeamID              string    `json:"team_id"`
	PlayerID            string    `json:"player_id"`
	SelectedAction      string    `json:"selected_action"`
	EffectivenessRating int       `json:"effectiveness_rating"`
	Comment             string    `json:"comment,omitempty"`
	Justification       string    `json:"justification,omitempty"`
	VotedAt             time.Time `json:"voted_at"`
}

// SubmitVoteInput carries a vote submission.
type SubmitVoteInput struct {
	PhaseIndex    int
	PlayerID      string
	Action        string
	Rating        int
	Comment       string
	Justification string
}

// SubmitVote validates and upserts a vote for the current phase. The
// call has no effect unless every check passes.
func (g *Game) SubmitVote(sc Scenario, input SubmitVoteInput, now func() time.Time, newID func() string) (Vote, error) {
	player, team, ok := g.PlayerByID(input.PlayerID)
	if !ok {
		return Vote{}, New(CodeNotFound, "player not found")
	}
	if g.Status != StatusInProgress {
		return Vote{}, Newf(CodePhaseNotOpen, "cannot vote while game is %s", g.Status)
	}
	if input.PhaseIndex != g.CurrentPhase {
		return Vote{}, Newf(CodePhaseNotOpen, "phase %d is not the current phase", input.PhaseIndex)
	}
	if g.PhaseState != PhaseOpenForDecisions {
		return Vote{}, Newf(CodePhaseNotOpen, "cannot vote in state %s", g.PhaseState)
	}
	if input.Rating < 1 || input.Rating > 10 {
		return Vote{}, Newf(CodeInvalidRating, "rating %d out of range 1-10", input.Rating)
	}
	phase, ok := sc.PhaseAt(g.CurrentPhase)
	if !ok {
		return Vote{}, New(CodeNotFound, "current phase not in scenario")
	}
	if !phase.AllowsAction(team.Role, input.Action) {
		return Vote{}, Newf(CodeUnknownAction, "action %q is not available to the %s team in this phase", input.Action, team.Role)
	}

	comment := truncateComment(input.Comment)

	ts := now().UTC()
	for i := range g.Votes {
		if g.Votes[i].PhaseIndex == input.PhaseIndex && g.Votes[i].PlayerID == player.ID {
			g.Votes[i].SelectedAction = input.Action
			g.Votes[i].EffectivenessRating = input.Rating
			g.Votes[i].Comment = comment
			g.Votes[i].Justification = input.Justification
			g.Votes[i].VotedAt = ts
			g.UpdatedAt = ts
			return g.Votes[i], nil
		}
	}

	vote := Vote{
		ID:                  newID(),
		PhaseIndex:          input.PhaseIndex,
		TeamID:              team.ID,
		PlayerID:            player.ID,
		SelectedAction:      input.Action,
		EffectivenessRating: input.Rating,
		Comment:             comment,
		Justification:       input.Justification,
		VotedAt:             ts,
	}
	g.Votes = append(g.Votes, vote)
	g.UpdatedAt = ts
	return vote, nil
}

// VotesFor returns the team's votes for a phase in submission order.
func (g *Game) VotesFor(phaseIndex int, teamID string) []Vote {
	var out []Vote
	for _, v := range g.Votes {
		if v.PhaseIndex == phaseIndex && v.TeamID == teamID {
			out = append(out, v)
		}
	}
	sortVotesByTime(out)
	return out
}

// PhaseVotes returns every vote for a phase across teams.
func (g *Game) PhaseVotes(phaseIndex int) []Vote {
	var out []Vote
	for _, v := range g.Votes {
		if v.PhaseIndex == phaseIndex {
			out = append(out, v)
		}
	}
	sortVotesByTime(out)
	return out
}

// truncateComment caps a comment at maxCommentLength bytes, backing
// off to the nearest rune boundary so the stored text stays valid
// UTF-8.
func truncateComment(comment string) string {
	if len(comment) <= maxCommentLength {
		return comment
	}
	cut := maxCommentLength
	for cut > 0 && !utf8.RuneStart(comment[cut]) {
		cut--
	}
	return comment[:cut]
}

func sortVotesByTime(votes []Vote) {
	// Insertion sort keeps equal timestamps in submission order.
	for i := 1; i < len(votes); i++ {
		for j := i; j > 0 && votes[j].VotedAt.Before(votes[j-1].VotedAt); j-- {
			votes[j], votes[j-1] = votes[j-1], votes[j]
		}
	}
}
