package domain

import (
	"fmt"
	"time"
)

// ScoreEvent is an append-only ledger entry recording points awarded
// to a team. Totals are always recomputed by summing the ledger; there
// is no separately maintained running counter to drift.
type ScoreEvent struct {
	ID         string    `json:"id"`
	TeamID     string    `json:"team_id"`
	PhaseIndex int       `json:"phase_index"`
	Delta      int       `json:"delta"`
	Reason     string    `json:"reason"`
	CreatedAt  time.Time `json:"created_at"`
}

// ScoreDecision records the GM's score for a resolved decision and
// appends the matching ledger entry. Scoring is write-once; a second
// attempt fails ALREADY_SCORED and changes nothing.
func (g *Game) ScoreDecision(decisionID string, score int, notes string, now func() time.Time, newID func() string) (Decision, error) {
	if g.Status == StatusFinished {
		return Decision{}, New(CodeInvalidTransition, "game is finished")
	}
	var decision *Decision
	for i := range g.Decisions {
		if g.Decisions[i].ID == decisionID {
			decision = &g.Decisions[i]
			break
		}
	}
	if decision == nil {
		return Decision{}, New(CodeDecisionNotFound, "decision not found")
	}
	if decision.Status == DecisionScored {
		return Decision{}, New(CodeAlreadyScored, "decision already scored")
	}
	if score < 0 || score > 10 {
		return Decision{}, Newf(CodeInvalidScore, "score %d out of range 0-10", score)
	}

	ts := now().UTC()
	awarded := score
	decision.Status = DecisionScored
	decision.Score = &awarded
	decision.GMNotes = notes
	decision.ScoredAt = &ts

	action := decision.SelectedAction
	if action == "" {
		action = "no action"
	}
	g.ScoreEvents = append(g.ScoreEvents, ScoreEvent{
		ID:         newID(),
		TeamID:     decision.TeamID,
		PhaseIndex: decision.PhaseIndex,
		Delta:      awarded,
		Reason:     fmt.Sprintf("phase %d: %s", decision.PhaseIndex+1, action),
		CreatedAt:  ts,
	})
	g.UpdatedAt = ts
	return decision.clone(), nil
}

// TeamTotal sums the ledger for a team.
func (g *Game) TeamTotal(teamID string) int {
	total := 0
	for _, ev := range g.ScoreEvents {
		if ev.TeamID == teamID {
			total += ev.Delta
		}
	}
	return total
}

// PhaseScore sums the ledger for a team restricted to one phase.
func (g *Game) PhaseScore(teamID string, phaseIndex int) int {
	total := 0
	for _, ev := range g.ScoreEvents {
		if ev.TeamID == teamID && ev.PhaseIndex == phaseIndex {
			total += ev.Delta
		}
	}
	return total
}
