package domain

import (
	"fmt"
	"strings"
	"time"
)

// DecisionStatus tracks whether the GM has scored a decision yet.
type DecisionStatus string

const (
	DecisionPending DecisionStatus = "pending"
	DecisionScored  DecisionStatus = "scored"
)

// Decision is a team's resolved action for a phase, derived from its
// players' votes at lock time. Created exactly once per (phase, team);
// scoring is write-once.
type Decision struct {
	ID             string         `json:"id"`
	TeamID         string         `json:"team_id"`
	PhaseIndex     int            `json:"phase_index"`
	SelectedAction string         `json:"selected_action"` // empty when the team cast no votes
	VoteCounts     map[string]int `json:"vote_counts,omitempty"`
	Justification  string         `json:"justification,omitempty"`
	SubmittedAt    time.Time      `json:"submitted_at"`
	Status         DecisionStatus `json:"status"`
	Score          *int           `json:"score,omitempty"`
	GMNotes        string         `json:"gm_notes,omitempty"`
	ScoredAt       *time.Time     `json:"scored_at,omitempty"`
}

func (d Decision) clone() Decision {
	out := d
	if d.VoteCounts != nil {
		out.VoteCounts = make(map[string]int, len(d.VoteCounts))
		for k, v := range d.VoteCounts {
			out.VoteCounts[k] = v
		}
	}
	if d.Score != nil {
		score := *d.Score
		out.Score = &score
	}
	if d.ScoredAt != nil {
		at := *d.ScoredAt
		out.ScoredAt = &at
	}
	return out
}

// ResolveDecision turns a team's votes for a phase into a single
// pending decision. The selected action is the plurality winner; ties
// break toward the action whose tied vote was submitted earliest, so
// resolution is deterministic and reproducible. The justification is
// each voter's comment tagged by player, in submission order. A team
// with no votes resolves to an empty action and stays scoreable.
func ResolveDecision(team Team, votes []Vote, phaseIndex int, now time.Time, newID func() string) Decision {
	sortVotesByTime(votes)

	counts := make(map[string]int, len(votes))
	for _, v := range votes {
		counts[v.SelectedAction]++
	}

	selected := ""
	best := 0
	// Votes are in submission order, so the first action reaching the
	// top count is the earliest-submitted among tied actions.
	seen := make(map[string]bool, len(counts))
	for _, v := range votes {
		if seen[v.SelectedAction] {
			continue
		}
		seen[v.SelectedAction] = true
		if counts[v.SelectedAction] > best {
			best = counts[v.SelectedAction]
			selected = v.SelectedAction
		}
	}

	names := make(map[string]string, len(team.Players))
	for _, p := range team.Players {
		names[p.ID] = p.DisplayName
	}
	var parts []string
	for _, v := range votes {
		if v.Comment == "" {
			continue
		}
		name := names[v.PlayerID]
		if name == "" {
			name = v.PlayerID
		}
		parts = append(parts, fmt.Sprintf("%s: %s", name, v.Comment))
	}

	d := Decision{
		ID:             newID(),
		TeamID:         team.ID,
		PhaseIndex:     phaseIndex,
		SelectedAction: selected,
		Justification:  strings.Join(parts, "\n\n"),
		SubmittedAt:    now.UTC(),
		Status:         DecisionPending,
	}
	if len(counts) > 0 {
		d.VoteCounts = counts
	}
	return d
}

// DecisionByID returns the decision with the given id.
func (g *Game) DecisionByID(id string) (Decision, bool) {
	for _, d := range g.Decisions {
		if d.ID == id {
			return d.clone(), true
		}
	}
	return Decision{}, false
}

// PhaseDecisions returns all decisions for a phase.
func (g *Game) PhaseDecisions(phaseIndex int) []Decision {
	var out []Decision
	for _, d := range g.Decisions {
		if d.PhaseIndex == phaseIndex {
			out = append(out, d.clone())
		}
	}
	return out
}
