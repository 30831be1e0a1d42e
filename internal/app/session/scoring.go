package session

import (
	"ttx-service/internal/domain"
	"ttx-service/internal/logging"
)

// Decisions lists the resolved decisions for a phase, GM only.
func (s *Service) Decisions(gameID, gmID string, phaseIndex int) ([]DecisionView, error) {
	g, _, err := s.read(gameID)
	if err != nil {
		return nil, err
	}
	if err := requireGM(&g, gmID); err != nil {
		return nil, err
	}
	decisions := g.PhaseDecisions(phaseIndex)
	out := make([]DecisionView, 0, len(decisions))
	for _, d := range decisions {
		team, _ := g.TeamByID(d.TeamID)
		out = append(out, decisionView(d, *team))
	}
	return out, nil
}

// ScoreDecision assigns a decision its 0-10 score. Scoring is
// write-once per decision and appends one event to the ledger; a
// failed call leaves both the decision and the ledger untouched.
func (s *Service) ScoreDecision(gameID, gmID, decisionID string, score int, notes string) (DecisionView, error) {
	var view DecisionView
	g, err := s.update(gameID, func(g *domain.Game, sc domain.Scenario) error {
		if err := requireGM(g, gmID); err != nil {
			return err
		}
		decision, err := g.ScoreDecision(decisionID, score, notes, s.now, s.newID)
		if err != nil {
			return err
		}
		team, _ := g.TeamByID(decision.TeamID)
		view = decisionView(decision, *team)
		return nil
	})
	s.metrics.RecordScore(err)
	if err != nil {
		return DecisionView{}, err
	}
	logging.Info(s.logger, "decision scored",
		logging.FieldGameID, g.ID,
		logging.FieldTeam, string(view.TeamRole),
		"score", score,
	)
	return view, nil
}

// UpsertGMNote saves the GM's free-form note for a phase, replacing
// any earlier note for the same phase.
func (s *Service) UpsertGMNote(gameID, gmID string, phaseIndex int, notes string) error {
	_, err := s.update(gameID, func(g *domain.Game, sc domain.Scenario) error {
		if err := requireGM(g, gmID); err != nil {
			return err
		}
		if _, ok := sc.PhaseAt(phaseIndex); !ok {
			return domain.New(domain.CodeValidation, "phase does not exist")
		}
		g.UpsertGMNote(phaseIndex, notes, s.now)
		return nil
	})
	return err
}

// GMNote returns the saved note for a phase, empty when none exists.
func (s *Service) GMNote(gameID, gmID string, phaseIndex int) (string, error) {
	g, _, err := s.read(gameID)
	if err != nil {
		return "", err
	}
	if err := requireGM(&g, gmID); err != nil {
		return "", err
	}
	return g.GMNoteFor(phaseIndex), nil
}

func decisionView(d domain.Decision, team domain.Team) DecisionView {
	return DecisionView{
		ID:             d.ID,
		TeamID:         d.TeamID,
		TeamName:       team.Name,
		TeamRole:       team.Role,
		PhaseIndex:     d.PhaseIndex,
		SelectedAction: d.SelectedAction,
		VoteCounts:     d.VoteCounts,
		Justification:  d.Justification,
		SubmittedAt:    d.SubmittedAt,
		Status:         d.Status,
		Score:          d.Score,
		GMNotes:        d.GMNotes,
	}
}
