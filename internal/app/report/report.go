// Package report assembles after-action reports: a phase-by-phase
// account of what each team decided, how confident the room was, and
// how the facilitator scored it.
package report

import (
	"time"

	"ttx-service/internal/domain"
	"ttx-service/internal/store"
)

// Risk bands derived from average effectiveness ratings. Low averages
// mean the room had little confidence in its own response.
const (
	RiskCritical = "Critical"
	RiskHigh     = "High"
	RiskMedium   = "Medium"
	RiskLow      = "Low"
	RiskVeryLow  = "Very Low"
	RiskNotRated = "Not Rated"
)

// Service builds after-action reports for games a GM owns.
type Service struct {
	store store.Store
}

func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// Report is the full after-action document for one game.
type Report struct {
	GameID         string            `json:"game_id"`
	ScenarioID     string            `json:"scenario_id"`
	ScenarioName   string            `json:"scenario_name"`
	Status         domain.GameStatus `json:"status"`
	GeneratedAt    time.Time         `json:"generated_at"`
	Phases         []PhaseReport     `json:"phases"`
	Teams          []TeamSummary     `json:"teams"`
	OverallAverage float64           `json:"overall_average_rating"`
	OverallRisk    string            `json:"overall_risk"`
}

// PhaseReport covers one phase of the exercise.
type PhaseReport struct {
	PhaseIndex    int              `json:"phase_index"`
	PhaseName     string           `json:"phase_name"`
	Decisions     []DecisionReport `json:"decisions"`
	ResponseCount int              `json:"response_count"`
	AverageRating float64          `json:"average_rating"`
	RiskRating    string           `json:"risk_rating"`
	Comments      []string         `json:"comments,omitempty"`
	GMNotes       string           `json:"gm_notes,omitempty"`
}

// DecisionReport is one team's resolved decision with its score.
type DecisionReport struct {
	TeamName       string          `json:"team_name"`
	TeamRole       domain.TeamRole `json:"team_role"`
	SelectedAction string          `json:"selected_action"`
	VoteCounts     map[string]int  `json:"vote_counts,omitempty"`
	Justification  string          `json:"justification,omitempty"`
	Score          *int            `json:"score,omitempty"`
	GMNotes        string          `json:"gm_notes,omitempty"`
}

// TeamSummary is a team's final total.
type TeamSummary struct {
	TeamID string          `json:"team_id"`
	Name   string          `json:"name"`
	Role   domain.TeamRole `json:"role"`
	Total  int             `json:"total"`
}

// AfterAction builds the report for a game, GM only.
func (s *Service) AfterAction(gameID, gmID string, now func() time.Time) (Report, error) {
	g, err := s.store.GetGame(gameID)
	if err != nil {
		return Report{}, err
	}
	if g.GMID != gmID {
		return Report{}, domain.New(domain.CodeForbidden, "game belongs to another GM")
	}
	sc, err := s.store.GetScenario(g.ScenarioID)
	if err != nil {
		return Report{}, err
	}
	return Build(g, sc, now()), nil
}

// Build assembles the report from a loaded game. It is a pure
// function of the game and scenario, shared with the archiver.
func Build(g domain.Game, sc domain.Scenario, generatedAt time.Time) Report {
	rep := Report{
		GameID:       g.ID,
		ScenarioID:   sc.ID,
		ScenarioName: sc.Name,
		Status:       g.Status,
		GeneratedAt:  generatedAt,
		Phases:       make([]PhaseReport, 0, len(sc.Phases)),
		Teams:        make([]TeamSummary, 0, len(g.Teams)),
	}

	var ratingSum, ratingCount int
	for _, phase := range sc.Phases {
		pr := phaseReport(&g, phase)
		for _, v := range g.PhaseVotes(phase.Index) {
			ratingSum += v.EffectivenessRating
			ratingCount++
		}
		rep.Phases = append(rep.Phases, pr)
	}

	rep.OverallAverage = average(ratingSum, ratingCount)
	rep.OverallRisk = riskBand(rep.OverallAverage, ratingCount)

	for _, t := range g.Teams {
		rep.Teams = append(rep.Teams, TeamSummary{
			TeamID: t.ID,
			Name:   t.Name,
			Role:   t.Role,
			Total:  g.TeamTotal(t.ID),
		})
	}
	return rep
}

func phaseReport(g *domain.Game, phase domain.Phase) PhaseReport {
	votes := g.PhaseVotes(phase.Index)
	sum := 0
	comments := make([]string, 0, len(votes))
	for _, v := range votes {
		sum += v.EffectivenessRating
		if v.Comment != "" {
			comments = append(comments, v.Comment)
		}
	}

	avg := average(sum, len(votes))
	pr := PhaseReport{
		PhaseIndex:    phase.Index,
		PhaseName:     phase.Name,
		ResponseCount: len(votes),
		AverageRating: avg,
		RiskRating:    riskBand(avg, len(votes)),
		Comments:      comments,
		GMNotes:       g.GMNoteFor(phase.Index),
	}

	decisions := g.PhaseDecisions(phase.Index)
	pr.Decisions = make([]DecisionReport, 0, len(decisions))
	for _, d := range decisions {
		team, ok := g.TeamByID(d.TeamID)
		if !ok {
			continue
		}
		pr.Decisions = append(pr.Decisions, DecisionReport{
			TeamName:       team.Name,
			TeamRole:       team.Role,
			SelectedAction: d.SelectedAction,
			VoteCounts:     d.VoteCounts,
			Justification:  d.Justification,
			Score:          d.Score,
			GMNotes:        d.GMNotes,
		})
	}
	return pr
}

func average(sum, count int) float64 {
	if count == 0 {
		return 0
	}
	return float64(sum) / float64(count)
}

// riskBand maps an average effectiveness rating to a risk label. The
// thresholds are inclusive at each upper bound.
func riskBand(avg float64, responses int) string {
	switch {
	case responses == 0:
		return RiskNotRated
	case avg <= 2:
		return RiskCritical
	case avg <= 4:
		return RiskHigh
	case avg <= 6:
		return RiskMedium
	case avg <= 8:
		return RiskLow
	default:
		return RiskVeryLow
	}
}
