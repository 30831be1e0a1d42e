// Package scoreboard builds the audience-facing score view. Totals
// and history are recomputed from the score ledger on every call, so
// the board can never drift from the events that produced it.
package scoreboard

import (
	"sort"
	"strings"
	"time"

	"ttx-service/internal/domain"
	"ttx-service/internal/store"
)

// Service answers scoreboard polls by game ID or audience code.
type Service struct {
	store        store.Store
	recentEvents int
}

func NewService(st store.Store, recentEvents int) *Service {
	if recentEvents <= 0 {
		recentEvents = 10
	}
	return &Service{store: st, recentEvents: recentEvents}
}

// View is the complete scoreboard snapshot for one game.
type View struct {
	GameID       string            `json:"game_id"`
	ScenarioName string            `json:"scenario_name"`
	Status       domain.GameStatus `json:"status"`
	PhaseState   domain.PhaseState `json:"phase_state"`
	CurrentPhase *PhaseRef         `json:"current_phase,omitempty"`
	TotalPhases  int               `json:"total_phases"`
	Teams        []TeamScore       `json:"teams"`
	RecentEvents []Event           `json:"recent_events"`
}

// PhaseRef names the phase the game currently sits in.
type PhaseRef struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

// TeamScore is one team's running total plus its per-phase history.
type TeamScore struct {
	TeamID  string          `json:"team_id"`
	Name    string          `json:"name"`
	Role    domain.TeamRole `json:"role"`
	Total   int             `json:"total"`
	History []PhaseScore    `json:"history"`
}

// PhaseScore is the points a team earned in one completed phase.
type PhaseScore struct {
	PhaseIndex int    `json:"phase_index"`
	PhaseName  string `json:"phase_name"`
	Score      int    `json:"score"`
}

// Event is a ledger entry annotated for display.
type Event struct {
	TeamName  string          `json:"team_name"`
	TeamRole  domain.TeamRole `json:"team_role"`
	Delta     int             `json:"delta"`
	Reason    string          `json:"reason"`
	CreatedAt time.Time       `json:"created_at"`
}

// Scoreboard resolves ref as a game ID first and an audience or team
// join code second, then assembles the board.
func (s *Service) Scoreboard(ref string) (View, error) {
	gameID := ref
	if _, err := s.store.GetGame(gameID); err != nil {
		id, codeErr := s.store.GameIDByCode(strings.ToUpper(strings.TrimSpace(ref)))
		if codeErr != nil {
			return View{}, domain.New(domain.CodeNotFound, "game not found")
		}
		gameID = id
	}
	g, err := s.store.GetGame(gameID)
	if err != nil {
		return View{}, err
	}
	sc, err := s.store.GetScenario(g.ScenarioID)
	if err != nil {
		return View{}, err
	}
	return s.build(g, sc), nil
}

func (s *Service) build(g domain.Game, sc domain.Scenario) View {
	view := View{
		GameID:       g.ID,
		ScenarioName: sc.Name,
		Status:       g.Status,
		PhaseState:   g.PhaseState,
		TotalPhases:  len(sc.Phases),
		Teams:        make([]TeamScore, 0, len(g.Teams)),
		RecentEvents: make([]Event, 0, s.recentEvents),
	}
	if phase, ok := sc.PhaseAt(g.CurrentPhase); ok {
		view.CurrentPhase = &PhaseRef{Index: phase.Index, Name: phase.Name}
	}

	for _, t := range g.Teams {
		view.Teams = append(view.Teams, TeamScore{
			TeamID:  t.ID,
			Name:    t.Name,
			Role:    t.Role,
			Total:   g.TeamTotal(t.ID),
			History: history(&g, sc, t.ID),
		})
	}

	view.RecentEvents = recentEvents(&g, s.recentEvents)
	return view
}

// history covers every phase up to and including the current one, or
// every phase once the game has finished. Scores land during the
// current phase's resolution, so the board shows them the moment the
// GM records them instead of waiting for the phase to advance. Phases
// with no ledger entries show as zero rather than being omitted, so
// both teams' histories always line up.
func history(g *domain.Game, sc domain.Scenario, teamID string) []PhaseScore {
	limit := 0
	switch g.Status {
	case domain.StatusLobby:
		limit = 0
	case domain.StatusFinished:
		limit = len(sc.Phases)
	default:
		limit = g.CurrentPhase + 1
	}
	out := make([]PhaseScore, 0, limit)
	for i := 0; i < limit && i < len(sc.Phases); i++ {
		out = append(out, PhaseScore{
			PhaseIndex: i,
			PhaseName:  sc.Phases[i].Name,
			Score:      g.PhaseScore(teamID, i),
		})
	}
	return out
}

func recentEvents(g *domain.Game, limit int) []Event {
	names := make(map[string]domain.Team, len(g.Teams))
	for _, t := range g.Teams {
		names[t.ID] = t
	}

	events := make([]domain.ScoreEvent, len(g.ScoreEvents))
	copy(events, g.ScoreEvents)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].CreatedAt.After(events[j].CreatedAt)
	})
	if len(events) > limit {
		events = events[:limit]
	}

	out := make([]Event, 0, len(events))
	for _, e := range events {
		team := names[e.TeamID]
		out = append(out, Event{
			TeamName:  team.Name,
			TeamRole:  team.Role,
			Delta:     e.Delta,
			Reason:    e.Reason,
			CreatedAt: e.CreatedAt,
		})
	}
	return out
}
