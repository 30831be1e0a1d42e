package domain

import (
	"strings"
	"time"
)

// GameStatus is the lifecycle state of a game session. It is monotonic
// lobby -> in_progress -> finished, with paused as a reversible
// side-state of in_progress.
type GameStatus string

const (
	StatusLobby      GameStatus = "lobby"
	StatusInProgress GameStatus = "in_progress"
	StatusPaused     GameStatus = "paused"
	StatusFinished   GameStatus = "finished"
)

// PhaseState is the runtime state of the current phase.
type PhaseState string

const (
	PhaseNotStarted       PhaseState = "not_started"
	PhaseBriefing         PhaseState = "briefing"
	PhaseOpenForDecisions PhaseState = "open_for_decisions"
	PhaseDecisionLock     PhaseState = "decision_lock"
	PhaseResolution       PhaseState = "resolution"
	PhaseComplete         PhaseState = "complete"
)

// Team is one side of the exercise. Teams are created with the game
// and are immutable apart from their roster.
type Team struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Role    TeamRole `json:"role"`
	Code    string   `json:"code"`
	Players []Player `json:"players,omitempty"`
}

// Player is a roster member. Players join via a team code and are
// never removed.
type Player struct {
	ID          string    `json:"id"`
	TeamID      string    `json:"team_id"`
	DisplayName string    `json:"display_name"`
	JoinedAt    time.Time `json:"joined_at"`
}

// GMNote is a per-phase free-text note kept by the game manager.
type GMNote struct {
	PhaseIndex int       `json:"phase_index"`
	Notes      string    `json:"notes"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Game is the aggregate for one exercise session: lifecycle status,
// the current phase pointer and its runtime state, both team rosters,
// and the runtime records (votes, decisions, score ledger, GM notes).
// All mutation goes through the session service, which serializes
// access per game.
type Game struct {
	ID           string     `json:"id"`
	GMID         string     `json:"gm_id"`
	ScenarioID   string     `json:"scenario_id"`
	Status       GameStatus `json:"status"`
	CurrentPhase int        `json:"current_phase"` // -1 until started
	PhaseState   PhaseState `json:"phase_state"`
	Teams        []Team     `json:"teams"`
	AudienceCode string     `json:"audience_code"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	Votes       []Vote       `json:"votes,omitempty"`
	Decisions   []Decision   `json:"decisions,omitempty"`
	ScoreEvents []ScoreEvent `json:"score_events,omitempty"`
	GMNotes     []GMNote     `json:"gm_notes,omitempty"`
}

// CreateGameInput describes what is needed to create a game.
type CreateGameInput struct {
	GMID       string
	ScenarioID string
}

// NewGame creates a game in the lobby with a red and a blue team and
// fresh join/audience codes. Clock and generators are injected so
// tests stay deterministic.
func NewGame(input CreateGameInput, now func() time.Time, newID func() string, newCode func() string) (Game, error) {
	input.GMID = strings.TrimSpace(input.GMID)
	input.ScenarioID = strings.TrimSpace(input.ScenarioID)
	if input.GMID == "" {
		return Game{}, New(CodeValidation, "gm id is required")
	}
	if input.ScenarioID == "" {
		return Game{}, New(CodeValidation, "scenario id is required")
	}

	createdAt := now().UTC()
	return Game{
		ID:           newID(),
		GMID:         input.GMID,
		ScenarioID:   input.ScenarioID,
		Status:       StatusLobby,
		CurrentPhase: -1,
		PhaseState:   PhaseNotStarted,
		Teams: []Team{
			{ID: newID(), Name: "Red", Role: RoleRed, Code: newCode()},
			{ID: newID(), Name: "Blue", Role: RoleBlue, Code: newCode()},
		},
		AudienceCode: newCode(),
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}, nil
}

// TeamByRole returns the team playing the given role.
func (g *Game) TeamByRole(role TeamRole) (*Team, bool) {
	for i := range g.Teams {
		if g.Teams[i].Role == role {
			return &g.Teams[i], true
		}
	}
	return nil, false
}

// TeamByID returns the team with the given id.
func (g *Game) TeamByID(id string) (*Team, bool) {
	for i := range g.Teams {
		if g.Teams[i].ID == id {
			return &g.Teams[i], true
		}
	}
	return nil, false
}

// PlayerByID returns a player and their team.
func (g *Game) PlayerByID(id string) (Player, *Team, bool) {
	for i := range g.Teams {
		for _, p := range g.Teams[i].Players {
			if p.ID == id {
				return p, &g.Teams[i], true
			}
		}
	}
	return Player{}, nil, false
}

// AddPlayer adds a player to the team, reusing an existing roster
// entry when the display name already joined (rejoin after refresh).
func (g *Game) AddPlayer(teamID, displayName string, now func() time.Time, newID func() string) (Player, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return Player{}, New(CodeValidation, "display name is required")
	}
	team, ok := g.TeamByID(teamID)
	if !ok {
		return Player{}, New(CodeNotFound, "team not found")
	}
	for _, p := range team.Players {
		if p.DisplayName == displayName {
			return p, nil
		}
	}
	player := Player{
		ID:          newID(),
		TeamID:      team.ID,
		DisplayName: displayName,
		JoinedAt:    now().UTC(),
	}
	team.Players = append(team.Players, player)
	g.UpdatedAt = now().UTC()
	return player, nil
}

// UpsertGMNote creates or replaces the GM note for a phase.
func (g *Game) UpsertGMNote(phaseIndex int, notes string, now func() time.Time) {
	ts := now().UTC()
	for i := range g.GMNotes {
		if g.GMNotes[i].PhaseIndex == phaseIndex {
			g.GMNotes[i].Notes = notes
			g.GMNotes[i].UpdatedAt = ts
			g.UpdatedAt = ts
			return
		}
	}
	g.GMNotes = append(g.GMNotes, GMNote{PhaseIndex: phaseIndex, Notes: notes, UpdatedAt: ts})
	g.UpdatedAt = ts
}

// GMNoteFor returns the note text for a phase, empty when unset.
func (g *Game) GMNoteFor(phaseIndex int) string {
	for _, n := range g.GMNotes {
		if n.PhaseIndex == phaseIndex {
			return n.Notes
		}
	}
	return ""
}

// Clone returns a deep copy so stored aggregates cannot be mutated
// through shared slices.
func (g Game) Clone() Game {
	out := g
	out.Teams = make([]Team, len(g.Teams))
	for i, t := range g.Teams {
		out.Teams[i] = t
		out.Teams[i].Players = append([]Player(nil), t.Players...)
	}
	out.Votes = append([]Vote(nil), g.Votes...)
	out.Decisions = make([]Decision, len(g.Decisions))
	for i, d := range g.Decisions {
		out.Decisions[i] = d.clone()
	}
	out.ScoreEvents = append([]ScoreEvent(nil), g.ScoreEvents...)
	out.GMNotes = append([]GMNote(nil), g.GMNotes...)
	return out
}
