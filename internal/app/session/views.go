package session

import (
	"time"

	"ttx-service/internal/domain"
)

// The views are flattened snapshots assembled under the per-game
// critical section, so pollers always get one coherent picture per
// call instead of stitching raw entities together client-side.

// PhaseView is the scenario phase enriched with its position.
type PhaseView struct {
	Index               int      `json:"index"`
	Name                string   `json:"name"`
	Briefing            string   `json:"briefing,omitempty"`
	DurationHintSeconds int      `json:"duration_hint_seconds,omitempty"`
	GMPrompts           []string `json:"gm_prompts,omitempty"`
}

// TeamView is a team with its roster.
type TeamView struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Role    domain.TeamRole `json:"role"`
	Code    string          `json:"code,omitempty"`
	Players []PlayerView    `json:"players,omitempty"`
}

// PlayerView is a roster entry.
type PlayerView struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	JoinedAt    time.Time `json:"joined_at"`
}

// GameView is the composed game snapshot used by the GM console.
type GameView struct {
	ID           string            `json:"id"`
	ScenarioID   string            `json:"scenario_id"`
	ScenarioName string            `json:"scenario_name"`
	Status       domain.GameStatus `json:"status"`
	PhaseState   domain.PhaseState `json:"phase_state"`
	CurrentPhase *PhaseView        `json:"current_phase,omitempty"`
	TotalPhases  int               `json:"total_phases"`
	Teams        []TeamView        `json:"teams"`
	AudienceCode string            `json:"audience_code,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// VoteView is a vote annotated with the voter's name for display.
type VoteView struct {
	ID                  string    `json:"id"`
	PlayerID            string    `json:"player_id"`
	PlayerName          string    `json:"player_name"`
	SelectedAction      string    `json:"selected_action"`
	EffectivenessRating int       `json:"effectiveness_rating"`
	Comment             string    `json:"comment,omitempty"`
	Justification       string    `json:"justification,omitempty"`
	VotedAt             time.Time `json:"voted_at"`
}

// VotingStatusView reports one team's progress through a phase vote.
type VotingStatusView struct {
	TeamID         string          `json:"team_id"`
	TeamName       string          `json:"team_name"`
	TeamRole       domain.TeamRole `json:"team_role"`
	TotalPlayers   int             `json:"total_players"`
	VotesSubmitted int             `json:"votes_submitted"`
	AllVoted       bool            `json:"all_voted"`
	Votes          []VoteView      `json:"votes"`
}

// DecisionView is a resolved team decision for GM display.
type DecisionView struct {
	ID             string                `json:"id"`
	TeamID         string                `json:"team_id"`
	TeamName       string                `json:"team_name"`
	TeamRole       domain.TeamRole       `json:"team_role"`
	PhaseIndex     int                   `json:"phase_index"`
	SelectedAction string                `json:"selected_action"`
	VoteCounts     map[string]int        `json:"vote_counts,omitempty"`
	Justification  string                `json:"justification,omitempty"`
	SubmittedAt    time.Time             `json:"submitted_at"`
	Status         domain.DecisionStatus `json:"status"`
	Score          *int                  `json:"score,omitempty"`
	GMNotes        string                `json:"gm_notes,omitempty"`
}

// CommentView is one player's phase comment for the GM feed.
type CommentView struct {
	PlayerID            string          `json:"player_id"`
	PlayerName          string          `json:"player_name"`
	TeamName            string          `json:"team_name"`
	TeamRole            domain.TeamRole `json:"team_role"`
	EffectivenessRating int             `json:"effectiveness_rating"`
	Comment             string          `json:"comment"`
	VotedAt             time.Time       `json:"voted_at"`
}

// JoinView is the response to a player joining by team code.
type JoinView struct {
	PlayerID     string            `json:"player_id"`
	TeamID       string            `json:"team_id"`
	GameID       string            `json:"game_id"`
	TeamRole     domain.TeamRole   `json:"team_role"`
	TeamName     string            `json:"team_name"`
	ScenarioName string            `json:"scenario_name"`
	GameStatus   domain.GameStatus `json:"game_status"`
}

// PlayerStateView is the flattened poll target for player clients: it
// says whether the player may vote right now and how the team stands.
type PlayerStateView struct {
	GameStatus    domain.GameStatus `json:"game_status"`
	PhaseState    domain.PhaseState `json:"phase_state"`
	CurrentPhase  *PhaseView        `json:"current_phase,omitempty"`
	TeamRole      domain.TeamRole   `json:"team_role"`
	TeamName      string            `json:"team_name"`
	TeamObjective string            `json:"team_objective,omitempty"`
	CanVote       bool              `json:"can_vote"`
	HasVoted      bool              `json:"has_voted"`
	TeamVoting    *VotingStatusView `json:"team_voting,omitempty"`
	Decision      *DecisionView     `json:"decision,omitempty"`
}

// ScenarioView is scenario content for the GM console.
type ScenarioView struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Phases      []domain.Phase `json:"phases,omitempty"`
	PhaseCount  int            `json:"phase_count"`
}
