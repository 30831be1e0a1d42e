// Package domain holds the entities and rules of the exercise engine:
// games, teams, votes, decisions, the phase state machine, and the
// score ledger. Everything here is pure; persistence and locking live
// in the app and store layers.
package domain

// TeamRole identifies which side of the exercise a team plays.
type TeamRole string

const (
	RoleRed  TeamRole = "red"
	RoleBlue TeamRole = "blue"
)

// Valid reports whether the role is one of the known sides.
func (r TeamRole) Valid() bool {
	return r == RoleRed || r == RoleBlue
}

// Scenario is the exercise content: an ordered sequence of phases.
// Scenarios are read-only to the engine; games only track position.
type Scenario struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Phases      []Phase `json:"phases"`
}

// Phase is one ordered stage of a scenario with role-specific
// briefing material and the legal action set per side.
type Phase struct {
	Index               int      `json:"index"`
	Name                string   `json:"name"`
	Briefing            string   `json:"briefing,omitempty"`
	RedObjective        string   `json:"red_objective,omitempty"`
	BlueObjective       string   `json:"blue_objective,omitempty"`
	DurationHintSeconds int      `json:"duration_hint_seconds,omitempty"`
	RedActions          []string `json:"red_actions,omitempty"`
	BlueActions         []string `json:"blue_actions,omitempty"`
	GMPrompts           []string `json:"gm_prompts,omitempty"`
}

// PhaseAt returns the phase with the given index.
func (s Scenario) PhaseAt(index int) (Phase, bool) {
	if index < 0 || index >= len(s.Phases) {
		return Phase{}, false
	}
	return s.Phases[index], true
}

// ActionsFor returns the legal action set for a role in this phase.
func (p Phase) ActionsFor(role TeamRole) []string {
	if role == RoleRed {
		return p.RedActions
	}
	return p.BlueActions
}

// AllowsAction reports whether action is legal for the role in this phase.
func (p Phase) AllowsAction(role TeamRole, action string) bool {
	for _, a := range p.ActionsFor(role) {
		if a == action {
			return true
		}
	}
	return false
}

// ObjectiveFor returns the role-specific objective text.
func (p Phase) ObjectiveFor(role TeamRole) string {
	if role == RoleRed {
		return p.RedObjective
	}
	return p.BlueObjective
}
