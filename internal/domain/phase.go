package domain

import "time"

// The phase lifecycle is strictly linear and GM-driven:
//
//	not_started -> briefing -> open_for_decisions -> decision_lock -> resolution -> complete
//
// decision_lock and resolution are fused from the caller's point of
// view: LockDecisions resolves every team and lands on resolution in
// one atomic step. Transitions attempted out of order fail with
// INVALID_TRANSITION and leave the game untouched.

// Start moves the game from the lobby into the scenario's first phase.
func (g *Game) Start(sc Scenario, now func() time.Time) error {
	if g.Status != StatusLobby {
		return Newf(CodeInvalidTransition, "cannot start game in status %s", g.Status)
	}
	if len(sc.Phases) == 0 {
		return New(CodeInvalidTransition, "scenario has no phases")
	}
	g.Status = StatusInProgress
	g.CurrentPhase = 0
	g.PhaseState = PhaseBriefing
	g.UpdatedAt = now().UTC()
	return nil
}

// OpenForDecisions opens the current phase for vote submissions.
func (g *Game) OpenForDecisions(now func() time.Time) error {
	if g.Status != StatusInProgress {
		return Newf(CodeInvalidTransition, "cannot open decisions while game is %s", g.Status)
	}
	if g.PhaseState != PhaseBriefing {
		return Newf(CodeInvalidTransition, "cannot open decisions in state %s", g.PhaseState)
	}
	g.PhaseState = PhaseOpenForDecisions
	g.UpdatedAt = now().UTC()
	return nil
}

// LockDecisions freezes the current phase's votes and resolves one
// decision per team that has at least one vote or one player. Locking
// with missing votes is allowed; callers surface their own
// confirmation using the voting status.
func (g *Game) LockDecisions(sc Scenario, now func() time.Time, newID func() string) error {
	if g.Status != StatusInProgress {
		return Newf(CodeInvalidTransition, "cannot lock decisions while game is %s", g.Status)
	}
	if g.PhaseState != PhaseOpenForDecisions {
		return Newf(CodeInvalidTransition, "cannot lock decisions in state %s", g.PhaseState)
	}

	ts := now().UTC()
	resolved := make([]Decision, 0, len(g.Teams))
	for _, team := range g.Teams {
		votes := g.VotesFor(g.CurrentPhase, team.ID)
		if len(votes) == 0 && len(team.Players) == 0 {
			continue
		}
		resolved = append(resolved, ResolveDecision(team, votes, g.CurrentPhase, ts, newID))
	}

	g.Decisions = append(g.Decisions, resolved...)
	g.PhaseState = PhaseResolution
	g.UpdatedAt = ts
	return nil
}

// CompleteAndNext finishes the current phase and advances to the next
// one, or finishes the whole game when the scenario is exhausted.
func (g *Game) CompleteAndNext(sc Scenario, now func() time.Time) error {
	if g.Status != StatusInProgress {
		return Newf(CodeInvalidTransition, "cannot advance while game is %s", g.Status)
	}
	if g.PhaseState != PhaseResolution {
		return Newf(CodeInvalidTransition, "cannot advance in state %s", g.PhaseState)
	}

	ts := now().UTC()
	if g.CurrentPhase+1 < len(sc.Phases) {
		g.CurrentPhase++
		g.PhaseState = PhaseBriefing
	} else {
		g.Status = StatusFinished
		g.PhaseState = PhaseComplete
	}
	g.UpdatedAt = ts
	return nil
}

// End forces the game to finished from any in-progress state,
// freezing all further mutation.
func (g *Game) End(now func() time.Time) error {
	if g.Status != StatusInProgress && g.Status != StatusPaused {
		return Newf(CodeInvalidTransition, "cannot end game in status %s", g.Status)
	}
	g.Status = StatusFinished
	g.PhaseState = PhaseComplete
	g.UpdatedAt = now().UTC()
	return nil
}

// Pause suspends an in-progress game; the phase runtime state is kept
// so Resume picks up exactly where the game stopped.
func (g *Game) Pause(now func() time.Time) error {
	if g.Status != StatusInProgress {
		return Newf(CodeInvalidTransition, "cannot pause game in status %s", g.Status)
	}
	g.Status = StatusPaused
	g.UpdatedAt = now().UTC()
	return nil
}

// Resume returns a paused game to in_progress.
func (g *Game) Resume(now func() time.Time) error {
	if g.Status != StatusPaused {
		return Newf(CodeInvalidTransition, "cannot resume game in status %s", g.Status)
	}
	g.Status = StatusInProgress
	g.UpdatedAt = now().UTC()
	return nil
}
