package session

import (
	"strings"

	"ttx-service/internal/domain"
	"ttx-service/internal/logging"
)

// Join adds a player to the team matching the join code. Joining again
// with the same display name returns the existing roster entry, so a
// refreshed client keeps its identity.
func (s *Service) Join(teamCode, displayName string) (JoinView, error) {
	teamCode = strings.ToUpper(strings.TrimSpace(teamCode))
	if teamCode == "" {
		return JoinView{}, domain.New(domain.CodeValidation, "team code is required")
	}
	gameID, err := s.store.GameIDByCode(teamCode)
	if err != nil {
		return JoinView{}, domain.New(domain.CodeNotFound, "invalid team code")
	}

	var view JoinView
	g, err := s.update(gameID, func(g *domain.Game, sc domain.Scenario) error {
		var team *domain.Team
		for i := range g.Teams {
			if g.Teams[i].Code == teamCode {
				team = &g.Teams[i]
				break
			}
		}
		if team == nil {
			// The code resolved to a game but not to a team: it is the
			// audience code, which never grants a roster spot.
			return domain.New(domain.CodeNotFound, "invalid team code")
		}
		player, err := g.AddPlayer(team.ID, displayName, s.now, s.newID)
		if err != nil {
			return err
		}
		view = JoinView{
			PlayerID:     player.ID,
			TeamID:       team.ID,
			GameID:       g.ID,
			TeamRole:     team.Role,
			TeamName:     team.Name,
			ScenarioName: sc.Name,
			GameStatus:   g.Status,
		}
		return nil
	})
	if err != nil {
		return JoinView{}, err
	}
	logging.Info(s.logger, "player joined",
		logging.FieldGameID, g.ID,
		logging.FieldTeam, string(view.TeamRole),
	)
	return view, nil
}

// SubmitVoteInput carries a player's vote submission.
type SubmitVoteInput struct {
	PlayerID      string
	Action        string
	Rating        int
	Comment       string
	Justification string
}

// SubmitVote validates and upserts the player's vote for the phase.
// Resubmitting before lock replaces the prior vote and is not an
// error; every failure leaves the vote store untouched.
func (s *Service) SubmitVote(gameID string, phaseIndex int, input SubmitVoteInput) (VoteView, error) {
	var view VoteView
	_, err := s.update(gameID, func(g *domain.Game, sc domain.Scenario) error {
		vote, err := g.SubmitVote(sc, domain.SubmitVoteInput{
			PhaseIndex:    phaseIndex,
			PlayerID:      input.PlayerID,
			Action:        input.Action,
			Rating:        input.Rating,
			Comment:       input.Comment,
			Justification: input.Justification,
		}, s.now, s.newID)
		if err != nil {
			return err
		}
		player, _, _ := g.PlayerByID(vote.PlayerID)
		view = voteView(vote, player.DisplayName)
		return nil
	})
	s.metrics.RecordVote(err)
	if err != nil {
		return VoteView{}, err
	}
	return view, nil
}

// VotingStatus reports per-team voting progress for a phase. It is a
// pure read, always consistent with the vote store at call time.
func (s *Service) VotingStatus(gameID string, phaseIndex int) ([]VotingStatusView, error) {
	g, _, err := s.read(gameID)
	if err != nil {
		return nil, err
	}
	out := make([]VotingStatusView, 0, len(g.Teams))
	for _, t := range g.Teams {
		out = append(out, votingStatusView(&g, t, phaseIndex))
	}
	return out, nil
}

// PhaseComments returns every vote carrying a comment for the phase,
// annotated for the GM's live feed.
func (s *Service) PhaseComments(gameID, gmID string, phaseIndex int) ([]CommentView, error) {
	g, _, err := s.read(gameID)
	if err != nil {
		return nil, err
	}
	if err := requireGM(&g, gmID); err != nil {
		return nil, err
	}
	votes := g.PhaseVotes(phaseIndex)
	out := make([]CommentView, 0, len(votes))
	for _, v := range votes {
		if v.Comment == "" {
			continue
		}
		player, team, ok := g.PlayerByID(v.PlayerID)
		if !ok {
			continue
		}
		out = append(out, CommentView{
			PlayerID:            player.ID,
			PlayerName:          player.DisplayName,
			TeamName:            team.Name,
			TeamRole:            team.Role,
			EffectivenessRating: v.EffectivenessRating,
			Comment:             v.Comment,
			VotedAt:             v.VotedAt,
		})
	}
	return out, nil
}

// PlayerState is the player client's poll target: a flattened view of
// the game, the player's phase material, and the team's voting state.
func (s *Service) PlayerState(gameID, playerID string) (PlayerStateView, error) {
	g, sc, err := s.read(gameID)
	if err != nil {
		return PlayerStateView{}, err
	}
	player, team, ok := g.PlayerByID(playerID)
	if !ok {
		return PlayerStateView{}, domain.New(domain.CodeNotFound, "player not found")
	}

	view := PlayerStateView{
		GameStatus: g.Status,
		PhaseState: g.PhaseState,
		TeamRole:   team.Role,
		TeamName:   team.Name,
	}
	phase, ok := sc.PhaseAt(g.CurrentPhase)
	if !ok {
		return view, nil
	}
	view.CurrentPhase = phaseView(phase)
	view.TeamObjective = phase.ObjectiveFor(team.Role)
	view.CanVote = g.Status == domain.StatusInProgress && g.PhaseState == domain.PhaseOpenForDecisions

	for _, v := range g.VotesFor(g.CurrentPhase, team.ID) {
		if v.PlayerID == player.ID {
			view.HasVoted = true
			break
		}
	}
	if view.CanVote {
		status := votingStatusView(&g, *team, g.CurrentPhase)
		view.TeamVoting = &status
	}
	for _, d := range g.PhaseDecisions(g.CurrentPhase) {
		if d.TeamID == team.ID {
			dv := decisionView(d, *team)
			view.Decision = &dv
			break
		}
	}
	return view, nil
}

func votingStatusView(g *domain.Game, t domain.Team, phaseIndex int) VotingStatusView {
	votes := g.VotesFor(phaseIndex, t.ID)
	names := make(map[string]string, len(t.Players))
	for _, p := range t.Players {
		names[p.ID] = p.DisplayName
	}
	views := make([]VoteView, 0, len(votes))
	for _, v := range votes {
		views = append(views, voteView(v, names[v.PlayerID]))
	}
	return VotingStatusView{
		TeamID:         t.ID,
		TeamName:       t.Name,
		TeamRole:       t.Role,
		TotalPlayers:   len(t.Players),
		VotesSubmitted: len(votes),
		AllVoted:       len(t.Players) > 0 && len(votes) == len(t.Players),
		Votes:          views,
	}
}

func voteView(v domain.Vote, playerName string) VoteView {
	return VoteView{
		ID:                  v.ID,
		PlayerID:            v.PlayerID,
		PlayerName:          playerName,
		SelectedAction:      v.SelectedAction,
		EffectivenessRating: v.EffectivenessRating,
		Comment:             v.Comment,
		Justification:       v.Justification,
		VotedAt:             v.VotedAt,
	}
}
