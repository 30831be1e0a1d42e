// Package session implements the session controller: the single
// writer of game state. Every command and query is routed through it,
// and all writes to one game are serialized behind a per-game mutex,
// so a GM action can never interleave partially with a vote or
// another GM action on the same game. Different games share nothing
// but the store handle.
package session

import (
	"crypto/rand"
	"encoding/base32"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"ttx-service/internal/domain"
	"ttx-service/internal/logging"
	"ttx-service/internal/metrics"
	"ttx-service/internal/store"
)

// Service coordinates game lifecycle, voting, and scoring.
type Service struct {
	store   store.Store
	logger  *slog.Logger
	metrics *metrics.Recorder

	now     func() time.Time
	newID   func() string
	newCode func() string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService constructs a Service with production defaults.
func NewService(st store.Store, logger *slog.Logger, recorder *metrics.Recorder) *Service {
	return &Service{
		store:   st,
		logger:  logger,
		metrics: recorder,
		now:     time.Now,
		newID:   uuid.NewString,
		newCode: newJoinCode,
		locks:   make(map[string]*sync.Mutex),
	}
}

// WithClock overrides the clock and generators; used by tests.
func (s *Service) WithClock(now func() time.Time, newID func() string, newCode func() string) *Service {
	if now != nil {
		s.now = now
	}
	if newID != nil {
		s.newID = newID
	}
	if newCode != nil {
		s.newCode = newCode
	}
	return s
}

// newJoinCode returns a short unambiguous code players type in.
func newJoinCode() string {
	var b [5]byte
	if _, err := rand.Read(b[:]); err != nil {
		return strings.ToUpper(uuid.NewString()[:8])
	}
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(b[:])
}

func (s *Service) lockFor(gameID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[gameID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[gameID] = l
	}
	return l
}

func (s *Service) releaseLock(gameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.locks, gameID)
}

// update runs fn against the game under its mutex and persists the
// result only when fn succeeds, so failed calls have no side effect.
func (s *Service) update(gameID string, fn func(g *domain.Game, sc domain.Scenario) error) (domain.Game, error) {
	lock := s.lockFor(gameID)
	lock.Lock()
	defer lock.Unlock()

	g, err := s.store.GetGame(gameID)
	if err != nil {
		return domain.Game{}, err
	}
	sc, err := s.store.GetScenario(g.ScenarioID)
	if err != nil {
		return domain.Game{}, err
	}
	if err := fn(&g, sc); err != nil {
		return domain.Game{}, err
	}
	if err := s.store.PutGame(g); err != nil {
		return domain.Game{}, domain.Wrap(domain.CodeUnknown, "persist game", err)
	}
	return g, nil
}

// read loads a coherent (game, scenario) pair without mutating.
func (s *Service) read(gameID string) (domain.Game, domain.Scenario, error) {
	g, err := s.store.GetGame(gameID)
	if err != nil {
		return domain.Game{}, domain.Scenario{}, err
	}
	sc, err := s.store.GetScenario(g.ScenarioID)
	if err != nil {
		return domain.Game{}, domain.Scenario{}, err
	}
	return g, sc, nil
}

func requireGM(g *domain.Game, gmID string) error {
	if gmID == "" || g.GMID != gmID {
		return domain.New(domain.CodeForbidden, "game belongs to a different gm")
	}
	return nil
}

// CreateGameInput describes a GM's game creation request.
type CreateGameInput struct {
	GMID       string
	ScenarioID string
}

// CreateGame creates a lobby game with fresh team and audience codes.
func (s *Service) CreateGame(input CreateGameInput) (GameView, error) {
	sc, err := s.store.GetScenario(strings.TrimSpace(input.ScenarioID))
	if err != nil {
		return GameView{}, err
	}
	g, err := domain.NewGame(domain.CreateGameInput{GMID: input.GMID, ScenarioID: sc.ID}, s.now, s.newID, s.newCode)
	if err != nil {
		return GameView{}, err
	}
	if err := s.store.PutGame(g); err != nil {
		return GameView{}, domain.Wrap(domain.CodeUnknown, "persist game", err)
	}
	logging.Info(s.logger, "game created",
		logging.FieldGameID, g.ID,
		logging.FieldScenario, sc.ID,
	)
	return s.gameView(g, sc), nil
}

// Games lists the GM's games, newest first.
func (s *Service) Games(gmID string) ([]GameView, error) {
	games, err := s.store.GamesByGM(gmID)
	if err != nil {
		return nil, err
	}
	out := make([]GameView, 0, len(games))
	for _, g := range games {
		sc, err := s.store.GetScenario(g.ScenarioID)
		if err != nil {
			return nil, err
		}
		out = append(out, s.gameView(g, sc))
	}
	return out, nil
}

// Game returns the composed snapshot for the owning GM.
func (s *Service) Game(gameID, gmID string) (GameView, error) {
	g, sc, err := s.read(gameID)
	if err != nil {
		return GameView{}, err
	}
	if err := requireGM(&g, gmID); err != nil {
		return GameView{}, err
	}
	return s.gameView(g, sc), nil
}

// DeleteGame removes a game and everything recorded under it.
func (s *Service) DeleteGame(gameID, gmID string) error {
	lock := s.lockFor(gameID)
	lock.Lock()
	defer lock.Unlock()

	g, err := s.store.GetGame(gameID)
	if err != nil {
		return err
	}
	if err := requireGM(&g, gmID); err != nil {
		return err
	}
	if err := s.store.DeleteGame(gameID); err != nil {
		return err
	}
	s.releaseLock(gameID)
	logging.Info(s.logger, "game deleted", logging.FieldGameID, gameID)
	return nil
}

// command runs a GM phase command and records its outcome.
func (s *Service) command(name, gameID, gmID string, fn func(g *domain.Game, sc domain.Scenario) error) (GameView, error) {
	var view GameView
	g, err := s.update(gameID, func(g *domain.Game, sc domain.Scenario) error {
		if err := requireGM(g, gmID); err != nil {
			return err
		}
		if err := fn(g, sc); err != nil {
			return err
		}
		view = s.gameView(*g, sc)
		return nil
	})
	s.metrics.RecordCommand(name, err)
	if err != nil {
		return GameView{}, err
	}
	logging.Info(s.logger, "game command applied",
		logging.FieldGameID, g.ID,
		logging.FieldCommand, name,
		logging.FieldPhaseState, string(g.PhaseState),
	)
	return view, nil
}

// Start begins the exercise at the scenario's first phase.
func (s *Service) Start(gameID, gmID string) (GameView, error) {
	return s.command("start", gameID, gmID, func(g *domain.Game, sc domain.Scenario) error {
		return g.Start(sc, s.now)
	})
}

// OpenForDecisions opens the current phase for voting.
func (s *Service) OpenForDecisions(gameID, gmID string) (GameView, error) {
	return s.command("open_for_decisions", gameID, gmID, func(g *domain.Game, sc domain.Scenario) error {
		return g.OpenForDecisions(s.now)
	})
}

// LockDecisions freezes votes and resolves team decisions.
func (s *Service) LockDecisions(gameID, gmID string) (GameView, error) {
	return s.command("lock_decisions", gameID, gmID, func(g *domain.Game, sc domain.Scenario) error {
		return g.LockDecisions(sc, s.now, s.newID)
	})
}

// CompleteAndNext finishes the phase and advances, or ends the game.
func (s *Service) CompleteAndNext(gameID, gmID string) (GameView, error) {
	return s.command("complete_and_next", gameID, gmID, func(g *domain.Game, sc domain.Scenario) error {
		return g.CompleteAndNext(sc, s.now)
	})
}

// End forces the game to finished.
func (s *Service) End(gameID, gmID string) (GameView, error) {
	return s.command("end", gameID, gmID, func(g *domain.Game, sc domain.Scenario) error {
		return g.End(s.now)
	})
}

// Pause suspends an in-progress game.
func (s *Service) Pause(gameID, gmID string) (GameView, error) {
	return s.command("pause", gameID, gmID, func(g *domain.Game, sc domain.Scenario) error {
		return g.Pause(s.now)
	})
}

// Resume returns a paused game to play.
func (s *Service) Resume(gameID, gmID string) (GameView, error) {
	return s.command("resume", gameID, gmID, func(g *domain.Game, sc domain.Scenario) error {
		return g.Resume(s.now)
	})
}

// Scenarios lists available exercise content without phase detail.
func (s *Service) Scenarios() ([]ScenarioView, error) {
	scs, err := s.store.Scenarios()
	if err != nil {
		return nil, err
	}
	out := make([]ScenarioView, 0, len(scs))
	for _, sc := range scs {
		out = append(out, ScenarioView{
			ID:          sc.ID,
			Name:        sc.Name,
			Description: sc.Description,
			PhaseCount:  len(sc.Phases),
		})
	}
	return out, nil
}

// Scenario returns full scenario content.
func (s *Service) Scenario(id string) (ScenarioView, error) {
	sc, err := s.store.GetScenario(id)
	if err != nil {
		return ScenarioView{}, err
	}
	return ScenarioView{
		ID:          sc.ID,
		Name:        sc.Name,
		Description: sc.Description,
		Phases:      sc.Phases,
		PhaseCount:  len(sc.Phases),
	}, nil
}

func (s *Service) gameView(g domain.Game, sc domain.Scenario) GameView {
	view := GameView{
		ID:           g.ID,
		ScenarioID:   g.ScenarioID,
		ScenarioName: sc.Name,
		Status:       g.Status,
		PhaseState:   g.PhaseState,
		TotalPhases:  len(sc.Phases),
		AudienceCode: g.AudienceCode,
		CreatedAt:    g.CreatedAt,
		UpdatedAt:    g.UpdatedAt,
	}
	if phase, ok := sc.PhaseAt(g.CurrentPhase); ok {
		view.CurrentPhase = phaseView(phase)
	}
	view.Teams = make([]TeamView, 0, len(g.Teams))
	for _, t := range g.Teams {
		view.Teams = append(view.Teams, teamView(t))
	}
	return view
}

func phaseView(p domain.Phase) *PhaseView {
	return &PhaseView{
		Index:               p.Index,
		Name:                p.Name,
		Briefing:            p.Briefing,
		DurationHintSeconds: p.DurationHintSeconds,
		GMPrompts:           p.GMPrompts,
	}
}

func teamView(t domain.Team) TeamView {
	view := TeamView{
		ID:   t.ID,
		Name: t.Name,
		Role: t.Role,
		Code: t.Code,
	}
	view.Players = make([]PlayerView, 0, len(t.Players))
	for _, p := range t.Players {
		view.Players = append(view.Players, PlayerView{
			ID:          p.ID,
			DisplayName: p.DisplayName,
			JoinedAt:    p.JoinedAt,
		})
	}
	return view
}
