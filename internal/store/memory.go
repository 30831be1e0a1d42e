package store

import (
	"sort"
	"sync"

	"ttx-service/internal/domain"
)

// MemoryStore keeps games and scenarios in process memory. It backs
// tests and deployments that accept losing state on restart.
type MemoryStore struct {
	mu        sync.RWMutex
	games     map[string]domain.Game
	codes     map[string]string // join/audience code -> game id
	scenarios map[string]domain.Scenario
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		games:     make(map[string]domain.Game),
		codes:     make(map[string]string),
		scenarios: make(map[string]domain.Scenario),
	}
}

// PutGame stores a deep copy of the game and indexes its codes.
func (s *MemoryStore) PutGame(g domain.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.games[g.ID] = g.Clone()
	for _, code := range gameCodes(g) {
		s.codes[code] = g.ID
	}
	return nil
}

// GetGame retrieves a game by id.
func (s *MemoryStore) GetGame(id string) (domain.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[id]
	if !ok {
		return domain.Game{}, domain.New(domain.CodeNotFound, "game not found")
	}
	return g.Clone(), nil
}

// DeleteGame removes a game and its code index entries.
func (s *MemoryStore) DeleteGame(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[id]
	if !ok {
		return domain.New(domain.CodeNotFound, "game not found")
	}
	for _, code := range gameCodes(g) {
		delete(s.codes, code)
	}
	delete(s.games, id)
	return nil
}

// Games returns every stored game, newest first.
func (s *MemoryStore) Games() ([]domain.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Game, 0, len(s.games))
	for _, g := range s.games {
		out = append(out, g.Clone())
	}
	sortGamesNewestFirst(out)
	return out, nil
}

// GamesByGM returns the GM's games, newest first.
func (s *MemoryStore) GamesByGM(gmID string) ([]domain.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Game
	for _, g := range s.games {
		if g.GMID == gmID {
			out = append(out, g.Clone())
		}
	}
	sortGamesNewestFirst(out)
	return out, nil
}

// GameIDByCode resolves a team join code or audience code.
func (s *MemoryStore) GameIDByCode(code string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.codes[code]
	if !ok {
		return "", domain.New(domain.CodeNotFound, "unknown code")
	}
	return id, nil
}

// PutScenario stores scenario content.
func (s *MemoryStore) PutScenario(sc domain.Scenario) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.scenarios[sc.ID] = sc
	return nil
}

// GetScenario retrieves scenario content by id.
func (s *MemoryStore) GetScenario(id string) (domain.Scenario, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sc, ok := s.scenarios[id]
	if !ok {
		return domain.Scenario{}, domain.New(domain.CodeNotFound, "scenario not found")
	}
	return sc, nil
}

// Scenarios lists all scenarios sorted by name.
func (s *MemoryStore) Scenarios() ([]domain.Scenario, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Scenario, 0, len(s.scenarios))
	for _, sc := range s.scenarios {
		out = append(out, sc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close() error { return nil }
