// Package store persists game aggregates and scenario content. The
// session service serializes all writes per game, so implementations
// only need to be safe for concurrent use across games.
package store

import (
	"sort"

	"ttx-service/internal/domain"
)

// Store is the persistence contract for games and scenarios.
type Store interface {
	PutGame(g domain.Game) error
	GetGame(id string) (domain.Game, error)
	DeleteGame(id string) error
	Games() ([]domain.Game, error)
	GamesByGM(gmID string) ([]domain.Game, error)

	// GameIDByCode resolves a team join code or audience code.
	GameIDByCode(code string) (string, error)

	PutScenario(s domain.Scenario) error
	GetScenario(id string) (domain.Scenario, error)
	Scenarios() ([]domain.Scenario, error)

	Close() error
}

func sortGamesNewestFirst(games []domain.Game) {
	sort.Slice(games, func(i, j int) bool {
		if games[i].CreatedAt.Equal(games[j].CreatedAt) {
			return games[i].ID < games[j].ID
		}
		return games[i].CreatedAt.After(games[j].CreatedAt)
	})
}

func gameCodes(g domain.Game) []string {
	codes := make([]string, 0, len(g.Teams)+1)
	for _, t := range g.Teams {
		if t.Code != "" {
			codes = append(codes, t.Code)
		}
	}
	if g.AudienceCode != "" {
		codes = append(codes, g.AudienceCode)
	}
	return codes
}
