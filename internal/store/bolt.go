package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"

	"ttx-service/internal/domain"
)

const (
	bucketGames     = "games"
	bucketCodes     = "codes"
	bucketScenarios = "scenarios"
)

// BoltStore is a bbolt-backed store. Aggregates are marshaled as JSON
// documents, one per game, so every mutation is a single atomic
// bucket write.
type BoltStore struct {
	db *bolt.DB
}

// OpenBolt opens (or creates) a bbolt store at the given path.
func OpenBolt(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt store: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{bucketGames, bucketCodes, bucketScenarios} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create buckets: %w", err)
	}
	return &BoltStore{db: db}, nil
}

// PutGame writes the game document and refreshes its code index.
func (s *BoltStore) PutGame(g domain.Game) error {
	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("marshal game: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket([]byte(bucketGames)).Put([]byte(g.ID), data); err != nil {
			return err
		}
		codes := tx.Bucket([]byte(bucketCodes))
		for _, code := range gameCodes(g) {
			if err := codes.Put([]byte(code), []byte(g.ID)); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetGame reads a game document by id.
func (s *BoltStore) GetGame(id string) (domain.Game, error) {
	var g domain.Game
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(bucketGames)).Get([]byte(id))
		if data == nil {
			return domain.New(domain.CodeNotFound, "game not found")
		}
		return json.Unmarshal(data, &g)
	})
	if err != nil {
		return domain.Game{}, err
	}
	return g, nil
}

// DeleteGame removes the game document and its code index entries.
func (s *BoltStore) DeleteGame(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		games := tx.Bucket([]byte(bucketGames))
		data := games.Get([]byte(id))
		if data == nil {
			return domain.New(domain.CodeNotFound, "game not found")
		}
		var g domain.Game
		if err := json.Unmarshal(data, &g); err != nil {
			return err
		}
		codes := tx.Bucket([]byte(bucketCodes))
		for _, code := range gameCodes(g) {
			if err := codes.Delete([]byte(code)); err != nil {
				return err
			}
		}
		return games.Delete([]byte(id))
	})
}

// Games returns every stored game, newest first.
func (s *BoltStore) Games() ([]domain.Game, error) {
	var out []domain.Game
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketGames)).ForEach(func(_, data []byte) error {
			var g domain.Game
			if err := json.Unmarshal(data, &g); err != nil {
				return err
			}
			out = append(out, g)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sortGamesNewestFirst(out)
	return out, nil
}

// GamesByGM scans for the GM's games, newest first.
func (s *BoltStore) GamesByGM(gmID string) ([]domain.Game, error) {
	var out []domain.Game
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketGames)).ForEach(func(_, data []byte) error {
			var g domain.Game
			if err := json.Unmarshal(data, &g); err != nil {
				return err
			}
			if g.GMID == gmID {
				out = append(out, g)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sortGamesNewestFirst(out)
	return out, nil
}

// GameIDByCode resolves a team join code or audience code.
func (s *BoltStore) GameIDByCode(code string) (string, error) {
	var id string
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(bucketCodes)).Get([]byte(code))
		if data == nil {
			return domain.New(domain.CodeNotFound, "unknown code")
		}
		id = string(data)
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// PutScenario writes scenario content.
func (s *BoltStore) PutScenario(sc domain.Scenario) error {
	data, err := json.Marshal(sc)
	if err != nil {
		return fmt.Errorf("marshal scenario: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketScenarios)).Put([]byte(sc.ID), data)
	})
}

// GetScenario reads scenario content by id.
func (s *BoltStore) GetScenario(id string) (domain.Scenario, error) {
	var sc domain.Scenario
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(bucketScenarios)).Get([]byte(id))
		if data == nil {
			return domain.New(domain.CodeNotFound, "scenario not found")
		}
		return json.Unmarshal(data, &sc)
	})
	if err != nil {
		return domain.Scenario{}, err
	}
	return sc, nil
}

// Scenarios lists all scenarios sorted by name.
func (s *BoltStore) Scenarios() ([]domain.Scenario, error) {
	var out []domain.Scenario
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketScenarios)).ForEach(func(_, data []byte) error {
			var sc domain.Scenario
			if err := json.Unmarshal(data, &sc); err != nil {
				return err
			}
			out = append(out, sc)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Close closes the underlying database file.
func (s *BoltStore) Close() error { return s.db.Close() }
