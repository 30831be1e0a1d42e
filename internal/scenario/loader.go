package scenario

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"ttx-service/internal/domain"
)

// LoadDir reads scenario JSON files (*.json) from dir. Files are
// loaded in name order; a scenario without an id takes the file name.
func LoadDir(dir string) ([]domain.Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read scenario dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	out := make([]domain.Scenario, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read scenario %s: %w", name, err)
		}
		var sc domain.Scenario
		if err := json.Unmarshal(data, &sc); err != nil {
			return nil, fmt.Errorf("parse scenario %s: %w", name, err)
		}
		if sc.ID == "" {
			sc.ID = strings.TrimSuffix(name, ".json")
		}
		if err := validate(sc); err != nil {
			return nil, fmt.Errorf("scenario %s: %w", name, err)
		}
		out = append(out, sc)
	}
	return out, nil
}

func validate(sc domain.Scenario) error {
	if sc.Name == "" {
		return fmt.Errorf("name is required")
	}
	for i, p := range sc.Phases {
		if p.Index != i {
			return fmt.Errorf("phase %d has index %d; phases must be ordered and contiguous", i, p.Index)
		}
	}
	return nil
}
