package archive

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Manifest tracks which reports are archived and when.
type Manifest struct {
	Version     int          `json:"version"`
	GeneratedAt time.Time    `json:"generatedAt"`
	Keep        int          `json:"keep"`
	Reports     []ReportMeta `json:"reports"`
}

// ReportMeta is one archived report entry.
type ReportMeta struct {
	GameID     string    `json:"gameId"`
	ArchivedAt time.Time `json:"archivedAt"`
}

func defaultManifest(keep int) Manifest {
	return Manifest{
		Version:     1,
		GeneratedAt: time.Now().UTC(),
		Keep:        keep,
		Reports:     []ReportMeta{},
	}
}

func readManifest(path string, keep int) (Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return defaultManifest(keep), err
	}
	defer f.Close()
	var m Manifest
	if err := json.NewDecoder(f).Decode(&m); err != nil {
		return defaultManifest(keep), err
	}
	return m, nil
}

func writeManifest(basePath string, m Manifest) error {
	m.GeneratedAt = time.Now().UTC()
	path := filepath.Join(basePath, "manifest.json")
	tmp := path + ".tmp"
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
