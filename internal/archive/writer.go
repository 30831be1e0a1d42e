// Package archive persists after-action reports for finished games so
// the record of an exercise survives the session that produced it.
package archive

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"ttx-service/internal/app/report"
)

// Writer persists report archives and the manifest with pruning.
type Writer struct {
	basePath string
	keep     int
}

// NewWriter constructs a writer rooted at basePath keeping the newest
// keep archives.
func NewWriter(basePath string, keep int) *Writer {
	if keep <= 0 {
		keep = 50
	}
	return &Writer{basePath: basePath, keep: keep}
}

// BasePath exposes the writer root path (primarily for testing).
func (w *Writer) BasePath() string {
	if w == nil {
		return ""
	}
	return w.basePath
}

// ReportPath builds the path to a game's archived report.
func ReportPath(basePath, gameID string) string {
	return filepath.Join(basePath, "reports", fmt.Sprintf("%s.json", gameID))
}

// Has reports whether a game's report is already archived.
func (w *Writer) Has(gameID string) bool {
	if w == nil {
		return false
	}
	_, err := os.Stat(ReportPath(w.basePath, gameID))
	return err == nil
}

// WriteReport archives the report and prunes archives beyond the
// retention count. An unchanged payload only refreshes the manifest.
func (w *Writer) WriteReport(rep report.Report) error {
	if w == nil {
		return fmt.Errorf("archive writer not configured")
	}
	if rep.GameID == "" {
		return fmt.Errorf("game id required")
	}

	target := ReportPath(w.basePath, rep.GameID)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	if existing, err := os.ReadFile(target); err == nil && bytes.Equal(existing, data) {
		return w.updateManifest(rep.GameID, rep.GeneratedAt)
	}

	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, target); err != nil {
		return err
	}

	return w.updateManifest(rep.GameID, rep.GeneratedAt)
}

func (w *Writer) updateManifest(gameID string, archivedAt time.Time) error {
	m, _ := readManifest(filepath.Join(w.basePath, "manifest.json"), w.keep)

	found := false
	for i := range m.Reports {
		if m.Reports[i].GameID == gameID {
			m.Reports[i].ArchivedAt = archivedAt
			found = true
			break
		}
	}
	if !found {
		m.Reports = append(m.Reports, ReportMeta{GameID: gameID, ArchivedAt: archivedAt})
	}

	m.Reports = w.prune(m.Reports)
	m.Keep = w.keep
	return writeManifest(w.basePath, m)
}

// prune removes archive files beyond the retention count, oldest
// first, and returns the surviving entries newest first.
func (w *Writer) prune(reports []ReportMeta) []ReportMeta {
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].ArchivedAt.After(reports[j].ArchivedAt)
	})
	if len(reports) <= w.keep {
		return reports
	}
	for _, meta := range reports[w.keep:] {
		_ = os.Remove(ReportPath(w.basePath, meta.GameID))
	}
	return reports[:w.keep]
}
