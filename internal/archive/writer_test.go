package archive

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ttx-service/internal/app/report"
	"ttx-service/internal/domain"
	"ttx-service/internal/testutil"
)

var archiveStart = testutil.MustParseRFC3339("2026-03-14T15:00:00Z")

func sampleReport(gameID string, generatedAt time.Time) report.Report {
	return report.Report{
		GameID:       gameID,
		ScenarioID:   "sample",
		ScenarioName: "Sample Exercise",
		Status:       domain.StatusFinished,
		GeneratedAt:  generatedAt,
	}
}

func readManifestFile(t *testing.T, basePath string) Manifest {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(basePath, "manifest.json"))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	return m
}

func TestWriteReport(t *testing.T) {
	base := t.TempDir()
	w := NewWriter(base, 5)

	if w.Has("g-1") {
		t.Fatal("fresh writer should not have g-1")
	}
	if err := w.WriteReport(sampleReport("g-1", archiveStart)); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}
	if !w.Has("g-1") {
		t.Fatal("archived report not found")
	}

	data, err := os.ReadFile(ReportPath(base, "g-1"))
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}
	var rep report.Report
	if err := json.Unmarshal(data, &rep); err != nil {
		t.Fatalf("decode archive: %v", err)
	}
	if rep.GameID != "g-1" || rep.Status != domain.StatusFinished {
		t.Fatalf("unexpected archived report %+v", rep)
	}

	m := readManifestFile(t, base)
	if m.Version != 1 || m.Keep != 5 {
		t.Fatalf("unexpected manifest header %+v", m)
	}
	if len(m.Reports) != 1 || m.Reports[0].GameID != "g-1" {
		t.Fatalf("unexpected manifest entries %+v", m.Reports)
	}
	if !m.Reports[0].ArchivedAt.Equal(archiveStart) {
		t.Fatalf("unexpected archivedAt %v", m.Reports[0].ArchivedAt)
	}
}

func TestWriteReportRequiresGameID(t *testing.T) {
	w := NewWriter(t.TempDir(), 5)
	if err := w.WriteReport(report.Report{}); err == nil {
		t.Fatal("expected error for missing game id")
	}
}

func TestWriteReportIdenticalPayloadSkipsRewrite(t *testing.T) {
	base := t.TempDir()
	w := NewWriter(base, 5)
	rep := sampleReport("g-1", archiveStart)

	if err := w.WriteReport(rep); err != nil {
		t.Fatalf("first write failed: %v", err)
	}
	before, err := os.Stat(ReportPath(base, "g-1"))
	if err != nil {
		t.Fatalf("stat archive: %v", err)
	}

	if err := w.WriteReport(rep); err != nil {
		t.Fatalf("second write failed: %v", err)
	}
	after, err := os.Stat(ReportPath(base, "g-1"))
	if err != nil {
		t.Fatalf("stat archive: %v", err)
	}
	if !after.ModTime().Equal(before.ModTime()) {
		t.Fatal("unchanged payload rewrote the archive file")
	}
	if len(readManifestFile(t, base).Reports) != 1 {
		t.Fatal("manifest gained a duplicate entry")
	}
}

func TestWriteReportLeavesNoTempFiles(t *testing.T) {
	base := t.TempDir()
	w := NewWriter(base, 5)
	if err := w.WriteReport(sampleReport("g-1", archiveStart)); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(base, "reports"))
	if err != nil {
		t.Fatalf("read reports dir: %v", err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}

func TestWriteReportPrunesBeyondKeep(t *testing.T) {
	base := t.TempDir()
	w := NewWriter(base, 2)

	for i, id := range []string{"g-1", "g-2", "g-3"} {
		rep := sampleReport(id, archiveStart.Add(time.Duration(i)*time.Minute))
		if err := w.WriteReport(rep); err != nil {
			t.Fatalf("WriteReport %s failed: %v", id, err)
		}
	}

	if w.Has("g-1") {
		t.Fatal("oldest archive should have been pruned")
	}
	if !w.Has("g-2") || !w.Has("g-3") {
		t.Fatal("newest archives missing after prune")
	}

	m := readManifestFile(t, base)
	if len(m.Reports) != 2 {
		t.Fatalf("expected 2 manifest entries, got %d", len(m.Reports))
	}
	if m.Reports[0].GameID != "g-3" || m.Reports[1].GameID != "g-2" {
		t.Fatalf("expected newest first, got %+v", m.Reports)
	}
}
