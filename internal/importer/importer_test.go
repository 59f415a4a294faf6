package importer

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/dsecrist80/workout-tracker-sub000/internal/engine"
	"github.com/dsecrist80/workout-tracker-sub000/internal/models"
)

// fakeLogger records sessions in the order they were applied.
type fakeLogger struct {
	sessions []models.Session
}

func (f *fakeLogger) LogSession(_ context.Context, _ int, s models.Session) (engine.SessionResult, error) {
	f.sessions = append(f.sessions, s)
	return engine.SessionResult{IsRestDay: s.IsRestDay()}, nil
}

func testLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeSession(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

const sessionB = `{"date": "2024-01-03", "exercises": [{
	"exercise_name": "Squat", "type": "compound_lower",
	"primary_muscles": ["quads"],
	"sets": [{"weight_kg": 140, "reps": 5, "rir": 2}]
}]}`

const sessionA = `{"date": "2024-01-01", "exercises": [{
	"exercise_name": "Bench Press", "type": "compound_upper",
	"primary_muscles": ["chest"],
	"sets": [{"weight_kg": 100, "reps": 8, "rir": 2}]
}]}`

const restDay = `{"date": "2024-01-02", "soreness": {"chest": 6}}`

// TestImportAppliesInDateOrder verifies sessions are applied oldest first
// regardless of file name order.
func TestImportAppliesInDateOrder(t *testing.T) {
	dir := t.TempDir()
	writeSession(t, dir, "a-later.json", sessionB)
	writeSession(t, dir, "b-earlier.json", sessionA)
	writeSession(t, dir, "c-rest.json", restDay)

	logger := &fakeLogger{}
	imp := New(logger, nil, 1, testLog(), false)

	stats, err := imp.Import(context.Background(), dir)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}

	if stats.SessionsImported != 2 || stats.RestDaysImported != 1 {
		t.Errorf("stats = %+v, want 2 sessions and 1 rest day", stats)
	}
	want := []models.Day{"2024-01-01", "2024-01-02", "2024-01-03"}
	if len(logger.sessions) != len(want) {
		t.Fatalf("applied %d sessions, want %d", len(logger.sessions), len(want))
	}
	for i, day := range want {
		if logger.sessions[i].Date != day {
			t.Errorf("sessions[%d].Date = %s, want %s", i, logger.sessions[i].Date, day)
		}
	}
}

// TestImportDedupe verifies a second run over the same directory skips every
// file recorded in the state database.
func TestImportDedupe(t *testing.T) {
	dir := t.TempDir()
	writeSession(t, dir, "one.json", sessionA)

	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatalf("OpenStateDB: %v", err)
	}
	defer state.Close()

	logger := &fakeLogger{}
	imp := New(logger, state, 1, testLog(), false)
	if _, err := imp.Import(context.Background(), dir); err != nil {
		t.Fatalf("first import: %v", err)
	}

	second := New(logger, state, 1, testLog(), false)
	stats, err := second.Import(context.Background(), dir)
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if stats.FilesSkipped != 1 || stats.FilesProcessed != 0 {
		t.Errorf("second run stats = %+v, want 1 skipped, 0 processed", stats)
	}
	if len(logger.sessions) != 1 {
		t.Errorf("sessions applied across both runs = %d, want 1", len(logger.sessions))
	}
}

// TestImportChangedFileReimports verifies a file whose content changed since
// the last run is imported again.
func TestImportChangedFileReimports(t *testing.T) {
	dir := t.TempDir()
	writeSession(t, dir, "one.json", sessionA)

	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatalf("OpenStateDB: %v", err)
	}
	defer state.Close()

	logger := &fakeLogger{}
	if _, err := New(logger, state, 1, testLog(), false).Import(context.Background(), dir); err != nil {
		t.Fatalf("first import: %v", err)
	}

	writeSession(t, dir, "one.json", sessionB)
	stats, err := New(logger, state, 1, testLog(), false).Import(context.Background(), dir)
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if stats.FilesProcessed != 1 {
		t.Errorf("changed file not re-imported: %+v", stats)
	}
}

// TestImportDryRun verifies dry-run mode applies nothing and records nothing.
func TestImportDryRun(t *testing.T) {
	dir := t.TempDir()
	writeSession(t, dir, "one.json", sessionA)

	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatalf("OpenStateDB: %v", err)
	}
	defer state.Close()

	logger := &fakeLogger{}
	stats, err := New(logger, state, 1, testLog(), true).Import(context.Background(), dir)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if stats.FilesProcessed != 1 {
		t.Errorf("stats = %+v, want 1 processed", stats)
	}
	if len(logger.sessions) != 0 {
		t.Errorf("dry run applied %d sessions", len(logger.sessions))
	}

	done, err := state.IsImported("one.json", 0, "")
	if err != nil {
		t.Fatalf("IsImported: %v", err)
	}
	if done {
		t.Error("dry run marked file as imported")
	}
}

// TestImportBadJSON verifies malformed files are counted and skipped without
// aborting the run.
func TestImportBadJSON(t *testing.T) {
	dir := t.TempDir()
	writeSession(t, dir, "bad.json", "{not json")
	writeSession(t, dir, "good.json", sessionA)

	logger := &fakeLogger{}
	stats, err := New(logger, nil, 1, testLog(), false).Import(context.Background(), dir)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if stats.FilesErrored != 1 || stats.SessionsImported != 1 {
		t.Errorf("stats = %+v, want 1 errored and 1 imported", stats)
	}
}
