// Package importer loads workout session export files (one JSON session per
// file) into the tracker. Files are deduplicated against a local SQLite state
// database, and sessions are applied in calendar order so fatigue recovery
// between sessions is computed correctly.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/dsecrist80/workout-tracker-sub000/internal/engine"
	"github.com/dsecrist80/workout-tracker-sub000/internal/models"
)

// Stats tracks import progress.
type Stats struct {
	FilesProcessed   int
	FilesSkipped     int
	FilesErrored     int
	SessionsImported int
	RestDaysImported int
}

// SessionLogger applies one validated session. *tracker.Tracker satisfies it.
type SessionLogger interface {
	LogSession(ctx context.Context, userID int, session models.Session) (engine.SessionResult, error)
}

// Importer reads session export files from a directory and feeds the tracker.
type Importer struct {
	tracker SessionLogger
	state   *StateDB
	log     *slog.Logger
	userID  int
	dryRun  bool
	stats   Stats
}

// New creates a new Importer. state may be nil, in which case every file is
// treated as new (dedupe disabled).
func New(tr SessionLogger, state *StateDB, userID int, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{tracker: tr, state: state, userID: userID, log: log, dryRun: dryRun}
}

// pending is a parsed file waiting to be applied in date order.
type pending struct {
	relPath string
	size    int64
	hash    string
	session models.Session
}

// Import processes all .json session files under dir.
func (imp *Importer) Import(ctx context.Context, dir string) (*Stats, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return &imp.stats, fmt.Errorf("listing session files: %w", err)
	}

	var queue []pending
	for _, f := range files {
		p, skip, err := imp.readFile(dir, f)
		if err != nil {
			imp.log.Warn("skipping file", "file", f, "error", err)
			imp.stats.FilesErrored++
			continue
		}
		if skip {
			imp.stats.FilesSkipped++
			continue
		}
		queue = append(queue, p)
	}

	// Apply oldest first. The engine's recovery decay depends on the gap
	// between consecutive sessions, so order matters.
	sort.Slice(queue, func(i, j int) bool {
		return queue[i].session.Date.Before(queue[j].session.Date)
	})

	for _, p := range queue {
		imp.stats.FilesProcessed++

		if imp.dryRun {
			imp.log.Info("dry run: would import session",
				"file", p.relPath, "date", p.session.Date, "exercises", len(p.session.Exercises))
			continue
		}

		result, err := imp.tracker.LogSession(ctx, imp.userID, p.session)
		if err != nil {
			imp.log.Warn("session rejected", "file", p.relPath, "error", err)
			imp.stats.FilesErrored++
			continue
		}

		if result.IsRestDay {
			imp.stats.RestDaysImported++
		} else {
			imp.stats.SessionsImported++
		}

		if imp.state != nil {
			if err := imp.state.MarkImported(p.relPath, p.size, p.hash); err != nil {
				return &imp.stats, fmt.Errorf("recording import state for %s: %w", p.relPath, err)
			}
		}
	}

	return &imp.stats, nil
}

// readFile parses one export file and checks the dedupe state.
func (imp *Importer) readFile(dir, path string) (pending, bool, error) {
	relPath, err := filepath.Rel(dir, path)
	if err != nil {
		relPath = path
	}

	info, err := os.Stat(path)
	if err != nil {
		return pending{}, false, err
	}
	hash, err := HashFile(path)
	if err != nil {
		return pending{}, false, fmt.Errorf("hashing: %w", err)
	}

	if imp.state != nil {
		done, err := imp.state.IsImported(relPath, info.Size(), hash)
		if err != nil {
			return pending{}, false, fmt.Errorf("checking import state: %w", err)
		}
		if done {
			return pending{}, true, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return pending{}, false, err
	}
	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return pending{}, false, fmt.Errorf("parsing: %w", err)
	}

	return pending{relPath: relPath, size: info.Size(), hash: hash, session: session}, false, nil
}
