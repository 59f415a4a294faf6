package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/dsecrist80/workout-tracker-sub000/internal/config"
	"github.com/dsecrist80/workout-tracker-sub000/internal/importer"
	"github.com/dsecrist80/workout-tracker-sub000/internal/storage"
	"github.com/dsecrist80/workout-tracker-sub000/internal/tracker"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	sessionsPath := flag.String("path", "", "path to session export directory (required)")
	stateDir := flag.String("state-dir", ".wt-import", "directory for the import state database")
	userID := flag.Int("user", 1, "user ID to import sessions for")
	dryRun := flag.Bool("dry-run", false, "report counts without writing to the database")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *sessionsPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: wt-import -config config.yaml -path /path/to/sessions [-dry-run]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	info, err := os.Stat(*sessionsPath)
	if err != nil || !info.IsDir() {
		log.Error("sessions path does not exist or is not a directory", "path", *sessionsPath)
		os.Exit(1)
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	dsn := cfg.Database.DSN()

	// Run migrations
	if err := storage.RunMigrations(dsn, "migrations"); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	ctx := context.Background()

	if *dryRun {
		log.Info("DRY RUN mode — no data will be written to the database")
	}

	// Connect database
	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	// Open dedupe state
	state, err := importer.OpenStateDB(*stateDir)
	if err != nil {
		log.Error("failed to open import state", "error", err)
		os.Exit(1)
	}
	defer state.Close()

	// Run import through the tracker so fatigue state stays consistent
	tr := tracker.New(db, cfg.Engine, log)
	imp := importer.New(tr, state, *userID, log, *dryRun)
	stats, err := imp.Import(ctx, *sessionsPath)
	if err != nil {
		log.Error("import failed", "error", err)
		printStats(log, stats)
		os.Exit(1)
	}

	printStats(log, stats)
	log.Info("import complete")
}

func printStats(log *slog.Logger, stats *importer.Stats) {
	log.Info("import stats",
		"files_processed", stats.FilesProcessed,
		"files_skipped", stats.FilesSkipped,
		"files_errored", stats.FilesErrored,
		"sessions_imported", stats.SessionsImported,
		"rest_days_imported", stats.RestDaysImported,
	)
}
