package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/dsecrist80/workout-tracker-sub000/internal/config"
	wtmcp "github.com/dsecrist80/workout-tracker-sub000/internal/mcp"
	"github.com/dsecrist80/workout-tracker-sub000/internal/storage"
	"github.com/dsecrist80/workout-tracker-sub000/internal/tracker"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// Log to stderr: stdout is the MCP transport.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := storage.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	tr := tracker.New(db, cfg.Engine, log)
	s := wtmcp.New(tr, db, Version, log)

	log.Info("mcp server starting", "transport", "stdio", "version", Version)
	if err := server.ServeStdio(s); err != nil {
		log.Error("mcp server stopped", "error", err)
		os.Exit(1)
	}
}
