// Package mcp exposes the tracker to LLM assistants over the Model Context
// Protocol: readiness, progression advice, deload checks, and training
// history as tools, plus a few standing resources.
package mcp

import (
	"context"
	"log/slog"

	"github.com/dsecrist80/workout-tracker-sub000/internal/storage"
	"github.com/dsecrist80/workout-tracker-sub000/internal/tracker"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(userIDKey).(int); ok {
		return id
	}
	return 1
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
func New(tr *tracker.Tracker, db *storage.DB, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("WorkoutTracker", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Workout fatigue tracker. Query per-muscle and systemic readiness, progression advice per exercise, deload recommendations, recovery estimates, and strength training history. All data is scoped to the authenticated user."),
	)

	h := &handlers{tracker: tr, db: db, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetReadiness, Handler: h.getReadiness},
		server.ServerTool{Tool: toolGetProgression, Handler: h.getProgression},
		server.ServerTool{Tool: toolCheckDeload, Handler: h.checkDeload},
		server.ServerTool{Tool: toolGetRecoveryPlan, Handler: h.getRecoveryPlan},
		server.ServerTool{Tool: toolListExercises, Handler: h.listExercises},
		server.ServerTool{Tool: toolGetWorkoutSets, Handler: h.getWorkoutSets},
		server.ServerTool{Tool: toolGetTrainingIntensity, Handler: h.getTrainingIntensity},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resReadinessToday, Handler: h.readinessToday},
		server.ServerResource{Resource: resRecentWorkouts, Handler: h.recentWorkouts},
		server.ServerResource{Resource: resExerciseCatalog, Handler: h.exerciseCatalog},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	tracker *tracker.Tracker
	db      *storage.DB
	log     *slog.Logger
}

// --- Resource definitions ---

var resReadinessToday = mcp.NewResource(
	"workouts://readiness_today",
	"Readiness Today",
	mcp.WithResourceDescription("Current per-muscle and systemic readiness with the underlying fatigue state"),
	mcp.WithMIMEType("application/json"),
)

var resRecentWorkouts = mcp.NewResource(
	"workouts://recent_workouts",
	"Recent Workouts",
	mcp.WithResourceDescription("Strength training records from the last 14 days with full set data"),
	mcp.WithMIMEType("application/json"),
)

var resExerciseCatalog = mcp.NewResource(
	"workouts://exercise_catalog",
	"Exercise Catalog",
	mcp.WithResourceDescription("All known exercises with type, axial loading, and muscle role assignments"),
	mcp.WithMIMEType("application/json"),
)
