// Package server exposes the tracker over HTTP. Write endpoints require the
// configured API key; read endpoints are open because network access is
// expected to be gated by tsnet or an equivalent private network.
package server

import (
	"log/slog"
	"net/http"

	"github.com/dsecrist80/workout-tracker-sub000/internal/storage"
	"github.com/dsecrist80/workout-tracker-sub000/internal/tracker"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db      *storage.DB
	tracker *tracker.Tracker
	log     *slog.Logger
	apiKey  string
	router  chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, tr *tracker.Tracker, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:      db,
		tracker: tr,
		log:     log,
		apiKey:  apiKey,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Write endpoints (API key required)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/api/v1/sessions", s.handleLogSession)
		r.Post("/api/v1/exercises", s.handleCreateExercise)
		r.Post("/api/v1/program", s.handleSaveProgram)
		r.Post("/api/v1/fatigue/reset", s.handleResetFatigue)
	})

	// Read endpoints (no auth — tsnet handles access)
	s.router.Get("/api/v1/readiness", s.handleReadiness)
	s.router.Get("/api/v1/progression/{exerciseID}", s.handleProgression)
	s.router.Get("/api/v1/deload", s.handleDeload)
	s.router.Get("/api/v1/recovery", s.handleRecovery)
	s.router.Get("/api/v1/exercises", s.handleListExercises)
	s.router.Get("/api/v1/workouts", s.handleRecentWorkouts)
	s.router.Get("/api/v1/intensity", s.handleIntensity)
}
