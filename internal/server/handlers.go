package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dsecrist80/workout-tracker-sub000/internal/models"
	"github.com/dsecrist80/workout-tracker-sub000/internal/progression"
	"github.com/dsecrist80/workout-tracker-sub000/internal/tracker"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// defaultUserID: the server is single-user, like the rest of the deployment.
const defaultUserID = 1

func (s *Server) handleLogSession(w http.ResponseWriter, r *http.Request) {
	var session models.Session
	if err := json.NewDecoder(r.Body).Decode(&session); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	result, err := s.tracker.LogSession(r.Context(), defaultUserID, session)
	if err != nil {
		var verr *tracker.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": verr.Error()})
			return
		}
		s.log.Error("log session error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseAsOf(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	readiness, state, err := s.tracker.CurrentReadiness(r.Context(), defaultUserID, asOf)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"as_of":     asOf,
		"readiness": readiness,
		"state":     state,
	})
}

func (s *Server) handleProgression(w http.ResponseWriter, r *http.Request) {
	exerciseID, err := uuid.Parse(chi.URLParam(r, "exerciseID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid exercise ID"})
		return
	}
	asOf, err := parseAsOf(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	rec, err := s.tracker.Progression(r.Context(), defaultUserID, exerciseID, asOf)
	if errors.Is(err, progression.ErrExerciseNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "exercise not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeload(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseAsOf(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	status, err := s.tracker.CheckDeload(r.Context(), defaultUserID, asOf)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleRecovery(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseAsOf(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var targets []models.Muscle
	if raw := r.URL.Query().Get("targets"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			m := models.Muscle(strings.TrimSpace(part))
			if !models.KnownMuscle(m) {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown muscle: " + string(m)})
				return
			}
			targets = append(targets, m)
		}
	}

	plan, err := s.tracker.PlanRecovery(r.Context(), defaultUserID, targets, asOf)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleCreateExercise(w http.ResponseWriter, r *http.Request) {
	var ex models.Exercise
	if err := json.NewDecoder(r.Body).Decode(&ex); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if ex.Name == "" || !ex.Type.Valid() || len(ex.PrimaryMuscles) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name, valid type, and at least one primary muscle required"})
		return
	}

	if err := s.db.InsertExercise(r.Context(), &ex); err != nil {
		s.log.Error("create exercise error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, ex)
}

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	exercises, err := s.db.ListExercises(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, exercises)
}

func (s *Server) handleSaveProgram(w http.ResponseWriter, r *http.Request) {
	var p models.ProgramContext
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if p.CycleDays < 1 || p.RestDaysPerCycle < 0 || p.RestDaysPerCycle > p.CycleDays {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "rest days must fit within the cycle"})
		return
	}

	if err := s.db.SaveProgram(r.Context(), defaultUserID, p); err != nil {
		s.log.Error("save program error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleRecentWorkouts(w http.ResponseWriter, r *http.Request) {
	since := models.DayOf(time.Now()).AddDays(-28)
	if raw := r.URL.Query().Get("since"); raw != "" {
		day, err := models.ParseDay(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "since must be YYYY-MM-DD"})
			return
		}
		since = day
	}

	records, err := s.db.RecentWorkouts(r.Context(), defaultUserID, since)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleIntensity(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	result, err := s.db.GetTrainingIntensity(r.Context(), start, end, defaultUserID, r.URL.Query().Get("exercise"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleResetFatigue(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.ResetFatigue(r.Context(), defaultUserID); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// parseAsOf reads the as_of query parameter, defaulting to today.
func parseAsOf(r *http.Request) (models.Day, error) {
	raw := r.URL.Query().Get("as_of")
	if raw == "" {
		return models.DayOf(time.Now()), nil
	}
	return models.ParseDay(raw)
}

func parseTimeRange(r *http.Request) (start, end time.Time, err error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" {
		// Default: last 28 days
		end = time.Now()
		start = end.AddDate(0, 0, -28)
		return
	}

	start, err = time.Parse("2006-01-02", startStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	if endStr == "" {
		end = time.Now()
	} else {
		end, err = time.Parse("2006-01-02", endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		// End of day for date-only
		end = end.Add(24 * time.Hour)
	}
	return
}
