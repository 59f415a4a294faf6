package tracker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/dsecrist80/workout-tracker-sub000/internal/engine"
	"github.com/dsecrist80/workout-tracker-sub000/internal/models"
	"github.com/dsecrist80/workout-tracker-sub000/internal/progression"
	"github.com/dsecrist80/workout-tracker-sub000/internal/storage"
	"github.com/google/uuid"
)

// fakeStore is an in-memory Store for tracker tests.
type fakeStore struct {
	states    map[int]models.FatigueState
	exercises map[uuid.UUID]models.Exercise
	records   []models.WorkoutRecord
	logs      []storage.SessionLog
	program   *models.ProgramContext
	trained   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		states:    make(map[int]models.FatigueState),
		exercises: make(map[uuid.UUID]models.Exercise),
	}
}

func (f *fakeStore) LoadFatigueState(_ context.Context, userID int) (models.FatigueState, error) {
	if s, ok := f.states[userID]; ok {
		return s.Clone(), nil
	}
	return models.NewFatigueState(), nil
}

func (f *fakeStore) SaveFatigueState(_ context.Context, userID int, state models.FatigueState) error {
	f.states[userID] = state.Clone()
	return nil
}

func (f *fakeStore) ResetFatigueState(_ context.Context, userID int) error {
	delete(f.states, userID)
	return nil
}

func (f *fakeStore) GetExercise(_ context.Context, id uuid.UUID) (models.Exercise, error) {
	if ex, ok := f.exercises[id]; ok {
		return ex, nil
	}
	return models.Exercise{}, storage.ErrNotFound
}

func (f *fakeStore) InsertWorkoutRecords(_ context.Context, records []models.WorkoutRecord) error {
	f.records = append(f.records, records...)
	return nil
}

func (f *fakeStore) ExerciseHistory(_ context.Context, userID int, exerciseID uuid.UUID, _ int) ([]models.WorkoutRecord, error) {
	var out []models.WorkoutRecord
	for _, r := range f.records {
		if r.UserID == userID && r.ExerciseID == exerciseID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) RecentWorkouts(_ context.Context, userID int, since models.Day) ([]models.WorkoutRecord, error) {
	var out []models.WorkoutRecord
	for _, r := range f.records {
		if r.UserID == userID && !r.Date.Before(since) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) CountTrainingDays(_ context.Context, _ int, _ models.Day) (int, error) {
	return f.trained, nil
}

func (f *fakeStore) SaveSessionLog(_ context.Context, log storage.SessionLog) error {
	f.logs = append(f.logs, log)
	return nil
}

func (f *fakeStore) LatestSessionLog(_ context.Context, _ int) (storage.SessionLog, error) {
	if len(f.logs) == 0 {
		return storage.SessionLog{}, storage.ErrNotFound
	}
	return f.logs[len(f.logs)-1], nil
}

func (f *fakeStore) GetProgram(_ context.Context, _ int) (*models.ProgramContext, error) {
	return f.program, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var benchID = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

func benchSession(date models.Day, rir int) models.Session {
	return models.Session{
		Date: date,
		Exercises: []models.SessionExercise{{
			ExerciseID:       benchID,
			ExerciseName:     "Bench Press",
			Type:             models.CompoundUpper,
			PrimaryMuscles:   []models.Muscle{models.Chest},
			SecondaryMuscles: []models.Muscle{models.Triceps},
			Sets: []models.Set{
				{WeightKg: 100, Reps: 8, RIR: rir},
				{WeightKg: 100, Reps: 8, RIR: rir},
				{WeightKg: 100, Reps: 8, RIR: rir},
			},
		}},
		PerceivedFatigue: 5,
	}
}

// TestLogSessionPersists verifies the full write cycle: new fatigue state,
// workout records, and the day's session log all reach the store.
func TestLogSessionPersists(t *testing.T) {
	store := newFakeStore()
	tr := New(store, engine.DefaultConfig(), testLogger())

	result, err := tr.LogSession(context.Background(), 1, benchSession("2024-01-01", 2))
	if err != nil {
		t.Fatalf("LogSession: %v", err)
	}
	if result.IsRestDay {
		t.Error("training session reported as rest day")
	}

	saved := store.states[1]
	if saved.LocalFatigue[models.Chest] <= 0 {
		t.Error("fatigue state not persisted")
	}
	if saved.LastWorkoutDate != "2024-01-01" {
		t.Errorf("LastWorkoutDate = %s, want 2024-01-01", saved.LastWorkoutDate)
	}
	if len(store.records) != 1 {
		t.Fatalf("records persisted = %d, want 1", len(store.records))
	}
	if store.records[0].ExerciseName != "Bench Press" || len(store.records[0].Sets) != 3 {
		t.Errorf("persisted record = %+v", store.records[0])
	}
	if len(store.logs) != 1 || store.logs[0].IsRestDay {
		t.Errorf("session log = %+v, want one non-rest log", store.logs)
	}
}

// TestLogSessionRestDay verifies a rest day persists state and log but no
// workout records.
func TestLogSessionRestDay(t *testing.T) {
	store := newFakeStore()
	tr := New(store, engine.DefaultConfig(), testLogger())

	if _, err := tr.LogSession(context.Background(), 1, benchSession("2024-01-01", 2)); err != nil {
		t.Fatalf("first session: %v", err)
	}

	rest := models.Session{Date: "2024-01-03", Soreness: map[models.Muscle]float64{models.Chest: 7}}
	result, err := tr.LogSession(context.Background(), 1, rest)
	if err != nil {
		t.Fatalf("rest day: %v", err)
	}
	if !result.IsRestDay {
		t.Error("empty session not reported as rest day")
	}
	if len(store.records) != 1 {
		t.Errorf("rest day added workout records: %d", len(store.records))
	}
	if store.states[1].LastWorkoutDate != "2024-01-01" {
		t.Errorf("rest day moved LastWorkoutDate to %s", store.states[1].LastWorkoutDate)
	}
	if store.states[1].LastUpdateDate != "2024-01-03" {
		t.Errorf("rest day did not move LastUpdateDate: %s", store.states[1].LastUpdateDate)
	}
}

// TestLogSessionValidation verifies boundary validation rejects bad sessions
// with a ValidationError before anything is persisted.
func TestLogSessionValidation(t *testing.T) {
	store := newFakeStore()
	tr := New(store, engine.DefaultConfig(), testLogger())

	bad := benchSession("2024-01-01", 2)
	bad.Exercises[0].Sets[1].Reps = 0

	_, err := tr.LogSession(context.Background(), 1, bad)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if len(store.records) != 0 || len(store.logs) != 0 {
		t.Error("rejected session was partially persisted")
	}
}

// TestCurrentReadinessRecovers verifies that readiness reads apply recovery
// for the elapsed days without persisting the decayed state.
func TestCurrentReadinessRecovers(t *testing.T) {
	store := newFakeStore()
	tr := New(store, engine.DefaultConfig(), testLogger())

	if _, err := tr.LogSession(context.Background(), 1, benchSession("2024-01-01", 0)); err != nil {
		t.Fatalf("LogSession: %v", err)
	}
	fatigueAfter := store.states[1].LocalFatigue[models.Chest]

	readiness, _, err := tr.CurrentReadiness(context.Background(), 1, "2024-01-08")
	if err != nil {
		t.Fatalf("CurrentReadiness: %v", err)
	}
	if readiness.MuscleReadiness(models.Chest) <= 1-fatigueAfter {
		t.Error("readiness did not improve with elapsed days")
	}
	if store.states[1].LocalFatigue[models.Chest] != fatigueAfter {
		t.Error("readiness read mutated the persisted state")
	}
}

// TestProgressionNotFound verifies the exercise-not-found contract surfaces
// through the tracker.
func TestProgressionNotFound(t *testing.T) {
	tr := New(newFakeStore(), engine.DefaultConfig(), testLogger())

	_, err := tr.Progression(context.Background(), 1, uuid.New(), "2024-01-01")
	if !errors.Is(err, progression.ErrExerciseNotFound) {
		t.Fatalf("err = %v, want ErrExerciseNotFound", err)
	}
}

// TestProgressionFirstTime verifies a known exercise with no history yields
// first-time advice carrying the live readiness values.
func TestProgressionFirstTime(t *testing.T) {
	store := newFakeStore()
	store.exercises[benchID] = models.Exercise{
		ID:             benchID,
		Name:           "Bench Press",
		Type:           models.CompoundUpper,
		PrimaryMuscles: []models.Muscle{models.Chest},
	}
	tr := New(store, engine.DefaultConfig(), testLogger())

	rec, err := tr.Progression(context.Background(), 1, benchID, "2024-01-01")
	if err != nil {
		t.Fatalf("Progression: %v", err)
	}
	if rec.Advice != progression.AdviceFirstTime {
		t.Errorf("advice = %s, want first_time", rec.Advice)
	}
	if rec.SystemicReadiness != 1 {
		t.Errorf("fresh user systemic readiness = %v, want 1", rec.SystemicReadiness)
	}
}

// TestCheckDeloadUsesHistory verifies the multi-condition evaluation reads
// soreness from the latest session log and session series from history.
func TestCheckDeloadUsesHistory(t *testing.T) {
	store := newFakeStore()
	tr := New(store, engine.DefaultConfig(), testLogger())

	// Three hard, identical sessions close together: plateaued stimulus and
	// an all-out RIR streak.
	for _, day := range []models.Day{"2024-01-01", "2024-01-03", "2024-01-05"} {
		if _, err := tr.LogSession(context.Background(), 1, benchSession(day, 0)); err != nil {
			t.Fatalf("LogSession(%s): %v", day, err)
		}
	}

	status, err := tr.CheckDeload(context.Background(), 1, "2024-01-05")
	if err != nil {
		t.Fatalf("CheckDeload: %v", err)
	}

	found := map[string]bool{}
	for _, c := range status.Recommendation.Conditions {
		found[c] = true
	}
	if !found["performance_error_streak"] {
		t.Errorf("conditions = %v, want performance_error_streak present", status.Recommendation.Conditions)
	}
	if !found["stimulus_plateau"] {
		t.Errorf("conditions = %v, want stimulus_plateau present", status.Recommendation.Conditions)
	}
}

// TestPlanRecoveryCompliance verifies program cadence feeds the compliance
// check and targets feed the rest recommendation.
func TestPlanRecoveryCompliance(t *testing.T) {
	store := newFakeStore()
	store.program = &models.ProgramContext{RestDaysPerCycle: 2, CycleDays: 7}
	store.trained = 14
	tr := New(store, engine.DefaultConfig(), testLogger())

	plan, err := tr.PlanRecovery(context.Background(), 1, []models.Muscle{models.Chest}, "2024-01-15")
	if err != nil {
		t.Fatalf("PlanRecovery: %v", err)
	}
	if plan.Compliance.Status != "over_training" {
		t.Errorf("compliance = %s, want over_training for 14/14 days", plan.Compliance.Status)
	}
	if plan.Rest.Advice != "ready" {
		t.Errorf("rest advice = %s, want ready for a fresh user", plan.Rest.Advice)
	}
}

// TestResetFatigue verifies reset returns the user to full readiness.
func TestResetFatigue(t *testing.T) {
	store := newFakeStore()
	tr := New(store, engine.DefaultConfig(), testLogger())

	if _, err := tr.LogSession(context.Background(), 1, benchSession("2024-01-01", 0)); err != nil {
		t.Fatalf("LogSession: %v", err)
	}
	if err := tr.ResetFatigue(context.Background(), 1); err != nil {
		t.Fatalf("ResetFatigue: %v", err)
	}

	readiness, _, err := tr.CurrentReadiness(context.Background(), 1, "2024-01-02")
	if err != nil {
		t.Fatalf("CurrentReadiness: %v", err)
	}
	if readiness.Systemic != 1 {
		t.Errorf("systemic readiness after reset = %v, want 1", readiness.Systemic)
	}
}
