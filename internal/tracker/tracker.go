// Package tracker orchestrates the fatigue model against storage: it owns
// the read-modify-write cycle for a user's fatigue state (load, recover,
// apply session, save) and joins history with live readiness for progression
// advice. Callers must not interleave two concurrent update cycles for the
// same user; the tracker assumes a single logical writer per user.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dsecrist80/workout-tracker-sub000/internal/engine"
	"github.com/dsecrist80/workout-tracker-sub000/internal/models"
	"github.com/dsecrist80/workout-tracker-sub000/internal/progression"
	"github.com/dsecrist80/workout-tracker-sub000/internal/recovery"
	"github.com/dsecrist80/workout-tracker-sub000/internal/storage"
	"github.com/google/uuid"
)

// historyLimit caps how many prior sessions feed trend analysis.
const historyLimit = 20

// complianceWindowDays is the trailing window for rest-cadence compliance.
const complianceWindowDays = 14

// Store is the persistence contract the tracker needs. *storage.DB
// satisfies it; tests use an in-memory fake.
type Store interface {
	LoadFatigueState(ctx context.Context, userID int) (models.FatigueState, error)
	SaveFatigueState(ctx context.Context, userID int, state models.FatigueState) error
	ResetFatigueState(ctx context.Context, userID int) error
	GetExercise(ctx context.Context, id uuid.UUID) (models.Exercise, error)
	InsertWorkoutRecords(ctx context.Context, records []models.WorkoutRecord) error
	ExerciseHistory(ctx context.Context, userID int, exerciseID uuid.UUID, limit int) ([]models.WorkoutRecord, error)
	RecentWorkouts(ctx context.Context, userID int, since models.Day) ([]models.WorkoutRecord, error)
	CountTrainingDays(ctx context.Context, userID int, since models.Day) (int, error)
	SaveSessionLog(ctx context.Context, log storage.SessionLog) error
	LatestSessionLog(ctx context.Context, userID int) (storage.SessionLog, error)
	GetProgram(ctx context.Context, userID int) (*models.ProgramContext, error)
}

var _ Store = (*storage.DB)(nil)

// Tracker wires the engine, advisor, and store together.
type Tracker struct {
	store   Store
	engine  *engine.Engine
	advisor *progression.Advisor
	log     *slog.Logger
}

// New creates a Tracker using the given tunables.
func New(store Store, cfg engine.Config, log *slog.Logger) *Tracker {
	return &Tracker{
		store:   store,
		engine:  engine.New(cfg),
		advisor: progression.NewAdvisor(cfg),
		log:     log,
	}
}

// Engine exposes the underlying engine for read-only derivations.
func (t *Tracker) Engine() *engine.Engine { return t.engine }

// LogSession validates and applies one session: recover state forward, accrue
// the session's fatigue, persist the new state, the workout records, and the
// day's subjective log. Returns the engine's session result.
func (t *Tracker) LogSession(ctx context.Context, userID int, session models.Session) (engine.SessionResult, error) {
	if err := ValidateSession(session); err != nil {
		return engine.SessionResult{}, err
	}

	state, err := t.store.LoadFatigueState(ctx, userID)
	if err != nil {
		return engine.SessionResult{}, err
	}
	program, err := t.store.GetProgram(ctx, userID)
	if err != nil {
		return engine.SessionResult{}, err
	}

	result := t.engine.ApplySession(session, session.Date, state, program)

	if err := t.store.SaveFatigueState(ctx, userID, result.State); err != nil {
		return engine.SessionResult{}, err
	}

	if !result.IsRestDay {
		records := sessionRecords(userID, session)
		if err := t.store.InsertWorkoutRecords(ctx, records); err != nil {
			return engine.SessionResult{}, err
		}
	}

	if err := t.store.SaveSessionLog(ctx, storage.SessionLog{
		UserID:           userID,
		Date:             session.Date,
		PerceivedFatigue: session.PerceivedFatigue,
		Soreness:         session.Soreness,
		IsRestDay:        result.IsRestDay,
	}); err != nil {
		return engine.SessionResult{}, err
	}

	t.log.Info("session logged",
		"user_id", userID,
		"date", session.Date,
		"exercises", len(session.Exercises),
		"rest_day", result.IsRestDay,
		"systemic_fatigue", result.State.SystemicFatigue,
	)
	return result, nil
}

// CurrentReadiness recovers the persisted state forward to asOf (without
// persisting the decayed state) and derives readiness from it.
func (t *Tracker) CurrentReadiness(ctx context.Context, userID int, asOf models.Day) (models.Readiness, models.FatigueState, error) {
	state, err := t.store.LoadFatigueState(ctx, userID)
	if err != nil {
		return models.Readiness{}, models.FatigueState{}, err
	}
	from := state.LastUpdateDate
	if from.IsZero() {
		from = state.LastWorkoutDate
	}
	current := t.engine.Recover(state, from, asOf, 0)
	return t.engine.Readiness(current), current, nil
}

// Progression recommends the next step for one exercise from its history and
// the current readiness picture. A missing exercise yields
// progression.ErrExerciseNotFound.
func (t *Tracker) Progression(ctx context.Context, userID int, exerciseID uuid.UUID, asOf models.Day) (progression.Recommendation, error) {
	ex, err := t.store.GetExercise(ctx, exerciseID)
	if errors.Is(err, storage.ErrNotFound) {
		return progression.Recommendation{}, fmt.Errorf("%w: %s", progression.ErrExerciseNotFound, exerciseID)
	}
	if err != nil {
		return progression.Recommendation{}, err
	}

	history, err := t.store.ExerciseHistory(ctx, userID, exerciseID, historyLimit)
	if err != nil {
		return progression.Recommendation{}, err
	}

	readiness, state, err := t.CurrentReadiness(ctx, userID, asOf)
	if err != nil {
		return progression.Recommendation{}, err
	}

	return t.advisor.Advise(ex, history, readiness, state.WeeklyStimulus), nil
}

// DeloadStatus combines the basic threshold check with the multi-condition
// deload recommendation derived from recent history.
type DeloadStatus struct {
	Check          engine.DeloadCheck          `json:"check"`
	Recommendation engine.DeloadRecommendation `json:"recommendation"`
}

// CheckDeload evaluates the deload picture as of the given day.
func (t *Tracker) CheckDeload(ctx context.Context, userID int, asOf models.Day) (DeloadStatus, error) {
	readiness, _, err := t.CurrentReadiness(ctx, userID, asOf)
	if err != nil {
		return DeloadStatus{}, err
	}

	signals := engine.DeloadSignals{Readiness: readiness}

	if log, err := t.store.LatestSessionLog(ctx, userID); err == nil {
		signals.Soreness = log.Soreness
	} else if !errors.Is(err, storage.ErrNotFound) {
		return DeloadStatus{}, err
	}

	recent, err := t.store.RecentWorkouts(ctx, userID, asOf.AddDays(-complianceWindowDays))
	if err != nil {
		return DeloadStatus{}, err
	}
	signals.SessionStimulus, signals.SessionAvgRIR = sessionSeries(recent)

	return DeloadStatus{
		Check:          t.engine.CheckDeload(readiness),
		Recommendation: t.engine.EvaluateDeloadSignals(signals),
	}, nil
}

// RecoveryPlan is the rest guidance surface: readiness for the next planned
// session, days-to-recovered estimates, and program-cadence compliance.
type RecoveryPlan struct {
	Rest       recovery.RestRecommendation `json:"rest"`
	Estimate   recovery.Estimate           `json:"estimate"`
	Compliance recovery.ComplianceResult   `json:"compliance"`
	Efficiency map[models.Muscle]float64   `json:"stimulus_efficiency"`
}

// PlanRecovery builds the recovery guidance for the next session's targets.
func (t *Tracker) PlanRecovery(ctx context.Context, userID int, targets []models.Muscle, asOf models.Day) (RecoveryPlan, error) {
	readiness, state, err := t.CurrentReadiness(ctx, userID, asOf)
	if err != nil {
		return RecoveryPlan{}, err
	}

	plan := RecoveryPlan{
		Rest:       recovery.RecommendRest(targets, readiness),
		Estimate:   recovery.EstimateRecovery(t.engine, state),
		Efficiency: recovery.StimulusEfficiency(state),
	}

	program, err := t.store.GetProgram(ctx, userID)
	if err != nil {
		return RecoveryPlan{}, err
	}
	if program != nil {
		trained, err := t.store.CountTrainingDays(ctx, userID, asOf.AddDays(-complianceWindowDays))
		if err != nil {
			return RecoveryPlan{}, err
		}
		plan.Compliance = recovery.CheckDeloadCompliance(*program, trained, complianceWindowDays)
	} else {
		plan.Compliance = recovery.CheckDeloadCompliance(models.ProgramContext{}, 0, 0)
	}
	return plan, nil
}

// ResetFatigue wipes the user's fatigue state back to defaults.
func (t *Tracker) ResetFatigue(ctx context.Context, userID int) error {
	if err := t.store.ResetFatigueState(ctx, userID); err != nil {
		return err
	}
	t.log.Info("fatigue state reset", "user_id", userID)
	return nil
}

// sessionRecords denormalizes a session into workout records.
func sessionRecords(userID int, session models.Session) []models.WorkoutRecord {
	now := time.Now()
	var records []models.WorkoutRecord
	for _, ex := range session.Exercises {
		if len(ex.Sets) == 0 {
			continue
		}
		records = append(records, models.WorkoutRecord{
			ID:               uuid.New(),
			UserID:           userID,
			ExerciseID:       ex.ExerciseID,
			ExerciseName:     ex.ExerciseName,
			Date:             session.Date,
			Sets:             ex.Sets,
			Type:             ex.Type,
			IsAxial:          ex.IsAxial,
			PrimaryMuscles:   ex.PrimaryMuscles,
			SecondaryMuscles: ex.SecondaryMuscles,
			TertiaryMuscles:  ex.TertiaryMuscles,
			LoggedAt:         now,
		})
	}
	return records
}

// sessionSeries groups records by day and derives per-session total set
// counts and mean RIR, oldest first. Input must already be date-ordered.
func sessionSeries(records []models.WorkoutRecord) (stimulus []float64, avgRIR []float64) {
	var day models.Day
	var sets, rirSum float64
	flush := func() {
		if sets > 0 {
			stimulus = append(stimulus, sets)
			avgRIR = append(avgRIR, rirSum/sets)
		}
	}
	for _, r := range records {
		if r.Date != day {
			flush()
			day, sets, rirSum = r.Date, 0, 0
		}
		for _, s := range r.Sets {
			sets++
			rirSum += float64(s.RIR)
		}
	}
	flush()
	return stimulus, avgRIR
}
