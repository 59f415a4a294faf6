package engine

import (
	"testing"

	"github.com/dsecrist80/workout-tracker-sub000/internal/models"
)

func benchPress(sets ...models.Set) models.SessionExercise {
	return models.SessionExercise{
		ExerciseName:     "Bench Press",
		Type:             models.CompoundUpper,
		PrimaryMuscles:   []models.Muscle{models.Chest},
		SecondaryMuscles: []models.Muscle{models.Triceps, models.FrontDelts},
		Sets:             sets,
	}
}

// TestApplySessionFreshState verifies the reference accrual scenario: three
// sets of rir=2 on a non-axial compound-upper exercise against a zero state
// add 3 x base x 1.4 x compound to each primary muscle.
func TestApplySessionFreshState(t *testing.T) {
	cfg := DefaultConfig()
	eng := New(cfg)

	session := models.Session{
		Date: "2024-01-01",
		Exercises: []models.SessionExercise{benchPress(
			models.Set{WeightKg: 100, Reps: 8, RIR: 2},
			models.Set{WeightKg: 100, Reps: 8, RIR: 2},
			models.Set{WeightKg: 100, Reps: 8, RIR: 2},
		)},
		PerceivedFatigue: 5, // neutral, contributes nothing
	}

	result := eng.ApplySession(session, "2024-01-01", models.NewFatigueState(), nil)

	want := 3 * cfg.BaseFatiguePerSet * 1.4 * cfg.CompoundLocalMultiplier
	if !almostEqual(result.State.LocalFatigue[models.Chest], want) {
		t.Errorf("chest fatigue = %v, want %v", result.State.LocalFatigue[models.Chest], want)
	}
	if !almostEqual(result.State.LocalFatigue[models.Triceps], want*cfg.SecondaryWeight) {
		t.Errorf("triceps fatigue = %v, want %v", result.State.LocalFatigue[models.Triceps], want*cfg.SecondaryWeight)
	}
	if result.State.LastWorkoutDate != "2024-01-01" || result.State.LastUpdateDate != "2024-01-01" {
		t.Errorf("dates = %s/%s, want 2024-01-01 for both", result.State.LastWorkoutDate, result.State.LastUpdateDate)
	}
	if result.IsRestDay {
		t.Error("IsRestDay = true for a training session")
	}
}

// TestApplySessionStimulusAsymmetry verifies that only primary muscles accrue
// weekly stimulus even though secondary/tertiary muscles accrue fatigue.
func TestApplySessionStimulusAsymmetry(t *testing.T) {
	eng := New(DefaultConfig())

	session := models.Session{
		Date: "2024-01-01",
		Exercises: []models.SessionExercise{benchPress(
			models.Set{WeightKg: 100, Reps: 8, RIR: 2},
			models.Set{WeightKg: 100, Reps: 8, RIR: 2},
		)},
	}

	result := eng.ApplySession(session, "2024-01-01", models.NewFatigueState(), nil)

	if result.State.WeeklyStimulus[models.Chest] != 2 {
		t.Errorf("primary stimulus = %v, want 2", result.State.WeeklyStimulus[models.Chest])
	}
	if _, ok := result.State.WeeklyStimulus[models.Triceps]; ok {
		t.Error("secondary muscle accrued stimulus; only primaries should count")
	}
	if result.State.LocalFatigue[models.Triceps] <= 0 {
		t.Error("secondary muscle accrued no fatigue")
	}
	if result.Stimulus[models.Chest] != 2 {
		t.Errorf("session stimulus contribution = %v, want 2", result.Stimulus[models.Chest])
	}
}

// TestApplySessionClamping verifies that even an absurd session (50 sets at
// failure on an axial compound lift) leaves every fatigue value in [0,1].
func TestApplySessionClamping(t *testing.T) {
	eng := New(DefaultConfig())

	sets := make([]models.Set, 50)
	for i := range sets {
		sets[i] = models.Set{WeightKg: 200, Reps: 5, RIR: 0}
	}
	squat := models.SessionExercise{
		ExerciseName:     "Back Squat",
		Type:             models.CompoundLower,
		IsAxial:          true,
		PrimaryMuscles:   []models.Muscle{models.Quads, models.Glutes},
		SecondaryMuscles: []models.Muscle{models.Hamstrings, models.LowerBack},
		Sets:             sets,
	}

	session := models.Session{
		Date:             "2024-01-01",
		Exercises:        []models.SessionExercise{squat},
		PerceivedFatigue: 10,
		Soreness:         map[models.Muscle]float64{models.Quads: 10},
	}

	result := eng.ApplySession(session, "2024-01-01", models.NewFatigueState(), nil)

	for m, f := range result.State.LocalFatigue {
		if f < 0 || f > 1 {
			t.Errorf("%s fatigue = %v, outside [0,1]", m, f)
		}
	}
	if result.State.SystemicFatigue < 0 || result.State.SystemicFatigue > 1 {
		t.Errorf("systemic fatigue = %v, outside [0,1]", result.State.SystemicFatigue)
	}
	if result.Readiness.Systemic != 0 {
		t.Errorf("systemic readiness = %v, want 0 after a maximal session", result.Readiness.Systemic)
	}
}

// TestApplySessionRestDay verifies rest-day semantics: recovery applies, no
// accrual happens, LastWorkoutDate stays put, and the result equals a pure
// recovery of the same span.
func TestApplySessionRestDay(t *testing.T) {
	eng := New(DefaultConfig())

	state := models.NewFatigueState()
	state.LocalFatigue[models.Chest] = 0.6
	state.SystemicFatigue = 0.5
	state.LastWorkoutDate = "2024-01-01"
	state.LastUpdateDate = "2024-01-01"

	rest := models.Session{Date: "2024-01-03", PerceivedFatigue: 7,
		Soreness: map[models.Muscle]float64{models.Chest: 8}}
	result := eng.ApplySession(rest, "2024-01-03", state, nil)

	recoveredOnly := eng.Recover(state, "2024-01-01", "2024-01-03", 0)
	if !almostEqual(result.State.LocalFatigue[models.Chest], recoveredOnly.LocalFatigue[models.Chest]) {
		t.Errorf("rest day local fatigue = %v, want recovery-only value %v",
			result.State.LocalFatigue[models.Chest], recoveredOnly.LocalFatigue[models.Chest])
	}
	if !almostEqual(result.State.SystemicFatigue, recoveredOnly.SystemicFatigue) {
		t.Errorf("rest day systemic = %v, want recovery-only value %v",
			result.State.SystemicFatigue, recoveredOnly.SystemicFatigue)
	}
	if result.State.LastWorkoutDate != "2024-01-01" {
		t.Errorf("LastWorkoutDate = %s, want unchanged 2024-01-01", result.State.LastWorkoutDate)
	}
	if result.State.LastUpdateDate != "2024-01-03" {
		t.Errorf("LastUpdateDate = %s, want 2024-01-03", result.State.LastUpdateDate)
	}
	if !result.IsRestDay {
		t.Error("IsRestDay = false for an empty session")
	}
}

// TestApplySessionRecoversBeforeAccrual verifies ordering: prior fatigue is
// decayed for the elapsed gap before the new session's contribution lands.
func TestApplySessionRecoversBeforeAccrual(t *testing.T) {
	cfg := DefaultConfig()
	eng := New(cfg)

	state := models.NewFatigueState()
	state.LocalFatigue[models.Chest] = 0.5
	state.LastWorkoutDate = "2024-01-01"
	state.LastUpdateDate = "2024-01-01"

	session := models.Session{
		Date:      "2024-01-08",
		Exercises: []models.SessionExercise{benchPress(models.Set{WeightKg: 100, Reps: 8, RIR: 2})},
	}
	result := eng.ApplySession(session, "2024-01-08", state, nil)

	recovered := eng.Recover(state, "2024-01-01", "2024-01-08", 0)
	accrual := cfg.BaseFatiguePerSet * 1.4 * cfg.CompoundLocalMultiplier
	want := recovered.LocalFatigue[models.Chest] + accrual
	if !almostEqual(result.State.LocalFatigue[models.Chest], want) {
		t.Errorf("chest fatigue = %v, want recovered-then-accrued %v", result.State.LocalFatigue[models.Chest], want)
	}
}

// TestApplySessionSubjectiveAdjustments verifies the perceived-exertion and
// soreness contributions on a training day.
func TestApplySessionSubjectiveAdjustments(t *testing.T) {
	eng := New(DefaultConfig())

	session := models.Session{
		Date:             "2024-01-01",
		Exercises:        []models.SessionExercise{benchPress(models.Set{WeightKg: 100, Reps: 8, RIR: 5})},
		PerceivedFatigue: 10,
		Soreness:         map[models.Muscle]float64{models.Hamstrings: 6},
	}
	result := eng.ApplySession(session, "2024-01-01", models.NewFatigueState(), nil)

	base := eng.ApplySession(models.Session{
		Date:             "2024-01-01",
		Exercises:        session.Exercises,
		PerceivedFatigue: 5,
	}, "2024-01-01", models.NewFatigueState(), nil)

	if !almostEqual(result.State.SystemicFatigue, base.State.SystemicFatigue+0.1) {
		t.Errorf("systemic with pf=10 = %v, want base %v + 0.1", result.State.SystemicFatigue, base.State.SystemicFatigue)
	}
	if !almostEqual(result.State.LocalFatigue[models.Hamstrings], 0.06) {
		t.Errorf("sore hamstrings fatigue = %v, want 0.06", result.State.LocalFatigue[models.Hamstrings])
	}
}
