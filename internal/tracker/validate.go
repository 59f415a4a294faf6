package tracker

import (
	"fmt"

	"github.com/dsecrist80/workout-tracker-sub000/internal/models"
)

// ValidationError reports a rejected session at the ingest boundary. The
// model's math is deliberately permissive, so bounds are enforced here.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// maxRIR bounds the subjective reps-in-reserve scale.
const maxRIR = 10

// ValidateSession checks a session before it enters the engine: a parseable
// calendar date, sane set numbers, known muscles, and subjective scales
// within 0-10.
func ValidateSession(session models.Session) error {
	if session.Date.IsZero() {
		return &ValidationError{Field: "date", Reason: "required"}
	}
	if _, err := models.ParseDay(string(session.Date)); err != nil {
		return &ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
	}

	if session.PerceivedFatigue < 0 || session.PerceivedFatigue > 10 {
		return &ValidationError{Field: "perceived_fatigue", Reason: "must be between 0 and 10"}
	}
	for m, v := range session.Soreness {
		if !models.KnownMuscle(m) {
			return &ValidationError{Field: "soreness", Reason: fmt.Sprintf("unknown muscle %q", m)}
		}
		if v < 0 || v > 10 {
			return &ValidationError{Field: "soreness", Reason: "must be between 0 and 10"}
		}
	}

	for i, ex := range session.Exercises {
		if err := validateExercise(i, ex); err != nil {
			return err
		}
	}
	return nil
}

func validateExercise(i int, ex models.SessionExercise) error {
	field := func(name string) string {
		return fmt.Sprintf("exercises[%d].%s", i, name)
	}

	if ex.ExerciseName == "" {
		return &ValidationError{Field: field("exercise_name"), Reason: "required"}
	}
	if !ex.Type.Valid() {
		return &ValidationError{Field: field("type"), Reason: fmt.Sprintf("unknown exercise type %q", ex.Type)}
	}
	if len(ex.PrimaryMuscles) == 0 {
		return &ValidationError{Field: field("primary_muscles"), Reason: "at least one required"}
	}
	for _, group := range [][]models.Muscle{ex.PrimaryMuscles, ex.SecondaryMuscles, ex.TertiaryMuscles} {
		for _, m := range group {
			if !models.KnownMuscle(m) {
				return &ValidationError{Field: field("muscles"), Reason: fmt.Sprintf("unknown muscle %q", m)}
			}
		}
	}

	for j, set := range ex.Sets {
		sf := func(name string) string {
			return fmt.Sprintf("exercises[%d].sets[%d].%s", i, j, name)
		}
		if set.WeightKg < 0 {
			return &ValidationError{Field: sf("weight_kg"), Reason: "must be >= 0"}
		}
		if set.Reps < 1 {
			return &ValidationError{Field: sf("reps"), Reason: "must be >= 1"}
		}
		if set.RIR < 0 || set.RIR > maxRIR {
			return &ValidationError{Field: sf("rir"), Reason: fmt.Sprintf("must be between 0 and %d", maxRIR)}
		}
	}
	return nil
}
