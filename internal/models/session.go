package models

import (
	"time"

	"github.com/google/uuid"
)

// Set is one logged set. Weight is in kilograms; RIR (reps in reserve) is the
// lifter's subjective proximity to failure, 0 meaning failure. Sets are
// immutable once logged.
type Set struct {
	WeightKg float64 `json:"weight_kg"`
	Reps     int     `json:"reps"`
	RIR      int     `json:"rir"`
}

// Volume returns the set's tonnage contribution (weight x reps).
func (s Set) Volume() float64 {
	return s.WeightKg * float64(s.Reps)
}

// SessionExercise is one exercise performed within a session, with the
// exercise's classification captured at logging time so later library edits
// do not retroactively change fatigue attribution.
type SessionExercise struct {
	ExerciseID       uuid.UUID    `json:"exercise_id"`
	ExerciseName     string       `json:"exercise_name"`
	Type             ExerciseType `json:"type"`
	IsAxial          bool         `json:"is_axial"`
	PrimaryMuscles   []Muscle     `json:"primary_muscles"`
	SecondaryMuscles []Muscle     `json:"secondary_muscles"`
	TertiaryMuscles  []Muscle     `json:"tertiary_muscles"`
	Sets             []Set        `json:"sets"`
}

// Session is everything the user logged for one calendar day. A session with
// no exercises is a rest day; it still carries the subjective observations.
type Session struct {
	Date             Day                `json:"date"`
	Exercises        []SessionExercise  `json:"exercises"`
	PerceivedFatigue float64            `json:"perceived_fatigue"` // 0-10, 5 = neutral
	Soreness         map[Muscle]float64 `json:"soreness,omitempty"` // 0-10 per muscle
}

// IsRestDay reports whether the session logged no working sets.
func (s Session) IsRestDay() bool {
	for _, ex := range s.Exercises {
		if len(ex.Sets) > 0 {
			return false
		}
	}
	return true
}

// WorkoutRecord is one persisted exercise-within-session, the unit of workout
// history. Muscle and type fields are denormalized copies from logging time.
type WorkoutRecord struct {
	ID               uuid.UUID    `json:"id"`
	UserID           int          `json:"user_id"`
	ExerciseID       uuid.UUID    `json:"exercise_id"`
	ExerciseName     string       `json:"exercise_name"`
	Date             Day          `json:"date"`
	Sets             []Set        `json:"sets"`
	Type             ExerciseType `json:"type"`
	IsAxial          bool         `json:"is_axial"`
	PrimaryMuscles   []Muscle     `json:"primary_muscles"`
	SecondaryMuscles []Muscle     `json:"secondary_muscles"`
	TertiaryMuscles  []Muscle     `json:"tertiary_muscles"`
	LoggedAt         time.Time    `json:"logged_at"`
}

// TotalVolume returns the record's total tonnage across all sets.
func (w WorkoutRecord) TotalVolume() float64 {
	var total float64
	for _, s := range w.Sets {
		total += s.Volume()
	}
	return total
}

// TopSet returns the set with the highest weight x reps product, used for
// performance-trend comparisons. Returns false if the record has no sets.
func (w WorkoutRecord) TopSet() (Set, bool) {
	if len(w.Sets) == 0 {
		return Set{}, false
	}
	top := w.Sets[0]
	for _, s := range w.Sets[1:] {
		if s.Volume() > top.Volume() {
			top = s
		}
	}
	return top, true
}

// AvgRIR returns the mean RIR across the record's sets, or false if empty.
func (w WorkoutRecord) AvgRIR() (float64, bool) {
	if len(w.Sets) == 0 {
		return 0, false
	}
	var sum float64
	for _, s := range w.Sets {
		sum += float64(s.RIR)
	}
	return sum / float64(len(w.Sets)), true
}
