package engine

import (
	"github.com/dsecrist80/workout-tracker-sub000/internal/models"
)

// Engine applies the fatigue model with a fixed set of tunables. It carries
// no mutable state; all methods are deterministic transforms.
type Engine struct {
	cfg Config
}

// New creates an Engine with the given tunables.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Config returns the tunables the engine was built with.
func (e *Engine) Config() Config { return e.cfg }

// SetFatigue is the per-set cost model. Fatigue is driven by proximity to
// failure (RIR) and by the axial/compound classification, not by tonnage:
// weight and reps feed volume tracking, never fatigue.
func (e *Engine) SetFatigue(set models.Set, exType models.ExerciseType, isAxial bool) (local, systemic float64) {
	intensityFactor := 1 + (10-float64(set.RIR))/20

	local = e.cfg.BaseFatiguePerSet * intensityFactor
	systemic = local * 0.5
	if isAxial {
		systemic *= e.cfg.AxialLoadMultiplier
	}
	if exType.IsCompound() {
		local *= e.cfg.CompoundLocalMultiplier
		systemic *= e.cfg.CompoundSystemicMultiplier
	}
	return local, systemic
}

// ExerciseFatigue is the summed fatigue of one exercise within a session,
// with the local total distributed across its muscles by role.
type ExerciseFatigue struct {
	TotalLocal    float64
	TotalSystemic float64
	TotalVolume   float64
	SetCount      int
	// MuscleFatigue is TotalLocal weighted per role: primary x1.0,
	// secondary and tertiary at the configured reduced weights.
	MuscleFatigue map[models.Muscle]float64
}

// ExerciseFatigue sums set-level fatigue across one exercise's sets and
// distributes the local total to its muscles additively by role.
func (e *Engine) ExerciseFatigue(ex models.SessionExercise) ExerciseFatigue {
	result := ExerciseFatigue{
		MuscleFatigue: make(map[models.Muscle]float64),
		SetCount:      len(ex.Sets),
	}

	for _, set := range ex.Sets {
		local, systemic := e.SetFatigue(set, ex.Type, ex.IsAxial)
		result.TotalLocal += local
		result.TotalSystemic += systemic
		result.TotalVolume += set.Volume()
	}

	for _, m := range ex.PrimaryMuscles {
		result.MuscleFatigue[m] += result.TotalLocal
	}
	for _, m := range ex.SecondaryMuscles {
		result.MuscleFatigue[m] += result.TotalLocal * e.cfg.SecondaryWeight
	}
	for _, m := range ex.TertiaryMuscles {
		result.MuscleFatigue[m] += result.TotalLocal * e.cfg.TertiaryWeight
	}

	return result
}

// Readiness derives the recovery scores from a fatigue state: 1 - fatigue,
// clamped into [0,1]. Muscles with no recorded fatigue are fully ready.
func (e *Engine) Readiness(state models.FatigueState) models.Readiness {
	r := models.Readiness{
		Muscles:  make(map[models.Muscle]float64, len(state.LocalFatigue)),
		Systemic: 1 - clamp01(state.SystemicFatigue),
	}
	for m, f := range state.LocalFatigue {
		r.Muscles[m] = 1 - clamp01(f)
	}
	return r
}
