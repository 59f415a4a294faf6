package engine

import (
	"github.com/dsecrist80/workout-tracker-sub000/internal/models"
)

// SessionResult is the outcome of applying one session to a fatigue state.
type SessionResult struct {
	State models.FatigueState `json:"state"`
	// Readiness derived from the clamped post-session state.
	Readiness models.Readiness `json:"readiness"`
	// Stimulus is this session's per-muscle effective-set contribution
	// (primary muscles only), for history tracking by the caller.
	Stimulus  map[models.Muscle]float64 `json:"stimulus"`
	IsRestDay bool                      `json:"is_rest_day"`
}

// ApplySession is the single-step state transition: recover the state forward
// to the session date, then accrue the session's fatigue.
//
// Recovery always runs first; swapping the order would decay fatigue the
// session just added. An empty session is a rest day: recovery and subjective
// observations still apply but no fatigue accrues and LastWorkoutDate stays
// put, so "last trained" survives logged rest days.
//
// Fatigue and weekly stimulus are accumulated in two separate passes:
// secondary and tertiary muscles accrue (reduced) fatigue but never stimulus.
// That asymmetry is part of the model, not an accident.
func (e *Engine) ApplySession(session models.Session, date models.Day, state models.FatigueState, program *models.ProgramContext) SessionResult {
	from := state.LastUpdateDate
	if from.IsZero() {
		from = state.LastWorkoutDate
	}

	restDays := 0
	if program != nil {
		elapsed := models.DaysBetween(from, date)
		restDays = scheduledRestDays(elapsed, *program)
	}

	next := e.Recover(state, from, date, restDays)

	result := SessionResult{
		Stimulus:  make(map[models.Muscle]float64),
		IsRestDay: session.IsRestDay(),
	}

	if !result.IsRestDay {
		for _, ex := range session.Exercises {
			ef := e.ExerciseFatigue(ex)
			for m, f := range ef.MuscleFatigue {
				next.LocalFatigue[m] += f
			}
			next.SystemicFatigue += ef.TotalSystemic
			for _, m := range ex.PrimaryMuscles {
				next.WeeklyStimulus[m] += float64(ef.SetCount)
				result.Stimulus[m] += float64(ef.SetCount)
			}
		}

		// Subjective adjustments: perceived exertion is a 0-10 scale centered
		// at 5 contributing +/-0.1 systemically; soreness adds per muscle.
		if session.PerceivedFatigue > 0 {
			next.SystemicFatigue += (session.PerceivedFatigue - 5) / 50
		}
		for m, soreness := range session.Soreness {
			next.LocalFatigue[m] += soreness / 100
		}

		next.LastWorkoutDate = date
	}

	for m, f := range next.LocalFatigue {
		next.LocalFatigue[m] = clamp01(f)
	}
	next.SystemicFatigue = clamp01(next.SystemicFatigue)
	next.LastUpdateDate = date

	result.State = next
	result.Readiness = e.Readiness(next)
	return result
}

// scheduledRestDays estimates how many of the elapsed days were planned rest
// days under the program's cadence, rounding down.
func scheduledRestDays(elapsed int, program models.ProgramContext) int {
	if elapsed <= 0 {
		return 0
	}
	rest := int(float64(elapsed) * program.RestRatio())
	if rest > elapsed {
		rest = elapsed
	}
	return rest
}
