package engine

import (
	"math"

	"github.com/dsecrist80/workout-tracker-sub000/internal/models"
)

// Recover applies exponential time-decay recovery for the whole days elapsed
// between from and to. Weekly stimulus decays on the same call with its own
// rate. A missing from date or zero elapsed days returns the state unchanged
// (aside from deep-copying). restDays is how many of the elapsed days were
// scheduled program rest days; those days decay at the bonus rate, so more
// scheduled rest never yields less recovery.
func (e *Engine) Recover(state models.FatigueState, from, to models.Day, restDays int) models.FatigueState {
	out := state.Clone()

	days := models.DaysBetween(from, to)
	if from.IsZero() || days <= 0 {
		return out
	}
	if restDays < 0 {
		restDays = 0
	}
	if restDays > days {
		restDays = days
	}
	ordinary := days - restDays

	localKeep := decayFactor(e.cfg.LocalRecoveryRate, ordinary) *
		decayFactor(bonusRate(e.cfg.LocalRecoveryRate, e.cfg.RestDayRecoveryBonus), restDays)
	systemicKeep := decayFactor(e.cfg.SystemicRecoveryRate, ordinary) *
		decayFactor(bonusRate(e.cfg.SystemicRecoveryRate, e.cfg.RestDayRecoveryBonus), restDays)

	for m, f := range out.LocalFatigue {
		out.LocalFatigue[m] = f * localKeep
	}
	out.SystemicFatigue *= systemicKeep
	out.WeeklyStimulus = e.DecayWeeklyStimulus(out.WeeklyStimulus, days)

	return out
}

// DecayWeeklyStimulus decays the rolling effective-set counter by its own
// per-day rate, clamped at zero. The input map is not modified.
func (e *Engine) DecayWeeklyStimulus(stimulus map[models.Muscle]float64, days int) map[models.Muscle]float64 {
	out := make(map[models.Muscle]float64, len(stimulus))
	if days < 0 {
		days = 0
	}
	keep := decayFactor(e.cfg.StimulusDecayRate, days)
	for m, v := range stimulus {
		decayed := v * keep
		if decayed < 0 {
			decayed = 0
		}
		out[m] = decayed
	}
	return out
}

// RecoveryDays estimates whole days until the given fatigue value decays to
// the target-readiness floor at the given per-day rate. Returns 0 for already
// recovered, non-positive, or degenerate inputs; never panics.
func (e *Engine) RecoveryDays(fatigue, rate float64) int {
	floor := -math.Log(e.cfg.RecoveryTargetReadiness)
	if fatigue <= floor || fatigue <= 0 || rate <= 0 {
		return 0
	}
	days := math.Log(fatigue/floor) / rate
	if math.IsNaN(days) || math.IsInf(days, 0) || days < 0 {
		return 0
	}
	return int(math.Ceil(days))
}

func decayFactor(rate float64, days int) float64 {
	if days <= 0 {
		return 1
	}
	keep := 1 - rate
	if keep < 0 {
		keep = 0
	}
	return math.Pow(keep, float64(days))
}

// bonusRate scales a recovery rate for scheduled rest days, capped below 1 so
// the keep factor stays positive.
func bonusRate(rate, bonus float64) float64 {
	if bonus < 1 {
		bonus = 1
	}
	r := rate * bonus
	if r > 0.95 {
		r = 0.95
	}
	return r
}
