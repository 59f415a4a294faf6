package models

// FatigueState is the accumulated training fatigue for one user. It is a
// plain value owned by the caller: the engine never mutates a state in place,
// it returns a new one. Local fatigue and weekly stimulus are keyed by muscle;
// muscles absent from the maps are at zero (fully recovered).
type FatigueState struct {
	// LocalFatigue is the per-muscle fatigue scalar. Intermediate arithmetic
	// may exceed 1; the engine clamps to [0,1] after every session update.
	LocalFatigue map[Muscle]float64 `json:"local_fatigue"`

	// SystemicFatigue is whole-body fatigue, clamped to [0,1] after updates.
	SystemicFatigue float64 `json:"systemic_fatigue"`

	// WeeklyStimulus is a decaying rolling count of effective sets per muscle.
	// Only primary muscles accrue stimulus; it feeds volume recommendations,
	// not fatigue.
	WeeklyStimulus map[Muscle]float64 `json:"weekly_stimulus"`

	// LastWorkoutDate is the last day with actual training (not rest days).
	LastWorkoutDate Day `json:"last_workout_date,omitempty"`

	// LastUpdateDate is the last day the state was synced, including rest
	// days. Recovery decay is computed from here.
	LastUpdateDate Day `json:"last_update_date,omitempty"`
}

// NewFatigueState returns an empty state: zero fatigue, full readiness.
func NewFatigueState() FatigueState {
	return FatigueState{
		LocalFatigue:   make(map[Muscle]float64),
		WeeklyStimulus: make(map[Muscle]float64),
	}
}

// Clone returns a deep copy so engine transforms never alias caller maps.
func (s FatigueState) Clone() FatigueState {
	out := s
	out.LocalFatigue = make(map[Muscle]float64, len(s.LocalFatigue))
	for m, v := range s.LocalFatigue {
		out.LocalFatigue[m] = v
	}
	out.WeeklyStimulus = make(map[Muscle]float64, len(s.WeeklyStimulus))
	for m, v := range s.WeeklyStimulus {
		out.WeeklyStimulus[m] = v
	}
	return out
}

// Readiness is the derived recovery score: 1 - fatigue, clamped to [0,1].
// It is recomputed on demand and never persisted independently.
type Readiness struct {
	Muscles  map[Muscle]float64 `json:"muscles"`
	Systemic float64            `json:"systemic"`
}

// MuscleReadiness returns the readiness for one muscle, defaulting to fully
// recovered for muscles with no recorded fatigue.
func (r Readiness) MuscleReadiness(m Muscle) float64 {
	if v, ok := r.Muscles[m]; ok {
		return v
	}
	return 1
}

// MinOver returns the lowest readiness across the given muscles. An empty
// muscle list yields 1 (nothing to be fatigued).
func (r Readiness) MinOver(muscles []Muscle) float64 {
	min := 1.0
	for _, m := range muscles {
		if v := r.MuscleReadiness(m); v < min {
			min = v
		}
	}
	return min
}

// ProgramContext describes the active training program's rest cadence, used
// to grant a recovery bonus for scheduled rest days.
type ProgramContext struct {
	// RestDaysPerCycle and CycleDays define the planned rest ratio, e.g.
	// 2 rest days in a 7-day cycle.
	RestDaysPerCycle int `json:"rest_days_per_cycle"`
	CycleDays        int `json:"cycle_days"`
}

// RestRatio returns the planned fraction of rest days, or 0 when undefined.
func (p ProgramContext) RestRatio() float64 {
	if p.CycleDays <= 0 {
		return 0
	}
	return float64(p.RestDaysPerCycle) / float64(p.CycleDays)
}
