// Package engine implements the fatigue model: a deterministic simulation
// that turns dated workout sessions into time-decaying per-muscle and
// systemic fatigue, derives readiness from them, and flags when a deload is
// warranted. Every function is a pure transform of its inputs; the caller
// owns the state and is responsible for serializing read-modify-write cycles
// per user.
package engine

// Config holds every numeric tunable of the fatigue and progression model.
// It is injected at construction so tests can override individual thresholds
// without touching shared state.
type Config struct {
	// BaseFatiguePerSet is the local fatigue cost of one set at neutral
	// intensity before multipliers.
	BaseFatiguePerSet float64 `yaml:"base_fatigue_per_set"`

	// AxialLoadMultiplier scales the systemic cost of spine-loading lifts.
	AxialLoadMultiplier float64 `yaml:"axial_load_multiplier"`

	// CompoundLocalMultiplier and CompoundSystemicMultiplier scale fatigue
	// for compound movements.
	CompoundLocalMultiplier    float64 `yaml:"compound_local_multiplier"`
	CompoundSystemicMultiplier float64 `yaml:"compound_systemic_multiplier"`

	// SecondaryWeight and TertiaryWeight are the fractions of an exercise's
	// local fatigue attributed to non-primary muscles.
	SecondaryWeight float64 `yaml:"secondary_weight"`
	TertiaryWeight  float64 `yaml:"tertiary_weight"`

	// LocalRecoveryRate and SystemicRecoveryRate are per-day exponential
	// decay rates: fatigue multiplies by (1-rate) each elapsed day.
	LocalRecoveryRate    float64 `yaml:"local_recovery_rate"`
	SystemicRecoveryRate float64 `yaml:"systemic_recovery_rate"`

	// RestDayRecoveryBonus scales the decay rate on scheduled program rest
	// days. 1 means no bonus; values above 1 recover faster.
	RestDayRecoveryBonus float64 `yaml:"rest_day_recovery_bonus"`

	// StimulusDecayRate is the per-day decay of the weekly stimulus counter,
	// on its own clock independent of fatigue recovery.
	StimulusDecayRate float64 `yaml:"stimulus_decay_rate"`

	// DeloadThreshold is the readiness below which (exclusive) a deload is
	// triggered. CriticalReadiness marks the full-rest tier.
	DeloadThreshold   float64 `yaml:"deload_threshold"`
	CriticalReadiness float64 `yaml:"critical_readiness"`

	// ProgressionThreshold is the readiness at or above which normal
	// progression applies; ModerateReadiness is the floor of the moderate
	// band.
	ProgressionThreshold float64 `yaml:"progression_threshold"`
	ModerateReadiness    float64 `yaml:"moderate_readiness"`

	// RIRProgressionThreshold: average RIR at or below this recommends a
	// weight increase.
	RIRProgressionThreshold float64 `yaml:"rir_progression_threshold"`

	// OptimalWeeklySets and MaxWeeklySets bound the weekly stimulus target
	// per muscle.
	OptimalWeeklySets float64 `yaml:"optimal_weekly_sets"`
	MaxWeeklySets     float64 `yaml:"max_weekly_sets"`

	// UpperIncrementKg and LowerIncrementKg are the weight increments used
	// when progression recommends adding load.
	UpperIncrementKg float64 `yaml:"upper_increment_kg"`
	LowerIncrementKg float64 `yaml:"lower_increment_kg"`

	// DeloadMinSignals is how many qualifying deload conditions must hold
	// before the multi-condition deload recommendation fires.
	DeloadMinSignals int `yaml:"deload_min_signals"`

	// SorenessThreshold (0-10) and SorenessMuscleCount define the persistent
	// soreness deload signal: soreness above the threshold in more than this
	// many muscles.
	SorenessThreshold   float64 `yaml:"soreness_threshold"`
	SorenessMuscleCount int     `yaml:"soreness_muscle_count"`

	// PerformanceErrorRIR: a streak of sessions averaging below this RIR
	// counts as a deload signal. PerformanceErrorStreak is the streak length.
	PerformanceErrorRIR    float64 `yaml:"performance_error_rir"`
	PerformanceErrorStreak int     `yaml:"performance_error_streak"`

	// RecoveryTargetReadiness is the readiness the recovery-time estimator
	// solves for.
	RecoveryTargetReadiness float64 `yaml:"recovery_target_readiness"`
}

// DefaultConfig returns the model's reference tunables.
func DefaultConfig() Config {
	return Config{
		BaseFatiguePerSet:          0.033,
		AxialLoadMultiplier:        1.5,
		CompoundLocalMultiplier:    1.2,
		CompoundSystemicMultiplier: 1.3,
		SecondaryWeight:            0.6,
		TertiaryWeight:             0.3,
		LocalRecoveryRate:          0.15,
		SystemicRecoveryRate:       0.20,
		RestDayRecoveryBonus:       1.25,
		StimulusDecayRate:          0.12,
		DeloadThreshold:            0.6,
		CriticalReadiness:          0.5,
		ProgressionThreshold:       0.85,
		ModerateReadiness:          0.65,
		RIRProgressionThreshold:    1,
		OptimalWeeklySets:          12,
		MaxWeeklySets:              20,
		UpperIncrementKg:           2.5,
		LowerIncrementKg:           5,
		DeloadMinSignals:           2,
		SorenessThreshold:          6,
		SorenessMuscleCount:        2,
		PerformanceErrorRIR:        1,
		PerformanceErrorStreak:     3,
		RecoveryTargetReadiness:    0.85,
	}
}

// WeightIncrementKg returns the progression increment for an exercise type.
func (c Config) WeightIncrementKg(lower bool) float64 {
	if lower {
		return c.LowerIncrementKg
	}
	return c.UpperIncrementKg
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
