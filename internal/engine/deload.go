package engine

import (
	"fmt"
	"math"

	"github.com/dsecrist80/workout-tracker-sub000/internal/models"
)

// DeloadType distinguishes whole-body from muscle-local deloads.
type DeloadType string

const (
	DeloadSystemic DeloadType = "systemic"
	DeloadLocal    DeloadType = "local"
)

// DeloadSeverity grades how urgent a deload is.
type DeloadSeverity string

const (
	SeverityModerate DeloadSeverity = "moderate"
	SeverityHigh     DeloadSeverity = "high"
)

// DeloadCheck is the result of the basic threshold deload check.
type DeloadCheck struct {
	Needed   bool           `json:"needed"`
	Type     DeloadType     `json:"type,omitempty"`
	Severity DeloadSeverity `json:"severity,omitempty"`
	Muscles  []models.Muscle `json:"muscles,omitempty"`
	Message  string         `json:"message"`
}

// CheckDeload is the basic threshold check: systemic readiness strictly below
// the deload threshold wins, then any muscle strictly below it. Readiness
// exactly at the threshold does not trigger.
func (e *Engine) CheckDeload(readiness models.Readiness) DeloadCheck {
	if readiness.Systemic < e.cfg.DeloadThreshold {
		return DeloadCheck{
			Needed:   true,
			Type:     DeloadSystemic,
			Severity: SeverityHigh,
			Message:  fmt.Sprintf("systemic readiness %.0f%% is below the deload threshold; reduce whole-body training load", readiness.Systemic*100),
		}
	}

	var low []models.Muscle
	for _, m := range models.AllMuscles {
		if v, ok := readiness.Muscles[m]; ok && v < e.cfg.DeloadThreshold {
			low = append(low, m)
		}
	}
	if len(low) > 0 {
		severity := SeverityModerate
		if len(low) > 3 {
			severity = SeverityHigh
		}
		return DeloadCheck{
			Needed:   true,
			Type:     DeloadLocal,
			Severity: severity,
			Muscles:  low,
			Message:  fmt.Sprintf("%d muscle group(s) below the deload threshold; back off volume for the affected muscles", len(low)),
		}
	}

	return DeloadCheck{Message: "no deload needed"}
}

// DeloadSignals are the observations the multi-condition deload rule weighs.
// Readiness comes from the current state; the history-derived fields are
// supplied by the caller from recent sessions, newest last.
type DeloadSignals struct {
	Readiness models.Readiness
	// Soreness is the latest reported per-muscle soreness (0-10).
	Soreness map[models.Muscle]float64
	// SessionStimulus is total effective sets per recent session.
	SessionStimulus []float64
	// SessionAvgRIR is the mean RIR per recent session.
	SessionAvgRIR []float64
}

// DeloadRecommendation reports which deload conditions currently hold and
// whether enough of them coincide to recommend a deload.
type DeloadRecommendation struct {
	Recommended bool     `json:"recommended"`
	Conditions  []string `json:"conditions"`
	Message     string   `json:"message"`
}

// EvaluateDeloadSignals counts the qualifying deload conditions (low
// readiness, persistent multi-muscle soreness, a stimulus plateau despite
// good readiness, and a streak of near-failure sessions) and recommends a
// deload once the configured minimum number coincide.
func (e *Engine) EvaluateDeloadSignals(sig DeloadSignals) DeloadRecommendation {
	var conditions []string

	if check := e.CheckDeload(sig.Readiness); check.Needed {
		conditions = append(conditions, "low_readiness")
	}

	sore := 0
	for _, v := range sig.Soreness {
		if v > e.cfg.SorenessThreshold {
			sore++
		}
	}
	if sore > e.cfg.SorenessMuscleCount {
		conditions = append(conditions, "persistent_soreness")
	}

	if e.stimulusPlateau(sig.SessionStimulus) && sig.Readiness.Systemic > e.cfg.ModerateReadiness {
		conditions = append(conditions, "stimulus_plateau")
	}

	if e.performanceErrorStreak(sig.SessionAvgRIR) {
		conditions = append(conditions, "performance_error_streak")
	}

	rec := DeloadRecommendation{Conditions: conditions}
	if len(conditions) >= e.cfg.DeloadMinSignals {
		rec.Recommended = true
		rec.Message = fmt.Sprintf("%d deload conditions met: schedule a deload week (reduce volume ~50%%, add 2-3 RIR)", len(conditions))
	} else {
		rec.Message = fmt.Sprintf("%d of %d deload conditions met", len(conditions), e.cfg.DeloadMinSignals)
	}
	return rec
}

// stimulusPlateau reports whether the last three sessions' stimulus stayed
// within +/-10% of each other.
func (e *Engine) stimulusPlateau(stimulus []float64) bool {
	if len(stimulus) < 3 {
		return false
	}
	recent := stimulus[len(stimulus)-3:]
	base := recent[0]
	if base <= 0 {
		return false
	}
	for _, v := range recent[1:] {
		if math.Abs(v-base)/base > 0.10 {
			return false
		}
	}
	return true
}

// performanceErrorStreak reports whether the trailing sessions all averaged
// below the performance-error RIR threshold.
func (e *Engine) performanceErrorStreak(avgRIR []float64) bool {
	streak := e.cfg.PerformanceErrorStreak
	if streak <= 0 || len(avgRIR) < streak {
		return false
	}
	for _, v := range avgRIR[len(avgRIR)-streak:] {
		if v >= e.cfg.PerformanceErrorRIR {
			return false
		}
	}
	return true
}
