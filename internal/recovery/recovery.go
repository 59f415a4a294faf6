// Package recovery holds ancillary pure helpers around the fatigue model:
// rest-cadence compliance, rest recommendations before the next session,
// recovery-time estimation, and stimulus efficiency.
package recovery

import (
	"fmt"

	"github.com/dsecrist80/workout-tracker-sub000/internal/engine"
	"github.com/dsecrist80/workout-tracker-sub000/internal/models"
)

// complianceTolerance is how far the actual training ratio may drift from the
// program's planned ratio before a compliance issue is flagged.
const complianceTolerance = 0.15

// stimulusEpsilon guards the efficiency ratio against zero fatigue.
const stimulusEpsilon = 0.01

// ComplianceStatus classifies adherence to the program's rest cadence.
type ComplianceStatus string

const (
	ComplianceOK            ComplianceStatus = "ok"
	ComplianceOverTraining  ComplianceStatus = "over_training"
	ComplianceUnderTraining ComplianceStatus = "under_training"
)

// ComplianceResult reports whether actual training frequency matches the
// program's planned rest cadence.
type ComplianceResult struct {
	Status   ComplianceStatus `json:"status"`
	Severity string           `json:"severity,omitempty"`
	Message  string           `json:"message"`
}

// CheckDeloadCompliance compares the program's planned rest-day ratio with
// the actual unique training days over a trailing window and flags notable
// over- or under-training.
func CheckDeloadCompliance(program models.ProgramContext, trainingDays, windowDays int) ComplianceResult {
	if windowDays <= 0 || program.CycleDays <= 0 {
		return ComplianceResult{Status: ComplianceOK, Message: "no program cadence to compare against"}
	}

	plannedTraining := 1 - program.RestRatio()
	actualTraining := float64(trainingDays) / float64(windowDays)
	drift := actualTraining - plannedTraining

	switch {
	case drift > complianceTolerance:
		severity := "moderate"
		if drift > 1.5*complianceTolerance {
			severity = "high"
		}
		return ComplianceResult{
			Status:   ComplianceOverTraining,
			Severity: severity,
			Message: fmt.Sprintf("trained %d of the last %d days against a plan of %.0f%%: schedule the program's rest days",
				trainingDays, windowDays, plannedTraining*100),
		}
	case drift < -complianceTolerance:
		return ComplianceResult{
			Status:   ComplianceUnderTraining,
			Severity: "moderate",
			Message: fmt.Sprintf("trained %d of the last %d days against a plan of %.0f%%: consistency drives progress",
				trainingDays, windowDays, plannedTraining*100),
		}
	}
	return ComplianceResult{Status: ComplianceOK, Message: "training frequency matches the program"}
}

// RestAdvice classifies how ready the user is for the next planned session.
type RestAdvice string

const (
	RestReady        RestAdvice = "ready"
	RestReduceVolume RestAdvice = "reduce_volume"
	RestOneDay       RestAdvice = "rest_1_day"
	RestTwoDays      RestAdvice = "rest_2_days"
)

// RestRecommendation is the output of RecommendRest.
type RestRecommendation struct {
	Advice      RestAdvice `json:"advice"`
	MinRestDays int        `json:"min_rest_days"`
	Message     string     `json:"message"`
}

// RecommendRest checks the next session's target muscles against current
// readiness and recommends minimum rest before training.
func RecommendRest(targets []models.Muscle, readiness models.Readiness) RestRecommendation {
	if readiness.Systemic < 0.6 {
		return RestRecommendation{
			Advice:      RestTwoDays,
			MinRestDays: 2,
			Message:     "systemic readiness is low: take at least 2 full rest days",
		}
	}

	lowest := readiness.MinOver(targets)
	switch {
	case lowest < 0.6:
		return RestRecommendation{
			Advice:      RestOneDay,
			MinRestDays: 1,
			Message:     "a target muscle is under-recovered: rest at least 1 more day",
		}
	case lowest < 0.7:
		return RestRecommendation{
			Advice:  RestReduceVolume,
			Message: "target muscles are close to recovered: train, but consider trimming a set or two",
		}
	}
	return RestRecommendation{Advice: RestReady, Message: "ready to train"}
}

// Estimate holds days-until-recovered per muscle and for systemic fatigue.
type Estimate struct {
	Muscles  map[models.Muscle]int `json:"muscles"`
	Systemic int                   `json:"systemic"`
}

// EstimateRecovery inverts the exponential decay to estimate days until each
// muscle (and the body as a whole) is back above the target readiness.
// Already-recovered and degenerate inputs yield 0; it never panics.
func EstimateRecovery(eng *engine.Engine, state models.FatigueState) Estimate {
	cfg := eng.Config()
	est := Estimate{
		Muscles:  make(map[models.Muscle]int, len(state.LocalFatigue)),
		Systemic: eng.RecoveryDays(state.SystemicFatigue, cfg.SystemicRecoveryRate),
	}
	for m, f := range state.LocalFatigue {
		est.Muscles[m] = eng.RecoveryDays(f, cfg.LocalRecoveryRate)
	}
	return est
}

// StimulusEfficiency returns stimulus/fatigue per muscle, a display-only
// ratio of training effect to recovery cost.
func StimulusEfficiency(state models.FatigueState) map[models.Muscle]float64 {
	out := make(map[models.Muscle]float64, len(state.WeeklyStimulus))
	for m, stim := range state.WeeklyStimulus {
		fatigue := state.LocalFatigue[m]
		if fatigue < stimulusEpsilon {
			fatigue = stimulusEpsilon
		}
		out[m] = stim / fatigue
	}
	return out
}
