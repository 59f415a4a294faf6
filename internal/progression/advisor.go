// Package progression turns one exercise's history plus the current
// readiness picture into a concrete training recommendation: add weight,
// push closer to failure, add a set, hold steady, or back off.
package progression

import (
	"errors"
	"fmt"

	"github.com/dsecrist80/workout-tracker-sub000/internal/engine"
	"github.com/dsecrist80/workout-tracker-sub000/internal/models"
	"github.com/google/uuid"
)

// ErrExerciseNotFound is returned when the requested exercise is not in the
// library. Callers must check for it before using the recommendation.
var ErrExerciseNotFound = errors.New("exercise not found")

// Advice is the recommended action for the next session of an exercise.
type Advice string

const (
	AdviceFirstTime      Advice = "first_time"
	AdviceDeload         Advice = "deload"
	AdviceRest           Advice = "rest"
	AdviceAddVolume      Advice = "add_volume"
	AdviceIncreaseWeight Advice = "increase_weight"
	AdviceReduceRIR      Advice = "reduce_rir"
	AdvicePushHarder     Advice = "push_harder"
	AdviceMaintain       Advice = "maintain"
	AdviceAddRIR         Advice = "add_rir"
)

// ReadinessBand buckets the readiness picture the advice was derived from.
type ReadinessBand string

const (
	BandHigh     ReadinessBand = "high"
	BandModerate ReadinessBand = "moderate"
	BandLow      ReadinessBand = "low"
	BandDeload   ReadinessBand = "deload"
)

// DeloadProtocol carries the numeric payload of a deload recommendation.
// Zero fields mean "no change" for that dimension.
type DeloadProtocol struct {
	SetReduction    float64 `json:"set_reduction,omitempty"`    // fraction of sets to drop
	RIRIncrease     int     `json:"rir_increase,omitempty"`     // add this many RIR
	WeightReduction float64 `json:"weight_reduction,omitempty"` // fraction of load to drop
	RestDays        int     `json:"rest_days,omitempty"`        // full rest before training
	DurationDays    int     `json:"duration_days,omitempty"`    // how long the deload lasts
}

// Recommendation is the advisor's output. It always carries the readiness
// values it was computed from, for display and audit.
type Recommendation struct {
	Advice            Advice          `json:"advice"`
	Band              ReadinessBand   `json:"readiness_band"`
	Message           string          `json:"message"`
	Rationale         string          `json:"rationale,omitempty"`
	MuscleReadiness   float64         `json:"muscle_readiness"`
	SystemicReadiness float64         `json:"systemic_readiness"`
	RecommendedWeight *float64        `json:"recommended_weight_kg,omitempty"`
	RecommendedSets   *int            `json:"recommended_sets,omitempty"`
	RIRDelta          *int            `json:"rir_delta,omitempty"`
	Deload            *DeloadProtocol `json:"deload,omitempty"`
}

// Advisor derives recommendations using the same tunables as the fatigue
// engine. It is stateless.
type Advisor struct {
	cfg engine.Config
}

// NewAdvisor creates an Advisor with the given tunables.
func NewAdvisor(cfg engine.Config) *Advisor {
	return &Advisor{cfg: cfg}
}

// AdviseByID looks the exercise up in the library and delegates to Advise.
func (a *Advisor) AdviseByID(id uuid.UUID, library map[uuid.UUID]models.Exercise, history []models.WorkoutRecord, readiness models.Readiness, weeklyStimulus map[models.Muscle]float64) (Recommendation, error) {
	ex, ok := library[id]
	if !ok {
		return Recommendation{}, fmt.Errorf("%w: %s", ErrExerciseNotFound, id)
	}
	return a.Advise(ex, history, readiness, weeklyStimulus), nil
}

// Advise classifies the exercise's situation and emits a recommendation.
// The classification ladder is evaluated in priority order; the first match
// wins: first time, deload, stagnation, normal progression, moderate
// readiness, low readiness.
func (a *Advisor) Advise(ex models.Exercise, history []models.WorkoutRecord, readiness models.Readiness, weeklyStimulus map[models.Muscle]float64) Recommendation {
	muscleReadiness := readiness.MinOver(ex.PrimaryMuscles)
	systemic := readiness.Systemic

	rec := Recommendation{
		MuscleReadiness:   muscleReadiness,
		SystemicReadiness: systemic,
	}

	if len(history) == 0 {
		rec.Advice = AdviceFirstTime
		rec.Band = BandHigh
		rec.Message = "First time logging this exercise: start conservatively with a weight you could do for 3-4 reps in reserve."
		return rec
	}

	history = sortHistory(history)
	volumes := sessionVolumes(history)
	last := history[len(history)-1]
	lastAvgRIR, _ := last.AvgRIR()

	if deload, ok := a.deloadCase(ex, muscleReadiness, systemic, volumes, weeklyStimulus); ok {
		deload.MuscleReadiness = muscleReadiness
		deload.SystemicReadiness = systemic
		return deload
	}

	highReadiness := muscleReadiness >= a.cfg.ProgressionThreshold && systemic >= a.cfg.ProgressionThreshold

	if highReadiness && stagnantWindow(volumes) {
		return a.stagnationCase(ex, rec, lastAvgRIR, last, weeklyStimulus)
	}

	if highReadiness {
		return a.progressCase(ex, rec, lastAvgRIR, last)
	}

	if muscleReadiness >= a.cfg.ModerateReadiness && systemic >= a.cfg.ModerateReadiness {
		return a.moderateCase(rec, history)
	}

	return a.lowCase(rec, muscleReadiness)
}

// stagnantWindow reports whether volume has been flat over the last <=4
// sessions (at least 2 required).
func stagnantWindow(volumes []float64) bool {
	window := volumes
	if len(window) > 4 {
		window = window[len(window)-4:]
	}
	return volumeFlat(window)
}

func (a *Advisor) deloadCase(ex models.Exercise, muscleReadiness, systemic float64, volumes []float64, weeklyStimulus map[models.Muscle]float64) (Recommendation, bool) {
	rec := Recommendation{Advice: AdviceDeload, Band: BandDeload}

	switch {
	case systemic < a.cfg.CriticalReadiness:
		rec.Advice = AdviceRest
		rec.Deload = &DeloadProtocol{RestDays: 3, DurationDays: 5}
		rec.Message = "Systemic readiness is critically low: take 3-5 days of full rest before training again."
		rec.Rationale = "systemic readiness below critical threshold"
		return rec, true

	case systemic < a.cfg.DeloadThreshold:
		rec.Deload = &DeloadProtocol{SetReduction: 0.5, RIRIncrease: 2}
		rec.Message = "Systemic fatigue is high: cut sets by about half, keep 2-3 reps in reserve, and lighten axial lifts."
		if ex.IsAxial {
			rec.Deload.WeightReduction = 0.1
		}
		rec.Rationale = "systemic readiness below deload threshold"
		return rec, true

	case muscleReadiness < a.cfg.DeloadThreshold:
		rec.Deload = &DeloadProtocol{SetReduction: 0.35, RIRIncrease: 1}
		rec.Message = "The primary muscles for this exercise are under-recovered: reduce its sets by about a third and keep an extra rep in reserve."
		rec.Rationale = "primary muscle readiness below deload threshold"
		return rec, true

	case decliningRun(volumes, 3) && muscleReadiness > 0.75:
		rec.Deload = &DeloadProtocol{SetReduction: 0.5, RIRIncrease: 2, DurationDays: 7}
		rec.Message = "Performance has declined for three sessions despite good recovery: possible overtraining, take a full deload week."
		rec.Rationale = "3-session declining volume with high muscle readiness"
		return rec, true
	}

	if avg, ok := avgStimulus(ex.PrimaryMuscles, weeklyStimulus); ok && avg > a.cfg.MaxWeeklySets {
		rec.Deload = &DeloadProtocol{SetReduction: 0.4, DurationDays: 7}
		rec.Message = fmt.Sprintf("Weekly volume for this exercise's muscles (%.0f sets) exceeds the recoverable maximum: cut volume for a week.", avg)
		rec.Rationale = "weekly stimulus above configured maximum"
		return rec, true
	}

	return Recommendation{}, false
}

func (a *Advisor) stagnationCase(ex models.Exercise, rec Recommendation, lastAvgRIR float64, last models.WorkoutRecord, weeklyStimulus map[models.Muscle]float64) Recommendation {
	rec.Band = BandHigh

	if avg, ok := avgStimulus(ex.PrimaryMuscles, weeklyStimulus); ok && avg < a.cfg.OptimalWeeklySets {
		sets := len(last.Sets) + 1
		rec.Advice = AdviceAddVolume
		rec.RecommendedSets = &sets
		rec.Message = fmt.Sprintf("Progress has stalled and weekly volume is below target: add a set (aim for %d).", sets)
		rec.Rationale = "flat volume with weekly stimulus below optimal"
		return rec
	}

	if lastAvgRIR > a.cfg.RIRProgressionThreshold {
		delta := -1
		rec.Advice = AdviceReduceRIR
		rec.RIRDelta = &delta
		rec.Message = "Progress has stalled at sufficient volume: take sets one rep closer to failure."
		rec.Rationale = "flat volume with spare reps in reserve"
		return rec
	}

	increment := a.cfg.WeightIncrementKg(ex.Type.IsLower())
	if top, ok := last.TopSet(); ok {
		weight := top.WeightKg + increment
		rec.RecommendedWeight = &weight
	}
	rec.Advice = AdviceIncreaseWeight
	rec.Message = fmt.Sprintf("Progress has stalled at high effort: add %.1f kg and rebuild reps.", increment)
	rec.Rationale = "flat volume at low RIR"
	return rec
}

func (a *Advisor) progressCase(ex models.Exercise, rec Recommendation, lastAvgRIR float64, last models.WorkoutRecord) Recommendation {
	rec.Band = BandHigh

	switch {
	case lastAvgRIR <= a.cfg.RIRProgressionThreshold:
		increment := a.cfg.WeightIncrementKg(ex.Type.IsLower())
		if top, ok := last.TopSet(); ok {
			weight := top.WeightKg + increment
			rec.RecommendedWeight = &weight
		}
		rec.Advice = AdviceIncreaseWeight
		rec.Message = fmt.Sprintf("You are recovered and training near failure: add %.1f kg.", increment)
		rec.Rationale = "high readiness, average RIR at progression threshold"

	case lastAvgRIR >= 3:
		delta := -2
		rec.Advice = AdvicePushHarder
		rec.RIRDelta = &delta
		rec.Message = "You are leaving a lot in the tank: push sets up to 2 reps closer to failure before adding weight."
		rec.Rationale = "high readiness, high average RIR"

	default:
		rec.Advice = AdviceMaintain
		rec.Message = "You are in the optimal training zone (2-3 reps in reserve): repeat the same loading."
		rec.Rationale = "high readiness, RIR in optimal range"
	}
	return rec
}

func (a *Advisor) moderateCase(rec Recommendation, history []models.WorkoutRecord) Recommendation {
	rec.Band = BandModerate

	tops := topSetVolumes(history)
	declined := false
	if len(tops) >= 2 {
		declined = compare(tops[len(tops)-2], tops[len(tops)-1]) == TrendDeclined
	}
	if declined || longTermTrend(sessionVolumes(history)) == TrendDeclined {
		delta := 1
		rec.Advice = AdviceAddRIR
		rec.RIRDelta = &delta
		rec.Message = "Recovery is incomplete and performance is slipping: hold the weight and keep one extra rep in reserve."
		rec.Rationale = "moderate readiness with declining performance"
		return rec
	}

	rec.Advice = AdviceMaintain
	rec.Message = "Recovery is moderate: hold the current loading and focus on movement quality."
	rec.Rationale = "moderate readiness, stable performance"
	return rec
}

func (a *Advisor) lowCase(rec Recommendation, muscleReadiness float64) Recommendation {
	rec.Band = BandLow

	delta := 1
	if muscleReadiness < a.cfg.CriticalReadiness {
		delta = 2
	}
	rec.Advice = AdviceAddRIR
	rec.RIRDelta = &delta
	rec.Message = fmt.Sprintf("Readiness is low: keep %d extra rep(s) in reserve without reducing the weight.", delta)
	rec.Rationale = "low readiness"
	return rec
}

// avgStimulus averages the weekly stimulus over the given muscles. Returns
// false when there are no muscles to average over.
func avgStimulus(muscles []models.Muscle, stimulus map[models.Muscle]float64) (float64, bool) {
	if len(muscles) == 0 {
		return 0, false
	}
	var sum float64
	for _, m := range muscles {
		sum += stimulus[m]
	}
	return sum / float64(len(muscles)), true
}
