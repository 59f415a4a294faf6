package recovery

import (
	"testing"

	"github.com/dsecrist80/workout-tracker-sub000/internal/engine"
	"github.com/dsecrist80/workout-tracker-sub000/internal/models"
)

// TestCheckDeloadCompliance verifies over/under-training detection against a
// program planning 2 rest days in a 7-day cycle (~71% training).
func TestCheckDeloadCompliance(t *testing.T) {
	program := models.ProgramContext{RestDaysPerCycle: 2, CycleDays: 7}

	cases := []struct {
		name         string
		trainingDays int
		window       int
		want         ComplianceStatus
	}{
		{"on plan", 10, 14, ComplianceOK},
		{"over training", 13, 14, ComplianceOverTraining},
		{"under training", 5, 14, ComplianceUnderTraining},
	}
	for _, tc := range cases {
		got := CheckDeloadCompliance(program, tc.trainingDays, tc.window)
		if got.Status != tc.want {
			t.Errorf("%s: status = %s, want %s (%s)", tc.name, got.Status, tc.want, got.Message)
		}
	}

	// Every single day trained is a high-severity violation.
	extreme := CheckDeloadCompliance(program, 14, 14)
	if extreme.Status != ComplianceOverTraining || extreme.Severity != "high" {
		t.Errorf("14/14 days: got %s/%s, want over_training/high", extreme.Status, extreme.Severity)
	}

	noProgram := CheckDeloadCompliance(models.ProgramContext{}, 14, 14)
	if noProgram.Status != ComplianceOK {
		t.Errorf("no program cadence: status = %s, want ok", noProgram.Status)
	}
}

// TestRecommendRest verifies the readiness ladder for the next session.
func TestRecommendRest(t *testing.T) {
	targets := []models.Muscle{models.Chest, models.Triceps}

	cases := []struct {
		name     string
		systemic float64
		chest    float64
		want     RestAdvice
		minDays  int
	}{
		{"systemic low", 0.5, 1, RestTwoDays, 2},
		{"target muscle low", 0.9, 0.55, RestOneDay, 1},
		{"target muscle marginal", 0.9, 0.65, RestReduceVolume, 0},
		{"ready", 0.9, 0.9, RestReady, 0},
	}
	for _, tc := range cases {
		r := models.Readiness{
			Systemic: tc.systemic,
			Muscles:  map[models.Muscle]float64{models.Chest: tc.chest},
		}
		got := RecommendRest(targets, r)
		if got.Advice != tc.want || got.MinRestDays != tc.minDays {
			t.Errorf("%s: got %s/%d days, want %s/%d", tc.name, got.Advice, got.MinRestDays, tc.want, tc.minDays)
		}
	}
}

// TestEstimateRecovery verifies that fresh muscles estimate zero days and
// fatigued ones estimate more days the more fatigued they are.
func TestEstimateRecovery(t *testing.T) {
	eng := engine.New(engine.DefaultConfig())

	state := models.NewFatigueState()
	state.LocalFatigue[models.Chest] = 0.9
	state.LocalFatigue[models.Quads] = 0.4
	state.LocalFatigue[models.Calves] = 0
	state.SystemicFatigue = 0.7

	est := EstimateRecovery(eng, state)
	if est.Muscles[models.Calves] != 0 {
		t.Errorf("fresh muscle estimate = %d, want 0", est.Muscles[models.Calves])
	}
	if est.Muscles[models.Chest] <= est.Muscles[models.Quads] {
		t.Errorf("more fatigue should take longer: chest %d vs quads %d", est.Muscles[models.Chest], est.Muscles[models.Quads])
	}
	if est.Systemic <= 0 {
		t.Errorf("systemic estimate = %d, want > 0", est.Systemic)
	}
}

// TestStimulusEfficiency verifies the display ratio and its zero-fatigue
// guard.
func TestStimulusEfficiency(t *testing.T) {
	state := models.NewFatigueState()
	state.WeeklyStimulus[models.Chest] = 10
	state.LocalFatigue[models.Chest] = 0.5
	state.WeeklyStimulus[models.Lats] = 6
	// Lats carry stimulus but no recorded fatigue: epsilon guard applies.

	eff := StimulusEfficiency(state)
	if eff[models.Chest] != 20 {
		t.Errorf("chest efficiency = %v, want 20", eff[models.Chest])
	}
	if eff[models.Lats] != 600 {
		t.Errorf("lats efficiency = %v, want 600 (stimulus over epsilon)", eff[models.Lats])
	}
}
