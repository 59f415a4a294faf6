package engine

import (
	"math"
	"testing"

	"github.com/dsecrist80/workout-tracker-sub000/internal/models"
)

func stateWithFatigue(local float64, systemic float64) models.FatigueState {
	s := models.NewFatigueState()
	s.LocalFatigue[models.Chest] = local
	s.LocalFatigue[models.Quads] = local / 2
	s.SystemicFatigue = systemic
	s.WeeklyStimulus[models.Chest] = 10
	s.LastUpdateDate = "2024-01-01"
	return s
}

// TestRecoverSevenDays verifies the reference decay scenario: fatigue 0.5
// decays to 0.5 * 0.85^7 over seven days at the default local rate.
func TestRecoverSevenDays(t *testing.T) {
	cfg := DefaultConfig()
	eng := New(cfg)
	state := stateWithFatigue(0.5, 0.5)

	out := eng.Recover(state, "2024-01-01", "2024-01-08", 0)

	wantLocal := 0.5 * math.Pow(1-cfg.LocalRecoveryRate, 7)
	if !almostEqual(out.LocalFatigue[models.Chest], wantLocal) {
		t.Errorf("local fatigue = %v, want %v", out.LocalFatigue[models.Chest], wantLocal)
	}
	wantSystemic := 0.5 * math.Pow(1-cfg.SystemicRecoveryRate, 7)
	if !almostEqual(out.SystemicFatigue, wantSystemic) {
		t.Errorf("systemic fatigue = %v, want %v", out.SystemicFatigue, wantSystemic)
	}
	wantStimulus := 10 * math.Pow(1-cfg.StimulusDecayRate, 7)
	if !almostEqual(out.WeeklyStimulus[models.Chest], wantStimulus) {
		t.Errorf("weekly stimulus = %v, want %v", out.WeeklyStimulus[models.Chest], wantStimulus)
	}
}

// TestRecoverZeroDaysIdempotent verifies that recovering from a day to the
// same day leaves the state unchanged.
func TestRecoverZeroDaysIdempotent(t *testing.T) {
	eng := New(DefaultConfig())
	state := stateWithFatigue(0.5, 0.4)

	out := eng.Recover(state, "2024-01-05", "2024-01-05", 0)

	if out.LocalFatigue[models.Chest] != 0.5 || out.LocalFatigue[models.Quads] != 0.25 {
		t.Errorf("local fatigue changed: %v", out.LocalFatigue)
	}
	if out.SystemicFatigue != 0.4 {
		t.Errorf("systemic fatigue changed: %v", out.SystemicFatigue)
	}
	if out.WeeklyStimulus[models.Chest] != 10 {
		t.Errorf("stimulus changed: %v", out.WeeklyStimulus[models.Chest])
	}
}

// TestRecoverMissingFromDate verifies that an unset reference date yields no
// decay rather than an error or a huge elapsed span.
func TestRecoverMissingFromDate(t *testing.T) {
	eng := New(DefaultConfig())
	state := stateWithFatigue(0.5, 0.4)

	out := eng.Recover(state, "", "2024-06-01", 0)
	if out.LocalFatigue[models.Chest] != 0.5 || out.SystemicFatigue != 0.4 {
		t.Errorf("state changed with missing from date: %+v", out)
	}
}

// TestRecoverMonotonicDecay verifies that more elapsed days never yields
// more remaining fatigue, for every muscle and for systemic fatigue.
func TestRecoverMonotonicDecay(t *testing.T) {
	eng := New(DefaultConfig())
	state := stateWithFatigue(0.9, 0.8)
	from := models.Day("2024-01-01")

	prev := state
	for days := 1; days <= 30; days++ {
		out := eng.Recover(state, from, from.AddDays(days), 0)
		for m, f := range out.LocalFatigue {
			if f > prev.LocalFatigue[m]+epsilon {
				t.Fatalf("day %d: %s fatigue %v > previous %v", days, m, f, prev.LocalFatigue[m])
			}
		}
		if out.SystemicFatigue > prev.SystemicFatigue+epsilon {
			t.Fatalf("day %d: systemic %v > previous %v", days, out.SystemicFatigue, prev.SystemicFatigue)
		}
		prev = out
	}
}

// TestRecoverRestDayBonus verifies that scheduled rest days recover at least
// as much as ordinary elapsed days, and monotonically more as the count of
// rest days grows.
func TestRecoverRestDayBonus(t *testing.T) {
	eng := New(DefaultConfig())
	state := stateWithFatigue(0.8, 0.8)

	prev := math.Inf(1)
	for restDays := 0; restDays <= 5; restDays++ {
		out := eng.Recover(state, "2024-01-01", "2024-01-06", restDays)
		got := out.LocalFatigue[models.Chest]
		if got > prev+epsilon {
			t.Fatalf("restDays=%d: fatigue %v > fatigue with fewer rest days %v", restDays, got, prev)
		}
		prev = got
	}
}

// TestDecayWeeklyStimulusFloor verifies stimulus decays toward but never
// below zero and that the input map is left untouched.
func TestDecayWeeklyStimulusFloor(t *testing.T) {
	eng := New(DefaultConfig())
	in := map[models.Muscle]float64{models.Lats: 8}

	out := eng.DecayWeeklyStimulus(in, 365)
	if out[models.Lats] < 0 {
		t.Errorf("stimulus went negative: %v", out[models.Lats])
	}
	if in[models.Lats] != 8 {
		t.Errorf("input map mutated: %v", in[models.Lats])
	}
}

// TestRecoveryDaysGuards verifies the log-domain guards: zero, negative, and
// already-recovered fatigue all map to 0 days without panicking.
func TestRecoveryDaysGuards(t *testing.T) {
	eng := New(DefaultConfig())

	cases := []struct {
		name    string
		fatigue float64
		rate    float64
		want    int
	}{
		{"zero fatigue", 0, 0.15, 0},
		{"negative fatigue", -0.5, 0.15, 0},
		{"below target floor", 0.05, 0.15, 0},
		{"zero rate", 0.9, 0, 0},
	}
	for _, tc := range cases {
		if got := eng.RecoveryDays(tc.fatigue, tc.rate); got != tc.want {
			t.Errorf("%s: RecoveryDays = %d, want %d", tc.name, got, tc.want)
		}
	}

	if got := eng.RecoveryDays(0.9, 0.15); got <= 0 {
		t.Errorf("high fatigue: RecoveryDays = %d, want > 0", got)
	}
}
