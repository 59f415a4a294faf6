package progression

import (
	"sort"

	"github.com/dsecrist80/workout-tracker-sub000/internal/models"
)

// Trend classifies the direction of a performance comparison.
type Trend string

const (
	TrendImproved Trend = "improved"
	TrendStable   Trend = "stable"
	TrendDeclined Trend = "declined"
)

// trendBand is the +/- fraction within which a session-to-session change
// counts as stable.
const trendBand = 0.05

// stepTolerance is the per-step slack allowed when classifying a multi-
// session run as monotonic.
const stepTolerance = 0.05

// flatBand is the +/- fraction within which recent volume counts as flat
// (stagnant) for progression purposes.
const flatBand = 0.15

// compare classifies cur against prev using the stable band. A zero prev
// with a positive cur is an improvement; both zero is stable.
func compare(prev, cur float64) Trend {
	if prev <= 0 {
		if cur > 0 {
			return TrendImproved
		}
		return TrendStable
	}
	switch {
	case cur > prev*(1+trendBand):
		return TrendImproved
	case cur < prev*(1-trendBand):
		return TrendDeclined
	default:
		return TrendStable
	}
}

// longTermTrend classifies the last four values. Increasing and decreasing
// require every step to be monotonic within the per-step tolerance AND the
// overall change to exceed the stable band; anything else is stable.
func longTermTrend(values []float64) Trend {
	if len(values) < 4 {
		return TrendStable
	}
	recent := values[len(values)-4:]

	nonDecreasing, nonIncreasing := true, true
	for i := 1; i < len(recent); i++ {
		prev, cur := recent[i-1], recent[i]
		if cur < prev*(1-stepTolerance) {
			nonDecreasing = false
		}
		if cur > prev*(1+stepTolerance) {
			nonIncreasing = false
		}
	}

	first, last := recent[0], recent[len(recent)-1]
	if nonDecreasing && compare(first, last) == TrendImproved {
		return TrendImproved
	}
	if nonIncreasing && compare(first, last) == TrendDeclined {
		return TrendDeclined
	}
	return TrendStable
}

// volumeFlat reports whether every value sits within the flat band around
// the mean, i.e. volume has stagnated.
func volumeFlat(values []float64) bool {
	if len(values) < 2 {
		return false
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	if mean <= 0 {
		return false
	}
	for _, v := range values {
		if v < mean*(1-flatBand) || v > mean*(1+flatBand) {
			return false
		}
	}
	return true
}

// decliningRun reports whether the last n session volumes declined at every
// step (beyond the stable band).
func decliningRun(values []float64, n int) bool {
	if len(values) < n {
		return false
	}
	recent := values[len(values)-n:]
	for i := 1; i < len(recent); i++ {
		if compare(recent[i-1], recent[i]) != TrendDeclined {
			return false
		}
	}
	return true
}

// sortHistory orders workout records oldest first, breaking date ties with
// the logging timestamp. The advisor sorts defensively so callers may pass
// history in any order.
func sortHistory(history []models.WorkoutRecord) []models.WorkoutRecord {
	out := make([]models.WorkoutRecord, len(history))
	copy(out, history)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].LoggedAt.Before(out[j].LoggedAt)
	})
	return out
}

// sessionVolumes extracts total tonnage per session, oldest first.
func sessionVolumes(history []models.WorkoutRecord) []float64 {
	out := make([]float64, len(history))
	for i, w := range history {
		out[i] = w.TotalVolume()
	}
	return out
}

// topSetVolumes extracts the top-set (max weight x reps) volume per session,
// oldest first. Sessions without sets contribute zero.
func topSetVolumes(history []models.WorkoutRecord) []float64 {
	out := make([]float64, len(history))
	for i, w := range history {
		if top, ok := w.TopSet(); ok {
			out[i] = top.Volume()
		}
	}
	return out
}
