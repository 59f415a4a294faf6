package models

import (
	"fmt"
	"time"
)

// DayFormat is the canonical calendar-day layout used everywhere in the core.
const DayFormat = "2006-01-02"

// Day is a calendar day in the user's local timezone, with no time component.
// All date arithmetic in the fatigue model happens in whole days; callers must
// normalize timestamps to a Day before anything enters the engine.
type Day string

// ParseDay validates a YYYY-MM-DD string and returns it as a Day.
func ParseDay(s string) (Day, error) {
	if _, err := time.Parse(DayFormat, s); err != nil {
		return "", fmt.Errorf("parsing day %q: %w", s, err)
	}
	return Day(s), nil
}

// DayOf truncates a timestamp to its calendar day in the timestamp's location.
func DayOf(t time.Time) Day {
	return Day(t.Format(DayFormat))
}

// IsZero reports whether the day is unset.
func (d Day) IsZero() bool { return d == "" }

// Time returns the day as a midnight UTC timestamp. Zero days map to the
// zero time.
func (d Day) Time() time.Time {
	if d.IsZero() {
		return time.Time{}
	}
	t, err := time.Parse(DayFormat, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

// Before reports whether d falls strictly before other.
func (d Day) Before(other Day) bool {
	return d.Time().Before(other.Time())
}

// AddDays returns the day n calendar days after d (n may be negative).
func (d Day) AddDays(n int) Day {
	return DayOf(d.Time().AddDate(0, 0, n))
}

// DaysBetween returns the number of whole days between two days, always >= 0.
// Either day being unset yields 0.
func DaysBetween(from, to Day) int {
	if from.IsZero() || to.IsZero() {
		return 0
	}
	diff := to.Time().Sub(from.Time())
	if diff < 0 {
		diff = -diff
	}
	return int(diff.Hours() / 24)
}

func (d Day) String() string { return string(d) }
