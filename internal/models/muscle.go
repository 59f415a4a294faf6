package models

// Muscle identifies a trainable muscle group. Values are stable strings so
// they can be persisted and used as JSON map keys without translation.
type Muscle string

const (
	Chest      Muscle = "chest"
	FrontDelts Muscle = "front_delts"
	SideDelts  Muscle = "side_delts"
	RearDelts  Muscle = "rear_delts"
	Lats       Muscle = "lats"
	UpperBack  Muscle = "upper_back"
	LowerBack  Muscle = "lower_back"
	Traps      Muscle = "traps"
	Biceps     Muscle = "biceps"
	Triceps    Muscle = "triceps"
	Forearms   Muscle = "forearms"
	Abs        Muscle = "abs"
	Quads      Muscle = "quads"
	Hamstrings Muscle = "hamstrings"
	Glutes     Muscle = "glutes"
	Calves     Muscle = "calves"
)

// AllMuscles lists every known muscle group in display order.
var AllMuscles = []Muscle{
	Chest, FrontDelts, SideDelts, RearDelts,
	Lats, UpperBack, LowerBack, Traps,
	Biceps, Triceps, Forearms, Abs,
	Quads, Hamstrings, Glutes, Calves,
}

// KnownMuscle reports whether m is one of the defined muscle groups.
func KnownMuscle(m Muscle) bool {
	for _, k := range AllMuscles {
		if k == m {
			return true
		}
	}
	return false
}
