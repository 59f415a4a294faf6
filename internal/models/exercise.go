package models

import (
	"strings"

	"github.com/google/uuid"
)

// ExerciseType classifies an exercise for fatigue and progression purposes.
// Compound movements accrue more fatigue per set; upper/lower determines the
// weight increment used when progression recommends adding load.
type ExerciseType string

const (
	CompoundUpper  ExerciseType = "compound_upper"
	CompoundLower  ExerciseType = "compound_lower"
	IsolationUpper ExerciseType = "isolation_upper"
	IsolationLower ExerciseType = "isolation_lower"
)

// IsCompound reports whether the type is a compound movement.
func (t ExerciseType) IsCompound() bool {
	return strings.HasPrefix(string(t), "compound")
}

// IsLower reports whether the type targets the lower body.
func (t ExerciseType) IsLower() bool {
	return strings.HasSuffix(string(t), "_lower")
}

// Valid reports whether t is one of the four defined types.
func (t ExerciseType) Valid() bool {
	switch t {
	case CompoundUpper, CompoundLower, IsolationUpper, IsolationLower:
		return true
	}
	return false
}

// Exercise is a library entry describing a movement. The primary, secondary,
// and tertiary muscle sets are disjoint: assigning a muscle to one role
// removes it from the others (enforced by Normalize, assumed by the engine).
type Exercise struct {
	ID               uuid.UUID    `json:"id"`
	Name             string       `json:"name"`
	Type             ExerciseType `json:"type"`
	IsAxial          bool         `json:"is_axial"`
	PrimaryMuscles   []Muscle     `json:"primary_muscles"`
	SecondaryMuscles []Muscle     `json:"secondary_muscles"`
	TertiaryMuscles  []Muscle     `json:"tertiary_muscles"`
}

// Normalize enforces role disjointness: a muscle listed as primary is removed
// from secondary and tertiary, and a secondary muscle is removed from
// tertiary. Duplicates within a role are collapsed.
func (e *Exercise) Normalize() {
	e.PrimaryMuscles = dedupe(e.PrimaryMuscles, nil)
	e.SecondaryMuscles = dedupe(e.SecondaryMuscles, e.PrimaryMuscles)
	e.TertiaryMuscles = dedupe(e.TertiaryMuscles, append(e.PrimaryMuscles, e.SecondaryMuscles...))
}

func dedupe(muscles, exclude []Muscle) []Muscle {
	seen := make(map[Muscle]bool, len(exclude))
	for _, m := range exclude {
		seen[m] = true
	}
	out := muscles[:0]
	for _, m := range muscles {
		if seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}
