package storage

import (
	"context"
	"fmt"

	"github.com/dsecrist80/workout-tracker-sub000/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// InsertExercise adds a library entry. The exercise is normalized first so
// the stored muscle roles are disjoint.
func (db *DB) InsertExercise(ctx context.Context, ex *models.Exercise) error {
	ex.Normalize()
	if ex.ID == uuid.Nil {
		ex.ID = uuid.New()
	}

	_, err := db.Pool.Exec(ctx,
		`INSERT INTO exercises (id, name, exercise_type, is_axial,
			primary_muscles, secondary_muscles, tertiary_muscles)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		ex.ID, ex.Name, string(ex.Type), ex.IsAxial,
		muscleStrings(ex.PrimaryMuscles), muscleStrings(ex.SecondaryMuscles), muscleStrings(ex.TertiaryMuscles))
	if err != nil {
		return fmt.Errorf("inserting exercise: %w", err)
	}
	return nil
}

// GetExercise fetches one library entry, or ErrNotFound.
func (db *DB) GetExercise(ctx context.Context, id uuid.UUID) (models.Exercise, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, name, exercise_type, is_axial,
			primary_muscles, secondary_muscles, tertiary_muscles
		 FROM exercises WHERE id = $1`, id)

	ex, err := scanExercise(row)
	if err == pgx.ErrNoRows {
		return models.Exercise{}, fmt.Errorf("exercise %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Exercise{}, fmt.Errorf("getting exercise: %w", err)
	}
	return ex, nil
}

// ListExercises returns the whole library ordered by name.
func (db *DB) ListExercises(ctx context.Context) ([]models.Exercise, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, exercise_type, is_axial,
			primary_muscles, secondary_muscles, tertiary_muscles
		 FROM exercises ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing exercises: %w", err)
	}
	defer rows.Close()

	var result []models.Exercise
	for rows.Next() {
		ex, err := scanExercise(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		result = append(result, ex)
	}
	return result, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExercise(row rowScanner) (models.Exercise, error) {
	var ex models.Exercise
	var typ string
	var primary, secondary, tertiary []string
	if err := row.Scan(&ex.ID, &ex.Name, &typ, &ex.IsAxial, &primary, &secondary, &tertiary); err != nil {
		return models.Exercise{}, err
	}
	ex.Type = models.ExerciseType(typ)
	ex.PrimaryMuscles = muscles(primary)
	ex.SecondaryMuscles = muscles(secondary)
	ex.TertiaryMuscles = muscles(tertiary)
	return ex, nil
}

func muscleStrings(ms []models.Muscle) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = string(m)
	}
	return out
}

func muscles(ss []string) []models.Muscle {
	out := make([]models.Muscle, len(ss))
	for i, s := range ss {
		out[i] = models.Muscle(s)
	}
	return out
}
