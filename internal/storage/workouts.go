package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dsecrist80/workout-tracker-sub000/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// InsertWorkoutRecords persists one session's exercise records and their
// sets in a single transaction. Record IDs are assigned if missing.
func (db *DB) InsertWorkoutRecords(ctx context.Context, records []models.WorkoutRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning workout insert: %w", err)
	}
	defer tx.Rollback(ctx)

	for i := range records {
		r := &records[i]
		if r.ID == uuid.Nil {
			r.ID = uuid.New()
		}
		if r.LoggedAt.IsZero() {
			r.LoggedAt = time.Now()
		}

		_, err := tx.Exec(ctx,
			`INSERT INTO workout_records (id, user_id, exercise_id, exercise_name,
				session_date, exercise_type, is_axial,
				primary_muscles, secondary_muscles, tertiary_muscles, logged_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
			r.ID, r.UserID, r.ExerciseID, r.ExerciseName,
			r.Date.Time(), string(r.Type), r.IsAxial,
			muscleStrings(r.PrimaryMuscles), muscleStrings(r.SecondaryMuscles), muscleStrings(r.TertiaryMuscles),
			r.LoggedAt)
		if err != nil {
			return fmt.Errorf("inserting workout record: %w", err)
		}

		if err := insertSets(ctx, tx, r.ID, r.Sets); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// insertSets batch-inserts one record's sets.
func insertSets(ctx context.Context, tx pgx.Tx, recordID uuid.UUID, sets []models.Set) error {
	if len(sets) == 0 {
		return nil
	}

	query := `INSERT INTO workout_sets (record_id, set_number, weight_kg, reps, rir) VALUES `
	args := make([]any, 0, len(sets)*5)
	values := make([]string, 0, len(sets))
	for i, s := range sets {
		base := i * 5
		values = append(values, fmt.Sprintf("($%d,$%d,$%d,$%d,$%d)", base+1, base+2, base+3, base+4, base+5))
		args = append(args, recordID, i+1, s.WeightKg, s.Reps, s.RIR)
	}
	if _, err := tx.Exec(ctx, query+strings.Join(values, ","), args...); err != nil {
		return fmt.Errorf("inserting workout sets: %w", err)
	}
	return nil
}

// ExerciseHistory returns the most recent workout records for one exercise,
// oldest first, capped at limit sessions.
func (db *DB) ExerciseHistory(ctx context.Context, userID int, exerciseID uuid.UUID, limit int) ([]models.WorkoutRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, exercise_id, exercise_name, session_date,
			exercise_type, is_axial, primary_muscles, secondary_muscles,
			tertiary_muscles, logged_at
		 FROM workout_records
		 WHERE user_id = $1 AND exercise_id = $2
		 ORDER BY session_date DESC, logged_at DESC
		 LIMIT $3`,
		userID, exerciseID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying exercise history: %w", err)
	}
	records, err := db.collectRecords(ctx, rows)
	if err != nil {
		return nil, err
	}
	reverse(records)
	return records, nil
}

// RecentWorkouts returns all workout records since the given day, oldest
// first, with their sets attached.
func (db *DB) RecentWorkouts(ctx context.Context, userID int, since models.Day) ([]models.WorkoutRecord, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, exercise_id, exercise_name, session_date,
			exercise_type, is_axial, primary_muscles, secondary_muscles,
			tertiary_muscles, logged_at
		 FROM workout_records
		 WHERE user_id = $1 AND session_date >= $2
		 ORDER BY session_date ASC, logged_at ASC`,
		userID, since.Time())
	if err != nil {
		return nil, fmt.Errorf("querying recent workouts: %w", err)
	}
	return db.collectRecords(ctx, rows)
}

// CountTrainingDays counts the unique calendar days with logged workouts in
// the trailing window ending today.
func (db *DB) CountTrainingDays(ctx context.Context, userID int, since models.Day) (int, error) {
	var count int
	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(DISTINCT session_date) FROM workout_records
		 WHERE user_id = $1 AND session_date >= $2`,
		userID, since.Time()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting training days: %w", err)
	}
	return count, nil
}

func (db *DB) collectRecords(ctx context.Context, rows pgx.Rows) ([]models.WorkoutRecord, error) {
	defer rows.Close()

	var records []models.WorkoutRecord
	for rows.Next() {
		var r models.WorkoutRecord
		var date time.Time
		var typ string
		var primary, secondary, tertiary []string
		if err := rows.Scan(&r.ID, &r.UserID, &r.ExerciseID, &r.ExerciseName, &date,
			&typ, &r.IsAxial, &primary, &secondary, &tertiary, &r.LoggedAt); err != nil {
			return nil, fmt.Errorf("scanning workout record: %w", err)
		}
		r.Date = models.DayOf(date)
		r.Type = models.ExerciseType(typ)
		r.PrimaryMuscles = muscles(primary)
		r.SecondaryMuscles = muscles(secondary)
		r.TertiaryMuscles = muscles(tertiary)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range records {
		sets, err := db.recordSets(ctx, records[i].ID)
		if err != nil {
			return nil, err
		}
		records[i].Sets = sets
	}
	return records, nil
}

func (db *DB) recordSets(ctx context.Context, recordID uuid.UUID) ([]models.Set, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT weight_kg, reps, rir FROM workout_sets
		 WHERE record_id = $1 ORDER BY set_number ASC`, recordID)
	if err != nil {
		return nil, fmt.Errorf("querying sets: %w", err)
	}
	defer rows.Close()

	var sets []models.Set
	for rows.Next() {
		var s models.Set
		if err := rows.Scan(&s.WeightKg, &s.Reps, &s.RIR); err != nil {
			return nil, fmt.Errorf("scanning set: %w", err)
		}
		sets = append(sets, s)
	}
	return sets, rows.Err()
}

func reverse(records []models.WorkoutRecord) {
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
}
