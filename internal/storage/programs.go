package storage

import (
	"context"
	"fmt"

	"github.com/dsecrist80/workout-tracker-sub000/internal/models"
	"github.com/jackc/pgx/v5"
)

// GetProgram returns the user's active training program cadence, or nil when
// no program is configured (recovery then runs without the rest-day bonus).
func (db *DB) GetProgram(ctx context.Context, userID int) (*models.ProgramContext, error) {
	var p models.ProgramContext
	err := db.Pool.QueryRow(ctx,
		`SELECT rest_days_per_cycle, cycle_days FROM programs
		 WHERE user_id = $1 AND active`, userID).
		Scan(&p.RestDaysPerCycle, &p.CycleDays)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading program: %w", err)
	}
	return &p, nil
}

// SaveProgram replaces the user's active program cadence.
func (db *DB) SaveProgram(ctx context.Context, userID int, p models.ProgramContext) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning program save: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE programs SET active = false WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("deactivating programs: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO programs (user_id, rest_days_per_cycle, cycle_days, active)
		 VALUES ($1, $2, $3, true)`,
		userID, p.RestDaysPerCycle, p.CycleDays); err != nil {
		return fmt.Errorf("inserting program: %w", err)
	}
	return tx.Commit(ctx)
}
