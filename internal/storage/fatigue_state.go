package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dsecrist80/workout-tracker-sub000/internal/models"
	"github.com/jackc/pgx/v5"
)

// LoadFatigueState returns the persisted fatigue state for a user, or a
// fresh zero-fatigue state if none has been saved yet (first-ever call is
// "fully recovered", not an error).
func (db *DB) LoadFatigueState(ctx context.Context, userID int) (models.FatigueState, error) {
	var localJSON, stimulusJSON []byte
	var systemic float64
	var lastWorkout, lastUpdate *time.Time

	err := db.Pool.QueryRow(ctx,
		`SELECT local_fatigue, systemic_fatigue, weekly_stimulus,
			last_workout_date, last_update_date
		 FROM fatigue_states WHERE user_id = $1`, userID).
		Scan(&localJSON, &systemic, &stimulusJSON, &lastWorkout, &lastUpdate)
	if err == pgx.ErrNoRows {
		return models.NewFatigueState(), nil
	}
	if err != nil {
		return models.FatigueState{}, fmt.Errorf("loading fatigue state: %w", err)
	}

	state := models.NewFatigueState()
	state.SystemicFatigue = systemic
	if err := json.Unmarshal(localJSON, &state.LocalFatigue); err != nil {
		return models.FatigueState{}, fmt.Errorf("decoding local fatigue: %w", err)
	}
	if err := json.Unmarshal(stimulusJSON, &state.WeeklyStimulus); err != nil {
		return models.FatigueState{}, fmt.Errorf("decoding weekly stimulus: %w", err)
	}
	if lastWorkout != nil {
		state.LastWorkoutDate = models.DayOf(*lastWorkout)
	}
	if lastUpdate != nil {
		state.LastUpdateDate = models.DayOf(*lastUpdate)
	}
	return state, nil
}

// SaveFatigueState upserts the user's fatigue state.
func (db *DB) SaveFatigueState(ctx context.Context, userID int, state models.FatigueState) error {
	localJSON, err := json.Marshal(state.LocalFatigue)
	if err != nil {
		return fmt.Errorf("encoding local fatigue: %w", err)
	}
	stimulusJSON, err := json.Marshal(state.WeeklyStimulus)
	if err != nil {
		return fmt.Errorf("encoding weekly stimulus: %w", err)
	}

	var lastWorkout, lastUpdate *time.Time
	if !state.LastWorkoutDate.IsZero() {
		t := state.LastWorkoutDate.Time()
		lastWorkout = &t
	}
	if !state.LastUpdateDate.IsZero() {
		t := state.LastUpdateDate.Time()
		lastUpdate = &t
	}

	_, err = db.Pool.Exec(ctx,
		`INSERT INTO fatigue_states (user_id, local_fatigue, systemic_fatigue,
			weekly_stimulus, last_workout_date, last_update_date, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, now())
		 ON CONFLICT (user_id) DO UPDATE SET
			local_fatigue = EXCLUDED.local_fatigue,
			systemic_fatigue = EXCLUDED.systemic_fatigue,
			weekly_stimulus = EXCLUDED.weekly_stimulus,
			last_workout_date = EXCLUDED.last_workout_date,
			last_update_date = EXCLUDED.last_update_date,
			updated_at = now()`,
		userID, localJSON, state.SystemicFatigue, stimulusJSON, lastWorkout, lastUpdate)
	if err != nil {
		return fmt.Errorf("saving fatigue state: %w", err)
	}
	return nil
}

// ResetFatigueState deletes the user's fatigue state; the next load starts
// from zero fatigue.
func (db *DB) ResetFatigueState(ctx context.Context, userID int) error {
	if _, err := db.Pool.Exec(ctx,
		`DELETE FROM fatigue_states WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("resetting fatigue state: %w", err)
	}
	return nil
}
