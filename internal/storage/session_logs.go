package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dsecrist80/workout-tracker-sub000/internal/models"
	"github.com/jackc/pgx/v5"
)

// SessionLog is the per-day subjective record: perceived exertion, soreness,
// and whether the day was a rest day. One row per user per calendar day;
// re-logging a day overwrites it.
type SessionLog struct {
	UserID           int                       `json:"user_id"`
	Date             models.Day                `json:"date"`
	PerceivedFatigue float64                   `json:"perceived_fatigue"`
	Soreness         map[models.Muscle]float64 `json:"soreness,omitempty"`
	IsRestDay        bool                      `json:"is_rest_day"`
}

// SaveSessionLog upserts the subjective observations for one day.
func (db *DB) SaveSessionLog(ctx context.Context, log SessionLog) error {
	sorenessJSON, err := json.Marshal(log.Soreness)
	if err != nil {
		return fmt.Errorf("encoding soreness: %w", err)
	}

	_, err = db.Pool.Exec(ctx,
		`INSERT INTO session_logs (user_id, session_date, perceived_fatigue, soreness, is_rest_day)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id, session_date) DO UPDATE SET
			perceived_fatigue = EXCLUDED.perceived_fatigue,
			soreness = EXCLUDED.soreness,
			is_rest_day = EXCLUDED.is_rest_day`,
		log.UserID, log.Date.Time(), log.PerceivedFatigue, sorenessJSON, log.IsRestDay)
	if err != nil {
		return fmt.Errorf("saving session log: %w", err)
	}
	return nil
}

// LatestSessionLog returns the most recent session log, or ErrNotFound.
func (db *DB) LatestSessionLog(ctx context.Context, userID int) (SessionLog, error) {
	var log SessionLog
	var date time.Time
	var sorenessJSON []byte

	err := db.Pool.QueryRow(ctx,
		`SELECT user_id, session_date, perceived_fatigue, soreness, is_rest_day
		 FROM session_logs WHERE user_id = $1
		 ORDER BY session_date DESC LIMIT 1`, userID).
		Scan(&log.UserID, &date, &log.PerceivedFatigue, &sorenessJSON, &log.IsRestDay)
	if err == pgx.ErrNoRows {
		return SessionLog{}, ErrNotFound
	}
	if err != nil {
		return SessionLog{}, fmt.Errorf("loading latest session log: %w", err)
	}

	log.Date = models.DayOf(date)
	if err := json.Unmarshal(sorenessJSON, &log.Soreness); err != nil {
		return SessionLog{}, fmt.Errorf("decoding soreness: %w", err)
	}
	return log, nil
}
