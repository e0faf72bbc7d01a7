package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/mhargreave/mattress-tracker/internal/models"
)

const scheduleSchema = `
CREATE TABLE IF NOT EXISTS schedule (
	id         SMALLINT PRIMARY KEY,
	check_time TEXT NOT NULL,
	enabled    BOOLEAN NOT NULL
);
`

// singletonID keys the one-and-only schedule row.
const singletonID = 1

// ScheduleRepo persists the daily-check schedule as a single upserted row.
type ScheduleRepo struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

func NewScheduleRepo(pool *pgxpool.Pool, log zerolog.Logger) *ScheduleRepo {
	return &ScheduleRepo{pool: pool, log: log.With().Str("component", "schedule_repo").Logger()}
}

func (r *ScheduleRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, scheduleSchema); err != nil {
		return fmt.Errorf("ensure schedule schema: %w", err)
	}
	return nil
}

// Load returns the persisted schedule. A missing row or a read fault both
// degrade to the built-in default (09:00, enabled); the fault is logged but
// never surfaced, since a usable default keeps the tracker running.
func (r *ScheduleRepo) Load(ctx context.Context) models.Schedule {
	var s models.Schedule
	err := r.pool.QueryRow(ctx,
		`SELECT check_time, enabled FROM schedule WHERE id = $1`, singletonID,
	).Scan(&s.CheckTime, &s.Enabled)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			r.log.Warn().Err(err).Msg("schedule load failed, using defaults")
		}
		return models.DefaultSchedule()
	}

	norm, err := models.NormalizeCheckTime(s.CheckTime)
	if err != nil {
		r.log.Warn().Err(err).Str("check_time", s.CheckTime).Msg("stored check time invalid, using defaults")
		return models.DefaultSchedule()
	}
	s.CheckTime = norm
	return s
}

// Save upserts the singleton row. Both fields travel in one statement so a
// reader can never observe a new time paired with a stale enabled flag.
func (r *ScheduleRepo) Save(ctx context.Context, s models.Schedule) error {
	norm, err := models.NormalizeCheckTime(s.CheckTime)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO schedule (id, check_time, enabled) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE
		 SET check_time = EXCLUDED.check_time, enabled = EXCLUDED.enabled`,
		singletonID, norm, s.Enabled,
	)
	if err != nil {
		return fmt.Errorf("save schedule: %w", err)
	}
	r.log.Info().Str("check_time", norm).Bool("enabled", s.Enabled).Msg("schedule saved")
	return nil
}
