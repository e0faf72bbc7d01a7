package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mhargreave/mattress-tracker/internal/models"
)

const priceSchema = `
CREATE TABLE IF NOT EXISTS price_history (
	id            BIGSERIAL PRIMARY KEY,
	observed_date DATE NOT NULL,
	observed_time TIME NOT NULL,
	price         NUMERIC(10,2) NOT NULL,
	recorded_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_price_history_recorded_at
	ON price_history (recorded_at DESC);
`

// PriceRepo persists price observations. Rows are append-only: nothing in
// the tracker ever updates or deletes price history.
type PriceRepo struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

func NewPriceRepo(pool *pgxpool.Pool, log zerolog.Logger) *PriceRepo {
	return &PriceRepo{pool: pool, log: log.With().Str("component", "price_repo").Logger()}
}

// EnsureSchema is idempotent and safe to run on every startup. Existing data
// is never touched.
func (r *PriceRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, priceSchema); err != nil {
		return fmt.Errorf("ensure price_history schema: %w", err)
	}
	return nil
}

// Record inserts one observation taken at ts. The insert is a single
// statement, so a row is either fully written or not written at all.
func (r *PriceRepo) Record(ctx context.Context, price decimal.Decimal, ts time.Time) (*models.PriceObservation, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO price_history (observed_date, observed_time, price, recorded_at)
		 VALUES ($1::date, $2::time, $3::numeric, $4)
		 RETURNING id, observed_date, observed_time::text, price::text, recorded_at`,
		ts.Format("2006-01-02"), ts.Format("15:04:05"), price.StringFixed(2), ts,
	)
	obs, err := scanObservation(row)
	if err != nil {
		return nil, fmt.Errorf("record price: %w", err)
	}
	r.log.Debug().Str("price", obs.Price.StringFixed(2)).Str("date", obs.Date).Msg("observation recorded")
	return obs, nil
}

// Latest returns the most recently recorded observation, or nil when the
// store is empty.
func (r *PriceRepo) Latest(ctx context.Context) (*models.PriceObservation, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, observed_date, observed_time::text, price::text, recorded_at
		 FROM price_history ORDER BY recorded_at DESC LIMIT 1`,
	)
	obs, err := scanObservation(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest price: %w", err)
	}
	return obs, nil
}

// History returns all observations newest-first by (date, time). An empty
// store yields an empty slice, not an error.
func (r *PriceRepo) History(ctx context.Context) ([]models.PriceObservation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, observed_date, observed_time::text, price::text, recorded_at
		 FROM price_history ORDER BY observed_date DESC, observed_time DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("price history: %w", err)
	}
	defer rows.Close()

	out := []models.PriceObservation{}
	for rows.Next() {
		var obs models.PriceObservation
		var day time.Time
		var priceStr string
		if err := rows.Scan(&obs.ID, &day, &obs.Time, &priceStr, &obs.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan price row: %w", err)
		}
		obs.Date = day.Format("2006-01-02")
		if obs.Price, err = decimal.NewFromString(priceStr); err != nil {
			return nil, fmt.Errorf("parse stored price %q: %w", priceStr, err)
		}
		out = append(out, obs)
	}
	return out, rows.Err()
}

func scanObservation(row pgx.Row) (*models.PriceObservation, error) {
	var obs models.PriceObservation
	var day time.Time
	var priceStr string
	if err := row.Scan(&obs.ID, &day, &obs.Time, &priceStr, &obs.RecordedAt); err != nil {
		return nil, err
	}
	obs.Date = day.Format("2006-01-02")
	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return nil, fmt.Errorf("parse stored price %q: %w", priceStr, err)
	}
	obs.Price = price
	return &obs, nil
}
