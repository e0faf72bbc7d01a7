// Package checker runs one price check: fetch the current price, append it
// to history, then notify subscribers.
package checker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mhargreave/mattress-tracker/internal/models"
)

var (
	ErrFetch = errors.New("price fetch failed")
	ErrStore = errors.New("price history update failed")
)

type PriceFetcher interface {
	FetchPrice(ctx context.Context) (decimal.Decimal, error)
}

type PriceRecorder interface {
	Record(ctx context.Context, price decimal.Decimal, ts time.Time) (*models.PriceObservation, error)
}

type Notifier interface {
	Notify(ctx context.Context, price decimal.Decimal) error
}

// Result reports one completed run. NotifyErr is set when the observation
// was stored but the notification could not be delivered.
type Result struct {
	Observation *models.PriceObservation
	NotifyErr   error
}

type Job struct {
	source   PriceFetcher
	prices   PriceRecorder
	notifier Notifier
	now      func() time.Time
	log      zerolog.Logger
}

func NewJob(source PriceFetcher, prices PriceRecorder, notifier Notifier, log zerolog.Logger) *Job {
	return &Job{
		source:   source,
		prices:   prices,
		notifier: notifier,
		now:      time.Now,
		log:      log.With().Str("component", "price_check").Logger(),
	}
}

// Run performs a single attempt, strictly ordered fetch -> persist -> notify.
// A fetch failure writes nothing and notifies nobody; a store failure
// notifies nobody. A notify failure is carried in the Result: history is the
// source of truth and an already-persisted row is never rolled back.
// Retries, if wanted, belong to the caller's next poll cycle.
func (j *Job) Run(ctx context.Context) (*Result, error) {
	j.log.Info().Msg("starting price check")

	price, err := j.source.FetchPrice(ctx)
	if err != nil {
		j.log.Error().Err(err).Msg("price check aborted, fetch failed")
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	obs, err := j.prices.Record(ctx, price, j.now())
	if err != nil {
		j.log.Error().Err(err).Str("price", price.StringFixed(2)).Msg("price check aborted, store failed")
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}

	res := &Result{Observation: obs}
	if err := j.notifier.Notify(ctx, price); err != nil {
		// Best-effort: the row stays, the failure is reported.
		j.log.Warn().Err(err).Msg("notification failed")
		res.NotifyErr = err
		return res, nil
	}

	j.log.Info().Str("price", price.StringFixed(2)).Msg("price check complete, notification sent")
	return res, nil
}
