package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceObservation is one append-only row of price history. Rows are never
// updated or deleted once written.
type PriceObservation struct {
	ID         int64           `json:"id"`
	Date       string          `json:"date"` // YYYY-MM-DD
	Time       string          `json:"time"` // HH:MM:SS
	Price      decimal.Decimal `json:"price"`
	RecordedAt time.Time       `json:"recordedAt"`
}
