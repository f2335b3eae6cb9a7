package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Country is the persisted per-country snapshot produced by a refresh cycle.
// Corresponds to the countries table in PostgreSQL. The natural unique key
// is the name, matched case-insensitively.
type Country struct {
	Name            string           // natural key, case-insensitive
	Capital         *string          // nullable
	Region          *string          // nullable
	Population      int64            // >= 0
	CurrencyCode    *string          // first currency of the source record, nullable
	ExchangeRate    *decimal.Decimal // nullable; exactly 0 when the rate feed says 0
	EstimatedGDP    *decimal.Decimal // nullable; exactly 0 means "no currency" sentinel
	FlagURL         *string          // nullable
	LastRefreshedAt time.Time        // UTC, millisecond precision, shared per cycle
}

// HasKnownGDP reports whether the record carries a GDP value, including the
// explicit zero sentinel. A nil EstimatedGDP means "unknown", which sorts
// and renders differently from zero.
func (c *Country) HasKnownGDP() bool {
	return c.EstimatedGDP != nil
}
