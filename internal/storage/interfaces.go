package storage

import (
	"context"
	"time"

	"country-insights/internal/domain"
)

// Sort orders accepted by Filter.
const (
	SortGDPAsc  = "gdp_asc"
	SortGDPDesc = "gdp_desc"
)

// FilterOptions narrows and orders Filter results. Zero values mean
// "no constraint"; an empty Sort defaults to SortGDPDesc.
type FilterOptions struct {
	Region   string
	Currency string
	Sort     string
}

// CountryStore provides access to the countries table.
//
// Name matching is case-insensitive everywhere: "Nigeria", "NIGERIA" and
// "NiGeRiA" address the same record.
type CountryStore interface {
	// UpsertBatch inserts or updates the given records in one statement,
	// keyed by case-insensitive name. All non-key fields are overwritten
	// unconditionally on conflict. Returns the engine's affected-row
	// count, which may overcount relative to distinct records touched.
	// Empty input is a no-op returning 0.
	UpsertBatch(ctx context.Context, countries []*domain.Country) (int64, error)

	// Filter retrieves records matching opts, ordered by estimated GDP.
	// Records with unknown (NULL) GDP sort after all known values in
	// both directions; the zero sentinel orders as the value 0.
	Filter(ctx context.Context, opts FilterOptions) ([]*domain.Country, error)

	// GetByName retrieves one record. Returns ErrNotFound if not exists.
	GetByName(ctx context.Context, name string) (*domain.Country, error)

	// DeleteByName removes one record. Reports whether a record existed.
	DeleteByName(ctx context.Context, name string) (bool, error)

	// Count returns the total number of records.
	Count(ctx context.Context) (int64, error)

	// LastRefreshTime returns the most recent cycle timestamp, or nil
	// when no refresh has completed yet.
	LastRefreshTime(ctx context.Context) (*time.Time, error)
}
