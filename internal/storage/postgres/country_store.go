package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"country-insights/internal/domain"
	"country-insights/internal/storage"
)

// CountryStore implements storage.CountryStore using PostgreSQL.
type CountryStore struct {
	pool *Pool
}

// NewCountryStore creates a new CountryStore.
func NewCountryStore(pool *Pool) *CountryStore {
	return &CountryStore{pool: pool}
}

// Compile-time interface check.
var _ storage.CountryStore = (*CountryStore)(nil)

const countryColumns = `name, capital, region, population, currency_code, exchange_rate, estimated_gdp, flag_url, last_refreshed_at`

// UpsertBatch inserts or updates the given records in a single statement,
// keyed by lower(name). All non-key fields are overwritten on conflict.
// Returns the engine's affected-row count; PostgreSQL counts one row per
// input record whether it was inserted or updated, but callers must not
// rely on that accounting across engines.
func (s *CountryStore) UpsertBatch(ctx context.Context, countries []*domain.Country) (int64, error) {
	if len(countries) == 0 {
		return 0, nil
	}

	var sb strings.Builder
	sb.WriteString(`
		INSERT INTO countries (` + countryColumns + `) VALUES `)

	args := make([]interface{}, 0, len(countries)*9)
	for i, c := range countries {
		if c == nil || c.Name == "" {
			return 0, storage.ErrInvalidInput
		}
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 9
		sb.WriteString(fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9))
		args = append(args,
			c.Name,
			c.Capital,
			c.Region,
			c.Population,
			c.CurrencyCode,
			decimalArg(c.ExchangeRate),
			decimalArg(c.EstimatedGDP),
			c.FlagURL,
			c.LastRefreshedAt,
		)
	}

	sb.WriteString(`
		ON CONFLICT (lower(name)) DO UPDATE SET
			name = EXCLUDED.name,
			capital = EXCLUDED.capital,
			region = EXCLUDED.region,
			population = EXCLUDED.population,
			currency_code = EXCLUDED.currency_code,
			exchange_rate = EXCLUDED.exchange_rate,
			estimated_gdp = EXCLUDED.estimated_gdp,
			flag_url = EXCLUDED.flag_url,
			last_refreshed_at = EXCLUDED.last_refreshed_at`)

	tag, err := s.pool.Exec(ctx, sb.String(), args...)
	if err != nil {
		return 0, fmt.Errorf("upsert countries: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Filter retrieves records matching opts. Unknown (NULL) estimated GDP
// sorts after all known values regardless of sort direction.
func (s *CountryStore) Filter(ctx context.Context, opts storage.FilterOptions) ([]*domain.Country, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + countryColumns + ` FROM countries`)

	var args []interface{}
	var conds []string
	if opts.Region != "" {
		args = append(args, opts.Region)
		conds = append(conds, fmt.Sprintf("lower(region) = lower($%d)", len(args)))
	}
	if opts.Currency != "" {
		args = append(args, opts.Currency)
		conds = append(conds, fmt.Sprintf("upper(currency_code) = upper($%d)", len(args)))
	}
	if len(conds) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}

	switch opts.Sort {
	case storage.SortGDPAsc:
		sb.WriteString(" ORDER BY estimated_gdp ASC NULLS LAST, name ASC")
	case storage.SortGDPDesc, "":
		sb.WriteString(" ORDER BY estimated_gdp DESC NULLS LAST, name ASC")
	default:
		return nil, storage.ErrInvalidInput
	}

	rows, err := s.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("filter countries: %w", err)
	}
	defer rows.Close()

	return scanCountries(rows)
}

// GetByName retrieves one record by case-insensitive name.
func (s *CountryStore) GetByName(ctx context.Context, name string) (*domain.Country, error) {
	query := `
		SELECT ` + countryColumns + `
		FROM countries
		WHERE lower(name) = lower($1)
	`

	row := s.pool.QueryRow(ctx, query, name)
	c, err := scanCountry(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get country by name: %w", err)
	}
	return c, nil
}

// DeleteByName removes one record by case-insensitive name.
func (s *CountryStore) DeleteByName(ctx context.Context, name string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM countries WHERE lower(name) = lower($1)`, name)
	if err != nil {
		return false, fmt.Errorf("delete country by name: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Count returns the total number of records.
func (s *CountryStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM countries`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count countries: %w", err)
	}
	return count, nil
}

// LastRefreshTime returns the most recent cycle timestamp, or nil when the
// table is empty.
func (s *CountryStore) LastRefreshTime(ctx context.Context) (*time.Time, error) {
	var ts *time.Time
	if err := s.pool.QueryRow(ctx, `SELECT MAX(last_refreshed_at) FROM countries`).Scan(&ts); err != nil {
		return nil, fmt.Errorf("get last refresh time: %w", err)
	}
	if ts == nil {
		return nil, nil
	}
	utc := ts.UTC()
	return &utc, nil
}

// decimalArg converts an optional decimal into a driver argument.
func decimalArg(d *decimal.Decimal) interface{} {
	if d == nil {
		return nil
	}
	return *d
}

// scanCountry scans a single row into a Country.
func scanCountry(row pgx.Row) (*domain.Country, error) {
	var c domain.Country
	var rate, gdp decimal.NullDecimal

	err := row.Scan(
		&c.Name,
		&c.Capital,
		&c.Region,
		&c.Population,
		&c.CurrencyCode,
		&rate,
		&gdp,
		&c.FlagURL,
		&c.LastRefreshedAt,
	)
	if err != nil {
		return nil, err
	}

	if rate.Valid {
		c.ExchangeRate = &rate.Decimal
	}
	if gdp.Valid {
		c.EstimatedGDP = &gdp.Decimal
	}
	c.LastRefreshedAt = c.LastRefreshedAt.UTC()
	return &c, nil
}

// scanCountries scans multiple rows into a slice of Country.
func scanCountries(rows pgx.Rows) ([]*domain.Country, error) {
	var countries []*domain.Country

	for rows.Next() {
		c, err := scanCountry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan country row: %w", err)
		}
		countries = append(countries, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate country rows: %w", err)
	}

	return countries, nil
}
