// Package enrich joins raw country records against a rate table to derive
// currency code, exchange rate, and an estimated-GDP value.
package enrich

import (
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"country-insights/internal/domain"
)

// GDP multiplier bounds: each estimate draws uniformly from [1000, 2000).
const (
	multiplierMin = 1000.0
	multiplierMax = 2000.0
)

// Rand is the randomness source for GDP estimation. *rand.Rand satisfies
// it; tests inject a seeded instance for deterministic assertions.
type Rand interface {
	Float64() float64
}

// Enricher transforms RawCountry records into persistable Country records.
// It is stateless apart from the injected randomness source and safe for
// sequential use within one refresh cycle. rand.Rand is not goroutine-safe,
// so each cycle gets its own Enricher.
type Enricher struct {
	rng Rand
}

// New creates an Enricher with the given randomness source.
func New(rng Rand) *Enricher {
	return &Enricher{rng: rng}
}

// NewSeeded creates a production Enricher seeded from the clock.
func NewSeeded() *Enricher {
	return New(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// Enrich joins one raw record against the rate table and stamps it with
// the cycle timestamp. Rules:
//   - no currencies, or first currency has no code: currency and rate are
//     absent, GDP is an explicit zero ("economically inert")
//   - code absent from the rate table: rate and GDP are both absent
//   - rate exactly zero: rate is recorded, GDP absent (division guard)
//   - otherwise GDP = population * U[1000,2000) / rate, re-drawn on every
//     call, so repeated cycles over unchanged inputs differ
//
// The first currency descriptor in source order wins; later entries are
// ignored.
func (e *Enricher) Enrich(raw domain.RawCountry, rates domain.RateTable, cycleTime time.Time) *domain.Country {
	c := &domain.Country{
		Name:            raw.Name,
		Capital:         raw.Capital,
		Region:          raw.Region,
		Population:      raw.Population,
		FlagURL:         raw.Flag,
		LastRefreshedAt: cycleTime.UTC().Truncate(time.Millisecond),
	}

	code := firstCurrencyCode(raw.Currencies)
	if code == "" {
		zero := decimal.Zero
		c.EstimatedGDP = &zero
		return c
	}

	c.CurrencyCode = &code

	rate, ok := rates[code]
	if !ok {
		return c
	}

	rateDec := decimal.NewFromFloat(rate)
	c.ExchangeRate = &rateDec
	c.EstimatedGDP = e.estimateGDP(raw.Population, rate)
	return c
}

// EnrichAll enriches every raw record with a shared cycle timestamp,
// preserving source order.
func (e *Enricher) EnrichAll(raw []domain.RawCountry, rates domain.RateTable, cycleTime time.Time) []*domain.Country {
	countries := make([]*domain.Country, len(raw))
	for i, r := range raw {
		countries[i] = e.Enrich(r, rates, cycleTime)
	}
	return countries
}

// estimateGDP draws a fresh multiplier and computes population*mult/rate.
// A zero rate yields no estimate.
func (e *Enricher) estimateGDP(population int64, rate float64) *decimal.Decimal {
	if rate == 0 {
		return nil
	}

	multiplier := multiplierMin + e.rng.Float64()*(multiplierMax-multiplierMin)
	gdp := decimal.NewFromFloat(float64(population) * multiplier / rate)
	return &gdp
}

// firstCurrencyCode returns the code of the first descriptor carrying one,
// or "" when the list is empty or the first descriptor has no usable code.
func firstCurrencyCode(currencies []domain.Currency) string {
	if len(currencies) == 0 {
		return ""
	}
	first := currencies[0]
	if first.Code == nil {
		return ""
	}
	return *first.Code
}
