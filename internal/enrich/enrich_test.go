package enrich

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"country-insights/internal/domain"
)

var cycleTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func testEnricher() *Enricher {
	return New(rand.New(rand.NewSource(42)))
}

func TestEnrich_NoCurrencies_ZeroSentinel(t *testing.T) {
	raw := domain.RawCountry{Name: "Antarctica", Population: 1000}

	c := testEnricher().Enrich(raw, domain.RateTable{"USD": 1}, cycleTime)

	if c.CurrencyCode != nil {
		t.Errorf("expected nil currency code, got %v", *c.CurrencyCode)
	}
	if c.ExchangeRate != nil {
		t.Errorf("expected nil exchange rate, got %v", *c.ExchangeRate)
	}
	if c.EstimatedGDP == nil {
		t.Fatal("expected explicit zero GDP, got nil")
	}
	if !c.EstimatedGDP.IsZero() {
		t.Errorf("expected GDP 0, got %v", *c.EstimatedGDP)
	}
}

func TestEnrich_FirstCurrencyMissingCode_ZeroSentinel(t *testing.T) {
	// The first descriptor wins even when a later one has a code.
	raw := domain.RawCountry{
		Name:       "Testland",
		Population: 1000,
		Currencies: []domain.Currency{
			{Name: strPtr("Mystery Money")},
			{Code: strPtr("USD")},
		},
	}

	c := testEnricher().Enrich(raw, domain.RateTable{"USD": 1}, cycleTime)

	if c.CurrencyCode != nil {
		t.Errorf("expected nil currency code, got %v", *c.CurrencyCode)
	}
	if c.EstimatedGDP == nil || !c.EstimatedGDP.IsZero() {
		t.Errorf("expected GDP 0, got %v", c.EstimatedGDP)
	}
}

func TestEnrich_CodeNotInRateTable_FullyUnknown(t *testing.T) {
	raw := domain.RawCountry{
		Name:       "Atlantis",
		Population: 500,
		Currencies: []domain.Currency{{Code: strPtr("ATL")}},
	}

	c := testEnricher().Enrich(raw, domain.RateTable{"USD": 1}, cycleTime)

	if c.CurrencyCode == nil || *c.CurrencyCode != "ATL" {
		t.Errorf("expected currency code ATL, got %v", c.CurrencyCode)
	}
	if c.ExchangeRate != nil {
		t.Errorf("expected nil exchange rate, got %v", *c.ExchangeRate)
	}
	// Unknown must never be confused with the zero sentinel.
	if c.EstimatedGDP != nil {
		t.Errorf("expected nil GDP, got %v", *c.EstimatedGDP)
	}
}

func TestEnrich_ZeroRate_DivisionGuard(t *testing.T) {
	raw := domain.RawCountry{
		Name:       "Freeport",
		Population: 12345,
		Currencies: []domain.Currency{{Code: strPtr("FRP")}},
	}

	c := testEnricher().Enrich(raw, domain.RateTable{"FRP": 0}, cycleTime)

	if c.ExchangeRate == nil || !c.ExchangeRate.IsZero() {
		t.Errorf("expected exchange rate 0, got %v", c.ExchangeRate)
	}
	if c.EstimatedGDP != nil {
		t.Errorf("expected nil GDP for zero rate, got %v", *c.EstimatedGDP)
	}
}

func TestEnrich_ZeroRateHoldsForAnyPopulation(t *testing.T) {
	e := testEnricher()
	for _, population := range []int64{0, 1, 1000, 1 << 40} {
		if gdp := e.estimateGDP(population, 0); gdp != nil {
			t.Errorf("population %d: expected nil GDP, got %v", population, *gdp)
		}
	}
}

func TestEnrich_PositiveRate_GDPWithinBounds(t *testing.T) {
	const population = 200_000_000
	const rate = 1600.0

	raw := domain.RawCountry{
		Name:       "Nigeria",
		Population: population,
		Currencies: []domain.Currency{{Code: strPtr("NGN")}},
	}

	lower := decimal.NewFromFloat(population * 1000.0 / rate)
	upper := decimal.NewFromFloat(population * 2000.0 / rate)

	e := testEnricher()
	for i := 0; i < 100; i++ {
		c := e.Enrich(raw, domain.RateTable{"NGN": rate}, cycleTime)

		if c.EstimatedGDP == nil {
			t.Fatal("expected GDP estimate, got nil")
		}
		if c.EstimatedGDP.LessThan(lower) || c.EstimatedGDP.GreaterThan(upper) {
			t.Errorf("GDP %v outside [%v, %v]", *c.EstimatedGDP, lower, upper)
		}
	}
}

func TestEnrich_GDPIsNonDeterministic(t *testing.T) {
	raw := domain.RawCountry{
		Name:       "Nigeria",
		Population: 200_000_000,
		Currencies: []domain.Currency{{Code: strPtr("NGN")}},
	}
	rates := domain.RateTable{"NGN": 1600}

	e := NewSeeded()
	first := e.Enrich(raw, rates, cycleTime).EstimatedGDP
	allEqual := true
	for i := 0; i < 10; i++ {
		gdp := e.Enrich(raw, rates, cycleTime).EstimatedGDP
		if !gdp.Equal(*first) {
			allEqual = false
			break
		}
	}

	if allEqual {
		t.Error("expected differing GDP estimates across draws with identical inputs")
	}
}

func TestEnrich_SeededRandIsDeterministic(t *testing.T) {
	raw := domain.RawCountry{
		Name:       "Nigeria",
		Population: 200_000_000,
		Currencies: []domain.Currency{{Code: strPtr("NGN")}},
	}
	rates := domain.RateTable{"NGN": 1600}

	a := New(rand.New(rand.NewSource(7))).Enrich(raw, rates, cycleTime)
	b := New(rand.New(rand.NewSource(7))).Enrich(raw, rates, cycleTime)

	if !a.EstimatedGDP.Equal(*b.EstimatedGDP) {
		t.Errorf("same seed produced %v and %v", *a.EstimatedGDP, *b.EstimatedGDP)
	}
}

func TestEnrich_CopiesDescriptiveFields(t *testing.T) {
	raw := domain.RawCountry{
		Name:       "Nigeria",
		Capital:    strPtr("Abuja"),
		Region:     strPtr("Africa"),
		Population: 200_000_000,
		Currencies: []domain.Currency{{Code: strPtr("NGN")}},
		Flag:       strPtr("https://flagcdn.com/ng.svg"),
	}

	c := testEnricher().Enrich(raw, domain.RateTable{"NGN": 1600}, cycleTime)

	if c.Name != "Nigeria" || *c.Capital != "Abuja" || *c.Region != "Africa" {
		t.Errorf("descriptive fields not copied: %+v", c)
	}
	if *c.FlagURL != "https://flagcdn.com/ng.svg" {
		t.Errorf("flag URL not copied: %v", *c.FlagURL)
	}
	if c.CurrencyCode == nil || *c.CurrencyCode != "NGN" {
		t.Errorf("expected currency NGN, got %v", c.CurrencyCode)
	}
}

func TestEnrichAll_SharedCycleTimestamp(t *testing.T) {
	raws := []domain.RawCountry{
		{Name: "A", Population: 1},
		{Name: "B", Population: 2},
		{Name: "C", Population: 3},
	}

	ts := time.Date(2025, 6, 1, 12, 0, 0, 123456789, time.UTC)
	countries := testEnricher().EnrichAll(raws, domain.RateTable{}, ts)

	want := ts.Truncate(time.Millisecond)
	for _, c := range countries {
		if !c.LastRefreshedAt.Equal(want) {
			t.Errorf("%s: timestamp %v, want %v", c.Name, c.LastRefreshedAt, want)
		}
	}
}
