package main

import (
	"country-insights/internal/domain"

	"github.com/shopspring/decimal"
)

// timestampLayout renders UTC timestamps with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// jsonCountry is the wire representation of a country record. Decimals
// serialize as strings to preserve exactness.
type jsonCountry struct {
	Name            string           `json:"name"`
	Capital         *string          `json:"capital"`
	Region          *string          `json:"region"`
	Population      int64            `json:"population"`
	CurrencyCode    *string          `json:"currency_code"`
	ExchangeRate    *decimal.Decimal `json:"exchange_rate"`
	EstimatedGDP    *decimal.Decimal `json:"estimated_gdp"`
	FlagURL         *string          `json:"flag_url"`
	LastRefreshedAt string           `json:"last_refreshed_at"`
}

func toJSONCountry(c *domain.Country) jsonCountry {
	return jsonCountry{
		Name:            c.Name,
		Capital:         c.Capital,
		Region:          c.Region,
		Population:      c.Population,
		CurrencyCode:    c.CurrencyCode,
		ExchangeRate:    c.ExchangeRate,
		EstimatedGDP:    c.EstimatedGDP,
		FlagURL:         c.FlagURL,
		LastRefreshedAt: c.LastRefreshedAt.UTC().Format(timestampLayout),
	}
}

func toJSONCountries(countries []*domain.Country) []jsonCountry {
	out := make([]jsonCountry, len(countries))
	for i, c := range countries {
		out[i] = toJSONCountry(c)
	}
	return out
}
