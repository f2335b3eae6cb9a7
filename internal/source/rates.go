package source

import (
	"context"

	"country-insights/internal/domain"
)

// RatesClient fetches the exchange-rate snapshot.
type RatesClient struct {
	getter httpGetter
}

// NewRatesClient creates a client for the exchange-rate source.
func NewRatesClient(url string, opts ...ClientOption) *RatesClient {
	return &RatesClient{getter: newGetter(Rates, url, opts...)}
}

// FetchRates retrieves the current rate table, one snapshot per call.
func (c *RatesClient) FetchRates(ctx context.Context) (domain.RateTable, error) {
	var snapshot domain.RateSnapshot
	if err := c.getter.fetch(ctx, &snapshot); err != nil {
		return nil, err
	}
	if snapshot.Rates == nil {
		snapshot.Rates = domain.RateTable{}
	}
	return snapshot.Rates, nil
}
