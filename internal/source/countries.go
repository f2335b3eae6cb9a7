package source

import (
	"context"

	"country-insights/internal/domain"
)

// CountriesClient fetches the country directory.
type CountriesClient struct {
	getter httpGetter
}

// NewCountriesClient creates a client for the country-directory source.
func NewCountriesClient(url string, opts ...ClientOption) *CountriesClient {
	return &CountriesClient{getter: newGetter(Countries, url, opts...)}
}

// FetchAll retrieves every country record in source order.
func (c *CountriesClient) FetchAll(ctx context.Context) ([]domain.RawCountry, error) {
	var countries []domain.RawCountry
	if err := c.getter.fetch(ctx, &countries); err != nil {
		return nil, err
	}
	return countries, nil
}
