package domain

// RawCountry is one record from the country-directory source. It is never
// persisted; the enricher turns it into a Country.
type RawCountry struct {
	Name        string     `json:"name"`
	Capital     *string    `json:"capital"`
	Region      *string    `json:"region"`
	Population  int64      `json:"population"`
	Currencies  []Currency `json:"currencies"`
	Flag        *string    `json:"flag"`
	Independent bool       `json:"independent"` // decoded but unused downstream
}

// Currency is one currency descriptor of a RawCountry. Any field may be
// absent in the source payload.
type Currency struct {
	Code   *string `json:"code"`
	Name   *string `json:"name"`
	Symbol *string `json:"symbol"`
}

// RateTable maps currency code to exchange rate. One snapshot is taken per
// refresh cycle; rates are zero or positive.
type RateTable map[string]float64

// RateSnapshot is the exchange-rate source payload.
type RateSnapshot struct {
	Rates RateTable `json:"rates"`
}
