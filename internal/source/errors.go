// Package source provides the two external data source clients: the
// country-directory client and the exchange-rate client. Each wraps one
// outbound HTTP GET with a fixed timeout; retries and circuit breaking are
// the caller's concern.
package source

import "fmt"

// Source names used in errors and metrics.
const (
	Countries = "countries"
	Rates     = "exchange_rates"
)

// SourceUnavailableError reports that an external fetch failed, naming the
// source. Covers transport errors, timeouts, non-success statuses, and
// decode failures alike.
type SourceUnavailableError struct {
	Source string
	Err    error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("source %s unavailable: %v", e.Source, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error {
	return e.Err
}
