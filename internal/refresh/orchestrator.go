// Package refresh coordinates the country refresh pipeline:
// precheck → detached fetch/enrich/persist → report.
package refresh

import (
	"context"
	"fmt"
	"log"
	"time"

	"country-insights/internal/domain"
	"country-insights/internal/enrich"
	"country-insights/internal/observability"
	"country-insights/internal/storage"
)

// CountriesSource fetches the country directory.
type CountriesSource interface {
	FetchAll(ctx context.Context) ([]domain.RawCountry, error)
}

// RatesSource fetches the exchange-rate snapshot.
type RatesSource interface {
	FetchRates(ctx context.Context) (domain.RateTable, error)
}

// Reporter renders the post-refresh summary artifact.
type Reporter interface {
	Generate(ctx context.Context, asOf time.Time) error
}

// Orchestrator drives refresh cycles. Trigger prechecks both sources in
// the caller's context, then hands the remaining work to the pool and
// returns. Execute-phase failures are logged and counted only; the
// trigger has no channel to learn of them.
type Orchestrator struct {
	countries CountriesSource
	rates     RatesSource
	persister *Persister
	reporter  Reporter
	pool      *Pool

	metrics     *observability.Metrics
	logger      *log.Logger
	now         func() time.Time
	newEnricher func() *enrich.Enricher
}

// Options for creating an Orchestrator.
type Options struct {
	Countries CountriesSource
	Rates     RatesSource
	Store     storage.CountryStore
	Reporter  Reporter
	Pool      *Pool

	// Optional
	Metrics     *observability.Metrics
	Logger      *log.Logger
	Now         func() time.Time        // injectable clock
	NewEnricher func() *enrich.Enricher // injectable randomness, one per cycle
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	o := &Orchestrator{
		countries:   opts.Countries,
		rates:       opts.Rates,
		persister:   NewPersister(opts.Store),
		reporter:    opts.Reporter,
		pool:        opts.Pool,
		metrics:     opts.Metrics,
		logger:      opts.Logger,
		now:         opts.Now,
		newEnricher: opts.NewEnricher,
	}
	if o.logger == nil {
		o.logger = log.New(log.Writer(), "[refresh] ", log.LstdFlags)
	}
	if o.now == nil {
		o.now = func() time.Time { return time.Now().UTC() }
	}
	if o.newEnricher == nil {
		o.newEnricher = enrich.NewSeeded
	}
	return o
}

// Trigger starts one refresh cycle. It synchronously probes both sources;
// if either fails it returns the *source.SourceUnavailableError without
// writing anything. On success the fetched payloads are handed to a
// detached unit of work and Trigger returns immediately.
//
// The returned channel reports the detached phase's outcome. Production
// callers ignore it; tests use it to await completion.
func (o *Orchestrator) Trigger(ctx context.Context) (<-chan error, error) {
	// Precheck: one fetch per source, in the caller's context. The
	// payloads are reused by the execute phase, so an accepted trigger
	// costs exactly one round trip per source.
	raw, err := o.fetchCountries(ctx)
	if err != nil {
		o.failPhase("precheck")
		return nil, err
	}

	rates, err := o.fetchRates(ctx)
	if err != nil {
		o.failPhase("precheck")
		return nil, err
	}

	done, err := o.pool.Submit(func(ctx context.Context) error {
		return o.execute(ctx, raw, rates)
	})
	if err != nil {
		return nil, fmt.Errorf("dispatch refresh: %w", err)
	}

	if o.metrics != nil {
		o.metrics.RefreshesTriggered.Inc()
	}
	o.logger.Printf("refresh accepted: %d countries, %d rates", len(raw), len(rates))
	return done, nil
}

// execute runs the detached phase: enrich → persist → report, all stamped
// with one cycle timestamp. Errors are logged here and surfaced only on
// the completion channel.
func (o *Orchestrator) execute(ctx context.Context, raw []domain.RawCountry, rates domain.RateTable) error {
	started := time.Now()
	cycleTime := o.now().UTC().Truncate(time.Millisecond)

	enricher := o.newEnricher()
	countries := enricher.EnrichAll(raw, rates, cycleTime)
	if o.metrics != nil {
		o.metrics.CountriesEnriched.Add(float64(len(countries)))
	}

	affected, err := o.persister.Persist(ctx, countries)
	if o.metrics != nil {
		o.metrics.RowsUpserted.Add(float64(affected))
	}
	if err != nil {
		o.failPhase("persist")
		o.logger.Printf("refresh failed during persist (prefix of %d rows may be written): %v", len(countries), err)
		return err
	}
	o.logger.Printf("persisted %d countries (%d rows affected)", len(countries), affected)

	if err := o.reporter.Generate(ctx, cycleTime); err != nil {
		// Report failure does not fail the refresh result.
		o.failPhase("report")
		if o.metrics != nil {
			o.metrics.ReportErrors.Inc()
		}
		o.logger.Printf("summary image generation failed: %v", err)
	} else if o.metrics != nil {
		o.metrics.ReportsGenerated.Inc()
	}

	if o.metrics != nil {
		o.metrics.RefreshesCompleted.Inc()
		o.metrics.RefreshDuration.Observe(time.Since(started).Seconds())
		o.metrics.LastSuccessfulRefresh.Set(float64(cycleTime.Unix()))
	}
	o.logger.Printf("refresh completed in %s", time.Since(started).Round(time.Millisecond))
	return nil
}

func (o *Orchestrator) fetchCountries(ctx context.Context) ([]domain.RawCountry, error) {
	started := time.Now()
	raw, err := o.countries.FetchAll(ctx)
	o.observeFetch("countries", started, err)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func (o *Orchestrator) fetchRates(ctx context.Context) (domain.RateTable, error) {
	started := time.Now()
	rates, err := o.rates.FetchRates(ctx)
	o.observeFetch("exchange_rates", started, err)
	if err != nil {
		return nil, err
	}
	return rates, nil
}

func (o *Orchestrator) observeFetch(source string, started time.Time, err error) {
	if o.metrics == nil {
		return
	}
	o.metrics.SourceFetchLatency.WithLabelValues(source).Observe(time.Since(started).Seconds())
	if err != nil {
		o.metrics.SourceFetchErrors.WithLabelValues(source).Inc()
	}
}

func (o *Orchestrator) failPhase(phase string) {
	if o.metrics != nil {
		o.metrics.RefreshesFailed.WithLabelValues(phase).Inc()
	}
}
