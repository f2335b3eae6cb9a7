// Package main provides the country-insights service: an HTTP API over the
// country store plus the refresh pipeline that keeps it populated from the
// two external sources (country directory, exchange rates).
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"country-insights/internal/observability"
	"country-insights/internal/refresh"
	"country-insights/internal/report"
	"country-insights/internal/source"
	"country-insights/internal/storage"
	"country-insights/internal/storage/memory"
	"country-insights/internal/storage/migrations"
	pgstore "country-insights/internal/storage/postgres"
)

// Default external source endpoints, overridable via flags or env.
const (
	defaultCountriesAPI = "https://restcountries.com/v2/all?fields=name,capital,region,population,flag,currencies,independent"
	defaultRatesAPI     = "https://open.er-api.com/v6/latest/USD"
)

func main() {
	loadEnvFile()

	// Parse flags (env vars as defaults)
	listenAddr := flag.String("listen-addr", envOr("LISTEN_ADDR", ":8080"), "HTTP listen address")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	countriesAPI := flag.String("countries-api", envOr("COUNTRIES_API_URL", defaultCountriesAPI), "Country directory source URL")
	ratesAPI := flag.String("rates-api", envOr("EXCHANGE_RATES_API_URL", defaultRatesAPI), "Exchange rate source URL")
	reportPath := flag.String("report-path", envOr("REPORT_PATH", report.DefaultPath), "Summary image output path")
	workers := flag.Int("refresh-workers", 4, "Detached refresh worker count")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	if !*useMemory && *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required (use --use-memory for in-memory storage)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, cleanup, err := createStore(ctx, *postgresDSN, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create store: %v", err)
	}
	defer cleanup()

	metrics := observability.NewMetrics("")

	reporter := report.NewGenerator(store,
		report.WithPath(*reportPath),
		report.WithLogger(log.New(os.Stdout, "[report] ", log.LstdFlags)),
	)

	pool := refresh.NewPool(ctx, *workers)
	defer pool.Close()

	orchestrator := refresh.New(refresh.Options{
		Countries: source.NewCountriesClient(*countriesAPI),
		Rates:     source.NewRatesClient(*ratesAPI),
		Store:     store,
		Reporter:  reporter,
		Pool:      pool,
		Metrics:   metrics,
		Logger:    log.New(os.Stdout, "[refresh] ", log.LstdFlags),
	})

	api := &api{
		store:        store,
		orchestrator: orchestrator,
		reportPath:   *reportPath,
		logger:       logger,
	}

	srv := &http.Server{
		Addr:    *listenAddr,
		Handler: api.routes(),
	}

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Printf("HTTP shutdown error: %v", err)
		}
	}()

	logger.Printf("Listening on %s", *listenAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// createStore creates the country store and applies migrations.
func createStore(ctx context.Context, postgresDSN string, useMemory bool) (storage.CountryStore, func(), error) {
	if useMemory {
		return memory.NewCountryStore(), func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, err
	}

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}

	return pgstore.NewCountryStore(pool), pool.Close, nil
}

// envOr returns the env var value or a fallback when unset.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// loadEnvFile loads environment variables from .env file if it exists.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return // File doesn't exist, use system env vars
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Don't override existing env vars
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
