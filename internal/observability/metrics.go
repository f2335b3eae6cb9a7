// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Refresh pipeline metrics
	RefreshesTriggered prometheus.Counter
	RefreshesCompleted prometheus.Counter
	RefreshesFailed    *prometheus.CounterVec // by phase: precheck, fetch, persist, report
	RefreshDuration    prometheus.Histogram
	CountriesEnriched  prometheus.Counter
	RowsUpserted       prometheus.Counter

	// Source metrics
	SourceFetchLatency *prometheus.HistogramVec // by source
	SourceFetchErrors  *prometheus.CounterVec   // by source

	// Report metrics
	ReportsGenerated prometheus.Counter
	ReportErrors     prometheus.Counter

	// Health metrics
	LastSuccessfulRefresh prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "country_insights"
	}

	return &Metrics{
		RefreshesTriggered: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "triggered_total",
			Help:      "Total number of refresh cycles accepted for execution",
		}),
		RefreshesCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "completed_total",
			Help:      "Total number of refresh cycles completed successfully",
		}),
		RefreshesFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "failed_total",
			Help:      "Total number of refresh failures by phase",
		}, []string{"phase"}),
		RefreshDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "duration_seconds",
			Help:      "Detached refresh execution duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
		}),
		CountriesEnriched: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "countries_enriched_total",
			Help:      "Total number of country records enriched",
		}),
		RowsUpserted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "rows_upserted_total",
			Help:      "Total affected-row count reported by the storage engine",
		}),

		SourceFetchLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "source",
			Name:      "fetch_latency_seconds",
			Help:      "External source fetch latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
		SourceFetchErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "source",
			Name:      "fetch_errors_total",
			Help:      "Total number of external source fetch failures by source",
		}, []string{"source"}),

		ReportsGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "report",
			Name:      "generated_total",
			Help:      "Total number of summary images generated",
		}),
		ReportErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "report",
			Name:      "errors_total",
			Help:      "Total number of summary image generation failures",
		}),

		LastSuccessfulRefresh: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix timestamp of the last successful refresh cycle",
		}),
	}
}

// Handler returns the Prometheus exposition handler for /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
