package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for schedule resolution and forecasts.
type Metrics struct {
	// Schedule cache metrics.
	ScheduleCacheLookups *prometheus.CounterVec // labels: result={hit,miss}
	ScheduleCacheAppends prometheus.Counter

	// Catalog metrics.
	CatalogRequests        *prometheus.CounterVec // labels: outcome={ok,not_found,error}
	CatalogRequestDuration prometheus.Histogram

	// Forecast metrics.
	ForecastRequests    *prometheus.CounterVec // labels: provider, outcome={ok,error}
	ForecastAlignment   *prometheus.CounterVec // labels: result={matched,unavailable}
	ResponseCacheLookup *prometheus.CounterVec // labels: result={hit,miss}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.ScheduleCacheLookups,
		m.ScheduleCacheAppends,
		m.CatalogRequests,
		m.CatalogRequestDuration,
		m.ForecastRequests,
		m.ForecastAlignment,
		m.ResponseCacheLookup,
	)

	return m
}

// NewUnregisteredMetrics creates Metrics that no registry collects. They
// count like registered ones but are never exported.
func NewUnregisteredMetrics() *Metrics {
	return newMetrics()
}

// NewMetricsForTesting creates unregistered Metrics so tests can build as
// many as they like.
func NewMetricsForTesting() *Metrics {
	return NewUnregisteredMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ScheduleCacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "class_weather",
			Name:      "schedule_cache_lookups_total",
			Help:      "Schedule cache lookups by result.",
		}, []string{"result"}),
		ScheduleCacheAppends: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "class_weather",
			Name:      "schedule_cache_appends_total",
			Help:      "Records appended to the durable schedule logs.",
		}),
		CatalogRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "class_weather",
			Name:      "catalog_requests_total",
			Help:      "Course catalog requests by outcome.",
		}, []string{"outcome"}),
		CatalogRequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "class_weather",
			Name:      "catalog_request_duration_seconds",
			Help:      "Course catalog request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		ForecastRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "class_weather",
			Name:      "forecast_requests_total",
			Help:      "Hourly forecast lookups by provider and outcome.",
		}, []string{"provider", "outcome"}),
		ForecastAlignment: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "class_weather",
			Name:      "forecast_alignment_total",
			Help:      "Next-meeting hours matched against a forecast period.",
		}, []string{"result"}),
		ResponseCacheLookup: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "class_weather",
			Name:      "response_cache_lookups_total",
			Help:      "Weather report cache lookups by result.",
		}, []string{"result"}),
	}
}
