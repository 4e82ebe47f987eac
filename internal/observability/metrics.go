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
	// Assessment metrics
	TokensAssessed    *prometheus.CounterVec
	BatchesProcessed  prometheus.Counter
	BatchDuration     prometheus.Histogram
	PersistenceErrors *prometheus.CounterVec

	// Reference set metrics
	SafeSetSize         prometheus.Gauge
	FakeDirectorySize   prometheus.Gauge
	ReferenceLoadErrors prometheus.Counter

	// Health metrics
	LastSuccessfulRun prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "fraud_classifier"
	}

	return &Metrics{
		TokensAssessed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assessment",
			Name:      "tokens_assessed_total",
			Help:      "Total number of tokens assessed by fraud type",
		}, []string{"fraud_type"}),
		BatchesProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assessment",
			Name:      "batches_processed_total",
			Help:      "Total number of assessment batches processed",
		}),
		BatchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "assessment",
			Name:      "batch_duration_seconds",
			Help:      "Assessment batch duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		PersistenceErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "persistence_errors_total",
			Help:      "Total number of persistence errors by sink",
		}, []string{"sink"}),

		SafeSetSize: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "reference",
			Name:      "safe_set_size",
			Help:      "Number of entries in the safe token reference set",
		}),
		FakeDirectorySize: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "reference",
			Name:      "fake_directory_size",
			Help:      "Number of entries in the fake token directory",
		}),
		ReferenceLoadErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reference",
			Name:      "load_errors_total",
			Help:      "Total number of reference set load errors",
		}),

		LastSuccessfulRun: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of the last successful pipeline run",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
