package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsPrefix is the prefix used for all metrics
const MetricsPrefix = "market_pipeline_"

// Service constants
const (
	ServiceCoingecko = "coingecko"
	ServiceGemini    = "gemini"
	ServiceFetcher   = "fetcher"
	ServiceTicker    = "ticker"
)

var (
	// ProviderRequestsTotal counts outbound provider requests by status
	// Cardinality: ~8 (2 providers x 4 statuses)
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "provider_requests_total",
			Help: "Total number of HTTP requests to upstream providers",
		},
		[]string{"service", "status"},
	)

	// RetryAttemptsTotal counts HTTP retry attempts per service
	RetryAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "retry_attempts_total",
			Help: "Total number of retry attempts per service",
		},
		[]string{"service"},
	)

	// FetchCycleDuration tracks the duration of completed fetch cycles
	FetchCycleDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: MetricsPrefix + "fetch_cycle_duration_seconds",
			Help: "Time taken to resolve a selection into a fetch result",
		},
		[]string{"service"},
	)

	// SupersededCyclesTotal counts fetch cycles discarded by a newer selection
	SupersededCyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "superseded_cycles_total",
			Help: "Total number of fetch cycles discarded because a newer selection started",
		},
		[]string{"service"},
	)
)

// MetricsWriter provides a unified interface for recording service metrics
type MetricsWriter struct {
	serviceName string
}

// NewMetricsWriter creates a new MetricsWriter for the specified service
func NewMetricsWriter(serviceName string) *MetricsWriter {
	return &MetricsWriter{serviceName: serviceName}
}

// GetServiceName returns the service name
func (mw *MetricsWriter) GetServiceName() string {
	return mw.serviceName
}

// RecordRequest records an outbound provider request with its status
func (mw *MetricsWriter) RecordRequest(status string) {
	ProviderRequestsTotal.WithLabelValues(mw.serviceName, status).Inc()
}

// RecordRetryAttempt records a retry attempt
func (mw *MetricsWriter) RecordRetryAttempt() {
	RetryAttemptsTotal.WithLabelValues(mw.serviceName).Inc()
}

// RecordFetchCycle records the duration of a completed fetch cycle
func (mw *MetricsWriter) RecordFetchCycle(duration time.Duration) {
	FetchCycleDuration.WithLabelValues(mw.serviceName).Observe(duration.Seconds())
}

// RecordSupersededCycle records a fetch cycle dropped in favor of a newer one
func (mw *MetricsWriter) RecordSupersededCycle() {
	SupersededCyclesTotal.WithLabelValues(mw.serviceName).Inc()
}

// OnRequest implements the HTTP client status handler interface
func (mw *MetricsWriter) OnRequest(status string) {
	mw.RecordRequest(status)
}

// OnRetry implements the HTTP client status handler interface
func (mw *MetricsWriter) OnRetry() {
	mw.RecordRetryAttempt()
}
