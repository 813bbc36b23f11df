package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Upstream names used as label values.
const (
	UpstreamTMDB   = "tmdb"
	UpstreamGemini = "gemini"
)

var (
	// UpstreamRequestDuration tracks outbound call latency per provider operation.
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moviesuggest_upstream_request_duration_seconds",
			Help:    "Duration of outbound provider requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"upstream", "operation"},
	)

	UpstreamRequestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviesuggest_upstream_request_errors_total",
			Help: "Total number of failed outbound provider requests",
		},
		[]string{"upstream", "operation"},
	)

	// PipelineDuration covers a whole suggest/trending/popular/providers call.
	PipelineDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moviesuggest_pipeline_duration_seconds",
			Help:    "Duration of suggestion pipeline calls in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"pipeline", "outcome"},
	)

	PipelineRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviesuggest_pipeline_records_total",
			Help: "Total number of records returned by pipeline calls",
		},
		[]string{"pipeline"},
	)

	PipelineDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviesuggest_pipeline_dropped_total",
			Help: "Total number of candidates dropped during enrichment",
		},
		[]string{"pipeline", "reason"}, // "not_found", "incomplete", "error"
	)

	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "moviesuggest_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moviesuggest_api_request_duration_seconds",
			Help:    "Duration of inbound API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// RecordUpstreamCall records one outbound request to a provider.
func RecordUpstreamCall(upstream, operation string, duration time.Duration, err error) {
	UpstreamRequestDuration.WithLabelValues(upstream, operation).Observe(duration.Seconds())
	if err != nil {
		UpstreamRequestErrors.WithLabelValues(upstream, operation).Inc()
	}
}

// RecordPipelineRun records the outcome of a pipeline call.
func RecordPipelineRun(pipeline string, records int, duration time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	PipelineDuration.WithLabelValues(pipeline, outcome).Observe(duration.Seconds())
	if records > 0 {
		PipelineRecords.WithLabelValues(pipeline).Add(float64(records))
	}
}

// RecordDropped records a candidate removed from a pipeline result.
func RecordDropped(pipeline, reason string) {
	PipelineDropped.WithLabelValues(pipeline, reason).Inc()
}

// SetBreakerState publishes a breaker state using the gobreaker numbering.
func SetBreakerState(name string, state int) {
	BreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordAPIRequest records an inbound API request.
func RecordAPIRequest(method, route string, statusCode int, duration time.Duration) {
	APIRequestDuration.WithLabelValues(method, route, strconv.Itoa(statusCode)).Observe(duration.Seconds())
}
