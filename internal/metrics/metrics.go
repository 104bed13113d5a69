// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Model call outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeTimeout = "timeout"
)

var (
	// pipelineRequests counts completed pipeline runs by path and crisis flag.
	pipelineRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "calmcampus_pipeline_requests_total",
		Help: "Pipeline runs by resolution path and crisis flag",
	}, []string{"path", "crisis"})

	// modelCalls counts individual model attempts.
	modelCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "calmcampus_model_calls_total",
		Help: "Model invocation attempts by model and outcome",
	}, []string{"model", "outcome"})

	// modelCallDuration tracks per-attempt latency, including timeouts.
	modelCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "calmcampus_model_call_duration_seconds",
		Help:    "Model invocation latency in seconds",
		Buckets: prometheus.ExponentialBuckets(0.25, 2, 9), // 250ms to ~64s
	}, []string{"model"})

	// extractionFailures counts model replies that failed schema compliance.
	extractionFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "calmcampus_extraction_failures_total",
		Help: "Model replies that did not yield a valid structured response",
	})

	// announcements counts push relay sends by status.
	announcements = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "calmcampus_announcements_total",
		Help: "Announcement broadcasts by status",
	}, []string{"status"})
)

// ObservePipeline records one finished pipeline run.
func ObservePipeline(path string, crisis bool) {
	pipelineRequests.WithLabelValues(path, strconv.FormatBool(crisis)).Inc()
}

// ObserveModelCall records one model attempt.
func ObserveModelCall(model, outcome string, d time.Duration) {
	modelCalls.WithLabelValues(model, outcome).Inc()
	modelCallDuration.WithLabelValues(model).Observe(d.Seconds())
}

// ObserveExtractionFailure records a schema-compliance failure.
func ObserveExtractionFailure() {
	extractionFailures.Inc()
}

// ObserveAnnouncement records one announcement attempt.
func ObserveAnnouncement(status string) {
	announcements.WithLabelValues(status).Inc()
}
