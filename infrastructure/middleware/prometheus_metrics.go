// Package middleware provides cross-cutting concerns for the scoring
// engine: Prometheus metrics and OpenTelemetry tracing layered over
// the assessment service port.
package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ahrav/go-scorecard/internal/ports"
)

// Verify interface compliance at compile time.
var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)

// PrometheusMetrics implements the MetricsCollector interface using
// Prometheus. It provides real-time monitoring of lifecycle operation
// rates, latencies, score distributions, and open-assessment counts.
type PrometheusMetrics struct {
	operationLatency *prometheus.HistogramVec
	operationCounter *prometheus.CounterVec
	stateGauges      *prometheus.GaugeVec
	scoreHistogram   *prometheus.HistogramVec
}

// NewPrometheusMetrics creates a PrometheusMetrics instance and
// registers all metrics in the global Prometheus registry.
func NewPrometheusMetrics() *PrometheusMetrics {
	return &PrometheusMetrics{
		operationLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "assessment_operation_duration_seconds",
				Help:    "Execution time of assessment lifecycle operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		operationCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assessment_operations_total",
				Help: "Total number of assessment lifecycle operations by outcome.",
			},
			[]string{"operation", "status"},
		),
		stateGauges: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "assessment_state",
				Help: "Current state values for the assessment engine.",
			},
			[]string{"metric"},
		),
		scoreHistogram: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "assessment_overall_score",
				Help:    "Distribution of computed overall assessment scores.",
				Buckets: prometheus.LinearBuckets(0, 10, 11),
			},
			[]string{"metric"},
		),
	}
}

// RecordLatency records the execution time of a lifecycle operation.
func (pm *PrometheusMetrics) RecordLatency(
	operation string,
	duration time.Duration,
	_ map[string]string,
) {
	pm.operationLatency.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordCounter increments an operation counter. The status label is
// taken from labels, defaulting to "unknown".
func (pm *PrometheusMetrics) RecordCounter(metric string, value float64, labels map[string]string) {
	status, ok := labels["status"]
	if !ok {
		status = "unknown"
	}
	pm.operationCounter.WithLabelValues(metric, status).Add(value)
}

// RecordGauge sets the current value of a state gauge.
func (pm *PrometheusMetrics) RecordGauge(metric string, value float64, _ map[string]string) {
	pm.stateGauges.WithLabelValues(metric).Set(value)
}

// RecordHistogram records a value in the score histogram.
func (pm *PrometheusMetrics) RecordHistogram(metric string, value float64, _ map[string]string) {
	pm.scoreHistogram.WithLabelValues(metric).Observe(value)
}
