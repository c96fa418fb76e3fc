package ports

import "time"

// MetricsCollector defines the interface for recording operational
// metrics. Implementations may use Prometheus, StatsD, or other
// monitoring systems. A nil collector is always legal; callers must
// treat metrics as best-effort.
type MetricsCollector interface {
	// RecordLatency records the execution time of an operation.
	// The labels map provides additional context for the metric.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter increments a counter metric.
	// This is useful for tracking events like completions, conflicts,
	// and validation failures.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordGauge sets the current value of a gauge metric.
	// This is useful for tracking values like open assessments.
	RecordGauge(metric string, value float64, labels map[string]string)

	// RecordHistogram records a value in a histogram.
	// This is useful for tracking distributions like overall scores.
	RecordHistogram(metric string, value float64, labels map[string]string)
}
