package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"

	"rm-rfp/internal/metrics"
)

// Metrics is the consumer's view of the run counters. nil disables them.
type Metrics interface {
	FilesRemovedTotal() prometheus.Counter
	DirsRemovedTotal() prometheus.Counter
	BytesFreedTotal() prometheus.Counter
	ErrorsTotal() prometheus.Counter
}

// runMetrics wraps the process-wide Prometheus counters.
type runMetrics struct{}

func (runMetrics) FilesRemovedTotal() prometheus.Counter { return metrics.FilesRemovedTotal }
func (runMetrics) DirsRemovedTotal() prometheus.Counter  { return metrics.DirsRemovedTotal }
func (runMetrics) BytesFreedTotal() prometheus.Counter   { return metrics.BytesFreedTotal }
func (runMetrics) ErrorsTotal() prometheus.Counter       { return metrics.ErrorsTotal }

// DefaultMetrics returns the Prometheus-backed implementation. Callers must
// have run metrics.Init first.
func DefaultMetrics() Metrics {
	return runMetrics{}
}
