package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// AdapterMetrics records retailer adapter calls by website and operation.
type AdapterMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewAdapterMetrics registers the adapter metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewAdapterMetrics(reg prometheus.Registerer) *AdapterMetrics {
	if reg == nil {
		return &AdapterMetrics{}
	}
	labels := []string{"website", "operation"}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "adapter_operation_duration_seconds",
		Help:    "Duration of retailer adapter operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, labels)
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "adapter_operation_success",
		Help: "Successful retailer adapter operations.",
	}, labels)
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "adapter_operation_failure",
		Help: "Failed retailer adapter operations.",
	}, labels)
	reg.MustRegister(duration, success, failure)
	return &AdapterMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// Observe records one call: its duration and whether it succeeded.
func (m *AdapterMetrics) Observe(website, operation string, duration time.Duration, ok bool) {
	if m == nil || m.duration == nil {
		return
	}
	website, operation = normalizeLabel(website), normalizeLabel(operation)
	m.duration.WithLabelValues(website, operation).Observe(duration.Seconds())
	if ok {
		m.success.WithLabelValues(website, operation).Inc()
		return
	}
	m.failure.WithLabelValues(website, operation).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
