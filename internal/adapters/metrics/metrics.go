// Package metrics holds the prometheus instruments of a tact process.
//
// A nil *Metrics is valid and records nothing, so components can take one as
// an optional dependency.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values for gateway operations.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Metrics owns a private registry and the instruments registered on it.
type Metrics struct {
	registry      *prometheus.Registry
	queryDuration *prometheus.HistogramVec
	gatewayOps    *prometheus.CounterVec
	rejected      *prometheus.CounterVec
}

// New creates the instruments on a fresh registry.
// PRE: none
// POST: all instruments are registered on Registry()
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		queryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tact",
			Subsystem: "store",
			Name:      "query_duration_seconds",
			Help:      "Duration of SQL calls issued by the store drivers.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"op"}),
		gatewayOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tact",
			Subsystem: "gateway",
			Name:      "operations_total",
			Help:      "Address book open and flush operations by outcome.",
		}, []string{"op", "outcome"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tact",
			Name:      "rejected_values_total",
			Help:      "Phone numbers and email addresses dropped by validation.",
		}, []string{"field"}),
	}
	m.registry.MustRegister(m.queryDuration, m.gatewayOps, m.rejected)
	return m
}

// Registry returns the registry holding the instruments.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveQuery records the duration of one store call.
func (m *Metrics) ObserveQuery(op string, d time.Duration) {
	if m == nil {
		return
	}
	m.queryDuration.WithLabelValues(op).Observe(d.Seconds())
}

// CountGatewayOp counts one gateway operation.
func (m *Metrics) CountGatewayOp(op, outcome string) {
	if m == nil {
		return
	}
	m.gatewayOps.WithLabelValues(op, outcome).Inc()
}

// CountRejected counts one value dropped by validation.
func (m *Metrics) CountRejected(field string) {
	if m == nil {
		return
	}
	m.rejected.WithLabelValues(field).Inc()
}

// WriteTextfile writes all metrics to path in the text exposition format
// read by the node exporter textfile collector.
// PRE: path is a writable location
// POST: path is replaced atomically
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
