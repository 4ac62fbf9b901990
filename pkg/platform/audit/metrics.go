package audit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for audit publishing.
type Metrics struct {
	Emitted         *prometheus.CounterVec
	Dropped         prometheus.Counter
	PersistFailures prometheus.Counter
	BreakerOpen     prometheus.Gauge
}

// NewMetrics registers audit metrics with the default registry.
func NewMetrics() *Metrics {
	return &Metrics{
		Emitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "faceid_audit_events_total",
			Help: "Audit events persisted, by category",
		}, []string{"category"}),
		Dropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "faceid_audit_dropped_total",
			Help: "Audit events dropped while the store circuit was open",
		}),
		PersistFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "faceid_audit_persist_failures_total",
			Help: "Audit events that failed to persist",
		}),
		BreakerOpen: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "faceid_audit_breaker_open",
			Help: "1 while the audit store circuit is open",
		}),
	}
}

func (m *Metrics) incEmitted(c Category) {
	if m == nil {
		return
	}
	m.Emitted.WithLabelValues(string(c)).Inc()
}

func (m *Metrics) incDropped() {
	if m == nil {
		return
	}
	m.Dropped.Inc()
}

func (m *Metrics) incPersistFailure() {
	if m == nil {
		return
	}
	m.PersistFailures.Inc()
}

func (m *Metrics) setBreakerOpen(open bool) {
	if m == nil {
		return
	}
	if open {
		m.BreakerOpen.Set(1)
		return
	}
	m.BreakerOpen.Set(0)
}
