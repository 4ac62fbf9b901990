package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks contest registration and scoring.
type Metrics struct {
	Registrations      *prometheus.CounterVec
	DistanceMismatches prometheus.Counter
	StandingsLatency   prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		Registrations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "faceid_contest_registrations_total",
			Help: "Contest registrations by outcome",
		}, []string{"outcome"}),
		DistanceMismatches: promauto.NewCounter(prometheus.CounterOpts{
			Name: "faceid_contest_distance_mismatches_total",
			Help: "Participants whose local distance disagrees with calculateDistance on the ledger",
		}),
		StandingsLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "faceid_contest_standings_duration_seconds",
			Help:    "Duration of winner queries",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

func (m *Metrics) IncrementRegistration(outcome string) {
	if m != nil {
		m.Registrations.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) IncrementDistanceMismatch() {
	if m != nil {
		m.DistanceMismatches.Inc()
	}
}

func (m *Metrics) ObserveStandings(start time.Time) {
	if m != nil {
		m.StandingsLatency.Observe(time.Since(start).Seconds())
	}
}
