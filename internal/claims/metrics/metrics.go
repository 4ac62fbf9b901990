package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the claims module.
type Metrics struct {
	// Enrollment outcomes: created, replaced, or failed_<stage>
	Enrollments *prometheus.CounterVec

	// Revocations the issuer rejected during revoke-and-replace
	RevokeFailures prometheus.Counter

	// Requests answered with an error, by endpoint and error code
	Rejections *prometheus.CounterVec

	EnrollLatency prometheus.Histogram
	LookupLatency prometheus.Histogram
}

// New creates a new Metrics instance with all claims module metrics registered.
func New() *Metrics {
	return &Metrics{
		Enrollments: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "faceid_claims_enrollments_total",
			Help: "Enrollment attempts by outcome",
		}, []string{"outcome"}),
		RevokeFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "faceid_claims_revoke_failures_total",
			Help: "Credential revocations that failed during revoke-and-replace",
		}),
		Rejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "faceid_claims_rejections_total",
			Help: "Claims requests answered with an error",
		}, []string{"endpoint", "code"}),
		EnrollLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "faceid_claims_enroll_duration_seconds",
			Help:    "Duration of enrollment including extraction and issuance",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		LookupLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "faceid_claims_lookup_duration_seconds",
			Help:    "Duration of face lookups",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

// IncrementEnrollment records an enrollment outcome.
func (m *Metrics) IncrementEnrollment(outcome string) {
	if m != nil {
		m.Enrollments.WithLabelValues(outcome).Inc()
	}
}

// IncrementRevokeFailure records a failed revocation.
func (m *Metrics) IncrementRevokeFailure() {
	if m != nil {
		m.RevokeFailures.Inc()
	}
}

// IncrementRejection records an error response for endpoint.
func (m *Metrics) IncrementRejection(endpoint, code string) {
	if m != nil {
		m.Rejections.WithLabelValues(endpoint, code).Inc()
	}
}

// ObserveEnroll records enrollment duration. Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveEnroll(start time.Time) {
	if m != nil {
		m.EnrollLatency.Observe(time.Since(start).Seconds())
	}
}

// ObserveLookup records lookup duration.
func (m *Metrics) ObserveLookup(start time.Time) {
	if m != nil {
		m.LookupLatency.Observe(time.Since(start).Seconds())
	}
}
