package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks oracle publication.
type Metrics struct {
	Transactions *prometheus.CounterVec
	CacheHits    prometheus.Counter
	CacheErrors  prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		Transactions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "faceid_oracle_transactions_total",
			Help: "Oracle transactions by method and result",
		}, []string{"method", "result"}),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "faceid_oracle_cache_hits_total",
			Help: "isOracleSubmitted answers served from cache",
		}),
		CacheErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "faceid_oracle_cache_errors_total",
			Help: "Submission cache reads or writes that failed",
		}),
	}
}

func (m *Metrics) IncrementTransaction(method string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Transactions.WithLabelValues(method, result).Inc()
}

func (m *Metrics) IncrementCacheHit() {
	if m != nil {
		m.CacheHits.Inc()
	}
}

func (m *Metrics) IncrementCacheError() {
	if m != nil {
		m.CacheErrors.Inc()
	}
}
