package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters for the reporting pipeline.
type Metrics struct {
	ReportsSubmitted prometheus.Counter
	ReportsDeleted   prometheus.Counter
	AnalysesRun      prometheus.Counter
	UpstreamFailures *prometheus.CounterVec // labels: dependency={storage,database,ai}
}

// NewMetrics creates and registers all metrics with the default registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ReportsSubmitted,
		m.ReportsDeleted,
		m.AnalysesRun,
		m.UpstreamFailures,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics across tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ReportsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bahaalert",
			Name:      "flood_reports_submitted_total",
			Help:      "Total flood reports persisted.",
		}),
		ReportsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bahaalert",
			Name:      "flood_reports_deleted_total",
			Help:      "Total flood reports removed.",
		}),
		AnalysesRun: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bahaalert",
			Name:      "flood_analyses_total",
			Help:      "Total flood image classifications served.",
		}),
		UpstreamFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bahaalert",
			Name:      "upstream_failures_total",
			Help:      "Failures of external dependencies by name.",
		}, []string{"dependency"}),
	}
}
