package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "dvhydrograph"

// Metrics holds the Prometheus counters, histograms, and gauges for report building.
type Metrics struct {
	ReportBuilds        *prometheus.CounterVec // labels: outcome={success,not_found,error,canceled}
	ReportBuildDuration prometheus.Histogram
	BuildsInFlight      prometheus.Gauge

	// Per-slot and discrete branch outcomes.
	OptionalSeries *prometheus.CounterVec // labels: slot, outcome={present,absent,error}
	DiscreteBranch *prometheus.CounterVec // labels: kind

	// Collaborator metrics.
	LookupCache      *prometheus.CounterVec   // labels: lookup, result={hit,miss}
	UpstreamDuration *prometheus.HistogramVec // labels: source={aquarius,nwisra}, operation

	// Publishing metrics.
	ReportsPublished prometheus.Counter
	PublishErrors    prometheus.Counter
}

// NewMetrics creates and registers all report metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ReportBuilds,
		m.ReportBuildDuration,
		m.BuildsInFlight,
		m.OptionalSeries,
		m.DiscreteBranch,
		m.LookupCache,
		m.UpstreamDuration,
		m.ReportsPublished,
		m.PublishErrors,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ReportBuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_builds_total",
			Help:      "Report builds by outcome.",
		}, []string{"outcome"}),
		ReportBuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "report_build_duration_seconds",
			Help:      "Duration of a complete report build, including collaborator calls.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		BuildsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "report_builds_in_flight",
			Help:      "Reports currently being built.",
		}),
		OptionalSeries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "optional_series_total",
			Help:      "Optional series slots by slot and outcome.",
		}, []string{"slot", "outcome"}),
		DiscreteBranch: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discrete_branch_total",
			Help:      "Discrete overlays attached to reports, by kind.",
		}, []string{"kind"}),
		LookupCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookup_cache_total",
			Help:      "Lookup cache reads by lookup and result.",
		}, []string{"lookup", "result"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Collaborator request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"source", "operation"}),
		ReportsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_published_total",
			Help:      "Reports published to the render topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Report publish attempts that failed after retries.",
		}),
	}
}
