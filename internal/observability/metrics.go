package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for a station import run.
type Metrics struct {
	RowsRead        prometheus.Counter
	RowsRejected    *prometheus.CounterVec // labels: reason={field_count,agency}
	StationsEmitted prometheus.Counter

	FetchDuration prometheus.Histogram
	RunDuration   prometheus.Gauge
	LastSuccess   prometheus.Gauge

	gatherer prometheus.Gatherer
}

// NewMetrics creates and registers all import metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	m.register(prometheus.DefaultRegisterer)
	m.gatherer = prometheus.DefaultGatherer
	return m
}

// NewMetricsForTesting creates Metrics on a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	reg := prometheus.NewRegistry()
	m := newMetrics()
	m.register(reg)
	m.gatherer = reg
	return m
}

// WriteTextfile writes the current metric values in the text exposition
// format, for pickup by the node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.gatherer)
}

func newMetrics() *Metrics {
	return &Metrics{
		RowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "usgs_import",
			Name:      "rows_read_total",
			Help:      "Total rdb rows read from the station list.",
		}),
		RowsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "usgs_import",
			Name:      "rows_rejected_total",
			Help:      "Rows dropped by the acceptance predicate, by reason.",
		}, []string{"reason"}),
		StationsEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "usgs_import",
			Name:      "stations_emitted_total",
			Help:      "Total stations written to the station module.",
		}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "usgs_import",
			Name:      "fetch_duration_seconds",
			Help:      "Time until the station list response headers arrived.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "usgs_import",
			Name:      "run_duration_seconds",
			Help:      "Duration of the last completed import run.",
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "usgs_import",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last import run that completed without error.",
		}),
	}
}

func (m *Metrics) register(r prometheus.Registerer) {
	r.MustRegister(
		m.RowsRead,
		m.RowsRejected,
		m.StationsEmitted,
		m.FetchDuration,
		m.RunDuration,
		m.LastSuccess,
	)
}
