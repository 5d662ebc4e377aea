package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "journal"

// Metrics counts what a report run read and parsed. Each Metrics owns its
// registry so runs and tests never share counters.
type Metrics struct {
	registry *prometheus.Registry

	MessagesFetched prometheus.Counter
	DealsParsed     *prometheus.CounterVec
	ParseFailures   prometheus.Counter
	RunDuration     prometheus.Histogram
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		// MessagesFetched - journal messages returned by the source
		MessagesFetched: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "messages_fetched_total",
			Help:      "Total number of journal messages returned by the message source",
		}),

		// DealsParsed - parsed deals by result type (Real, Demo, Idea)
		DealsParsed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "deals_parsed_total",
			Help:      "Total number of journal messages parsed into deals",
		}, []string{"result_type"}),

		ParseFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "parse_failures_total",
			Help:      "Total number of journal messages that failed to parse",
		}),

		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a full report run in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		}),
	}
}

// Registry exposes the gatherer for tests and exporters.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the metrics in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
