package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	instruments *prometheus.CounterVec
	signals     *prometheus.CounterVec
	results     *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	latency     *prometheus.HistogramVec
}

// New registers the scan metrics on reg. Pass prometheus.DefaultRegisterer to expose
// them on /metrics, or a fresh registry in tests.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		instruments: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "elitescan_instruments_total",
				Help: "Instruments processed by outcome status",
			},
			[]string{"status"},
		),
		signals: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "elitescan_signals_total",
				Help: "Historical signals located per setup",
			},
			[]string{"setup"},
		),
		results: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "elitescan_results_total",
				Help: "Qualifying results emitted per setup",
			},
			[]string{"setup"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "elitescan_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "elitescan_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 300},
			},
			[]string{"operation"},
		),
	}
}

func (r *Recorder) RecordInstrument(status string) {
	r.instruments.WithLabelValues(status).Inc()
}

func (r *Recorder) RecordSignals(setup string, n int) {
	r.signals.WithLabelValues(setup).Add(float64(n))
}

func (r *Recorder) RecordResult(setup string) {
	r.results.WithLabelValues(setup).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
