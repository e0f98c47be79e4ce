// Package metrics exposes Prometheus counters and histograms for cut requests.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for furnicut_cut_requests_total.
const (
	OutcomeOK       = "ok"
	OutcomeInvalid  = "invalid"
	OutcomeUnplaced = "unplaced"
	OutcomeTimeout  = "timeout"
	OutcomeError    = "error"
)

// Metrics owns a private registry so tests and multiple servers in one
// process never collide on the global one.
type Metrics struct {
	registry     *prometheus.Registry
	requests     *prometheus.CounterVec
	packDuration prometheus.Histogram
	efficiency   prometheus.Histogram
	unplaced     prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "furnicut_cut_requests_total",
			Help: "Cut requests by outcome.",
		}, []string{"outcome"}),
		packDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "furnicut_pack_duration_seconds",
			Help:    "Time spent in the packing engine.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		efficiency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "furnicut_sheet_efficiency_percent",
			Help:    "Share of the sheet covered by placed elements.",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		}),
		unplaced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "furnicut_unplaced_elements_total",
			Help: "Elements that did not fit their sheet.",
		}),
	}
	m.registry.MustRegister(
		m.requests,
		m.packDuration,
		m.efficiency,
		m.unplaced,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	for _, o := range []string{OutcomeOK, OutcomeInvalid, OutcomeUnplaced, OutcomeTimeout, OutcomeError} {
		m.requests.WithLabelValues(o)
	}
	return m
}

// ObserveRequest counts one finished cut request.
func (m *Metrics) ObserveRequest(outcome string) {
	m.requests.WithLabelValues(outcome).Inc()
}

// ObservePack records an engine run.
func (m *Metrics) ObservePack(d time.Duration) {
	m.packDuration.Observe(d.Seconds())
}

// ObserveSheet records the efficiency of a stored sheet.
func (m *Metrics) ObserveSheet(efficiency float64) {
	m.efficiency.Observe(efficiency)
}

// ObserveUnplaced adds n elements that did not fit.
func (m *Metrics) ObserveUnplaced(n int) {
	m.unplaced.Add(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
