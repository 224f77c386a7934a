package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	upstreamFetches *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
	cacheLookups    *prometheus.CounterVec
	windowSize      prometheus.Gauge
	correlation     *prometheus.GaugeVec
}

// New creates a recorder whose collectors are registered with reg.
// A nil reg registers with the default registry.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Recorder{
		upstreamFetches: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "statpull_upstream_fetches_total",
				Help: "Upstream fetches by resource and outcome",
			},
			[]string{"resource", "outcome"},
		),
		upstreamLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "statpull_upstream_fetch_duration_seconds",
				Help:    "Duration of upstream fetches in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"resource"},
		),
		cacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "statpull_price_cache_lookups_total",
				Help: "Price cache lookups by result",
			},
			[]string{"result"},
		),
		windowSize: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "statpull_window_size",
				Help: "Current number of values in the sliding window",
			},
		),
		correlation: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "statpull_last_correlation",
				Help: "Last computed correlation per ticker pair",
			},
			[]string{"pair"},
		),
	}
}

// RecordUpstreamFetch counts one upstream call and observes its latency.
func (r *Recorder) RecordUpstreamFetch(resource, outcome string, seconds float64) {
	r.upstreamFetches.WithLabelValues(resource, outcome).Inc()
	r.upstreamLatency.WithLabelValues(resource).Observe(seconds)
}

func (r *Recorder) RecordCacheLookup(result string) {
	r.cacheLookups.WithLabelValues(result).Inc()
}

func (r *Recorder) RecordWindowSize(n int) {
	r.windowSize.Set(float64(n))
}

func (r *Recorder) RecordCorrelation(pair string, value float64) {
	r.correlation.WithLabelValues(pair).Set(value)
}

// Noop discards every measurement.
type Noop struct{}

func (Noop) RecordUpstreamFetch(string, string, float64) {}
func (Noop) RecordCacheLookup(string)                    {}
func (Noop) RecordWindowSize(int)                        {}
func (Noop) RecordCorrelation(string, float64)           {}
