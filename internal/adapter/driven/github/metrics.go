package github

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "devfolio"

// Metrics holds the collectors for upstream GitHub traffic.
type Metrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	fetches  *prometheus.CounterVec
	inflight prometheus.Gauge
}

// NewMetrics creates the GitHub collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "github",
			Name:      "http_requests_total",
			Help:      "Upstream GitHub HTTP requests by status code and method.",
		}, []string{"code", "method"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "github",
			Name:      "http_request_duration_seconds",
			Help:      "Latency of upstream GitHub HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "github",
			Name:      "account_fetches_total",
			Help:      "Per-account fetches by source and outcome.",
		}, []string{"source", "account", "outcome"}),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "github",
			Name:      "http_requests_in_flight",
			Help:      "Upstream GitHub HTTP requests currently in flight.",
		}),
	}

	reg.MustRegister(m.requests, m.latency, m.fetches, m.inflight)
	return m
}

// instrument wraps next with the request collectors. A nil receiver returns
// next unchanged.
func (m *Metrics) instrument(next http.RoundTripper) http.RoundTripper {
	if m == nil {
		return next
	}
	return promhttp.InstrumentRoundTripperInFlight(m.inflight,
		promhttp.InstrumentRoundTripperCounter(m.requests,
			promhttp.InstrumentRoundTripperDuration(m.latency, next),
		),
	)
}

func (m *Metrics) observeFetch(source, account string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.FetchCounter(source, account, outcome).Inc()
}

// FetchCounter returns the per-account fetch counter for the given labels.
func (m *Metrics) FetchCounter(source, account, outcome string) prometheus.Counter {
	return m.fetches.WithLabelValues(source, account, outcome)
}
