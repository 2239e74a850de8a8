package client

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Dispatch outcomes used as the "outcome" label.
const (
	OutcomeOK          = "ok"
	OutcomeUnavailable = "unavailable"
	OutcomeMalformed   = "malformed"
	OutcomeError       = "error"
)

// Metrics collects per-dispatch Prometheus metrics. A nil *Metrics records
// nothing.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	lastResponse    *prometheus.GaugeVec
}

// NewMetrics registers the client metrics on registry. Passing nil uses
// prometheus.DefaultRegisterer.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	return &Metrics{
		requestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "findologic_requests_total",
				Help: "Total number of requests sent to the search service",
			},
			[]string{"kind", "endpoint", "outcome"},
		),
		requestDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "findologic_request_duration_seconds",
				Help:    "Duration of requests to the search service in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind", "endpoint"},
		),
		lastResponse: promauto.With(registry).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "findologic_last_response_time_seconds",
				Help: "Wall time of the most recent non-alivetest request",
			},
			[]string{"kind"},
		),
	}
}

func (m *Metrics) record(kind, endpoint, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(kind, endpoint, outcome).Inc()
	m.requestDuration.WithLabelValues(kind, endpoint).Observe(d.Seconds())
}

// recordMalformed counts a decode failure of a body that was already
// recorded as OutcomeOK.
func (m *Metrics) recordMalformed(kind, endpoint string) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(kind, endpoint, OutcomeMalformed).Inc()
}

func (m *Metrics) recordResponseTime(kind string, d time.Duration) {
	if m == nil {
		return
	}
	m.lastResponse.WithLabelValues(kind).Set(d.Seconds())
}
