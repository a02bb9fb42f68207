package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the service's collectors. A nil *Metrics is valid and records nothing,
// which keeps tests and tools free of registry setup.
type Metrics struct {
	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	mediaFailures    *prometheus.CounterVec
	proxyResponses   *prometheus.CounterVec
	auditDropped     prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		upstreamRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mls",
				Subsystem: "upstream",
				Name:      "requests_total",
				Help:      "Upstream OData requests by provider, resource and outcome",
			},
			[]string{"provider", "resource", "outcome"},
		),
		upstreamLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "mls",
				Subsystem: "upstream",
				Name:      "request_duration_seconds",
				Help:      "Upstream OData request latency",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"provider", "resource"},
		),
		mediaFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mls",
				Subsystem: "media",
				Name:      "fetch_failures_total",
				Help:      "Per-listing media fetches that degraded to no photos",
			},
			[]string{"provider"},
		),
		proxyResponses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mls",
				Subsystem: "proxy",
				Name:      "responses_total",
				Help:      "Proxy endpoint responses by provider and HTTP status",
			},
			[]string{"provider", "code"},
		),
		auditDropped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "mls",
				Subsystem: "audit",
				Name:      "events_dropped_total",
				Help:      "Search audit events dropped because the buffer was full",
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.upstreamRequests, m.upstreamLatency, m.mediaFailures, m.proxyResponses, m.auditDropped)
	}
	return m
}

func (m *Metrics) ObserveUpstream(provider, resource, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.upstreamRequests.WithLabelValues(provider, resource, outcome).Inc()
	m.upstreamLatency.WithLabelValues(provider, resource).Observe(d.Seconds())
}

func (m *Metrics) MediaFailure(provider string) {
	if m == nil {
		return
	}
	m.mediaFailures.WithLabelValues(provider).Inc()
}

func (m *Metrics) ProxyResponse(provider string, code int) {
	if m == nil {
		return
	}
	m.proxyResponses.WithLabelValues(provider, strconv.Itoa(code)).Inc()
}

func (m *Metrics) AuditDropped() {
	if m == nil {
		return
	}
	m.auditDropped.Inc()
}
