package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveUpstream("rmls", "property", "200", time.Millisecond)
		m.MediaFailure("rmls")
		m.ProxyResponse("rmls", 200)
		m.AuditDropped()
	})
}

func TestCountersIncrement(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveUpstream("bridge", "property", "200", 20*time.Millisecond)
	m.ObserveUpstream("bridge", "property", "200", 30*time.Millisecond)
	m.MediaFailure("rmls")
	m.ProxyResponse("rmls", 400)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.upstreamRequests.WithLabelValues("bridge", "property", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mediaFailures.WithLabelValues("rmls")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.proxyResponses.WithLabelValues("rmls", "400")))
}
