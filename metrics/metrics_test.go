package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelayMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRelayMetrics(reg)

	m.IncSponsorshipDecision("pm_getPaymasterStubData", "approved", "sponsored")
	m.IncSponsorshipDecision("pm_getPaymasterStubData", "approved", "sponsored")
	m.IncSponsorshipDecision("pm_getPaymasterData", "rejected", "batch_too_large")
	m.ObserveUpstreamPaymaster("pm_getPaymasterData", "ok", 120*time.Millisecond)
	m.IncMarketRequest("dexscreener", "ok")
	m.AddUptime(1500)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.sponsorshipDecisions.WithLabelValues("pm_getPaymasterStubData", "approved", "sponsored")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sponsorshipDecisions.WithLabelValues("pm_getPaymasterData", "rejected", "batch_too_large")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.marketRequests.WithLabelValues("dexscreener", "ok")))
	assert.Equal(t, 1500.0, testutil.ToFloat64(m.uptime))

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "fomo_sponsorship_decisions_total")
	assert.Contains(t, names, "fomo_upstream_paymaster_duration_seconds")
	assert.Contains(t, names, "fomo_market_requests_total")
}

func TestEnsureMetrics(t *testing.T) {
	assert.IsType(t, NoopMetrics{}, EnsureMetrics(nil))

	m := NewRelayMetrics(prometheus.NewRegistry())
	assert.Same(t, m, EnsureMetrics(m))
}
