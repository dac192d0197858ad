package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsGenerator interface {
	IncSponsorshipDecision(method, decision, reason string)
	ObserveUpstreamPaymaster(method, status string, elapsed time.Duration)
	IncMarketRequest(source, status string)

	AddUptime(float64)
}

// RelayMetrics contains the instrumented metrics of the relay
type RelayMetrics struct {
	uptime prometheus.Counter

	sponsorshipDecisions *prometheus.CounterVec
	upstreamPaymaster    *prometheus.HistogramVec
	// source is dexscreener, geckoterminal, rpc or frame
	marketRequests *prometheus.CounterVec
}

const fomoNamespace = "fomo"

func NewRelayMetrics(reg prometheus.Registerer) *RelayMetrics {
	return &RelayMetrics{
		uptime: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Namespace: fomoNamespace,
				Name:      "uptime_milliseconds_total",
				Help:      "The elapse time in milliseconds since the relay is booted",
			}),

		sponsorshipDecisions: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: fomoNamespace,
				Name:      "sponsorship_decisions_total",
				Help:      "The number of paymaster requests evaluated, by outcome and reason",
			}, []string{"method", "decision", "reason"}),

		upstreamPaymaster: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: fomoNamespace,
				Name:      "upstream_paymaster_duration_seconds",
				Help:      "Latency of forwarded ERC-7677 calls to the upstream paymaster",
				Buckets:   prometheus.DefBuckets,
			}, []string{"method", "status"}),

		marketRequests: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: fomoNamespace,
				Name:      "market_requests_total",
				Help:      "The number of market data lookups against third party APIs and the chain",
			}, []string{"source", "status"}),
	}
}

func (m *RelayMetrics) IncSponsorshipDecision(method, decision, reason string) {
	m.sponsorshipDecisions.WithLabelValues(method, decision, reason).Inc()
}

func (m *RelayMetrics) ObserveUpstreamPaymaster(method, status string, elapsed time.Duration) {
	m.upstreamPaymaster.WithLabelValues(method, status).Observe(elapsed.Seconds())
}

func (m *RelayMetrics) IncMarketRequest(source, status string) {
	m.marketRequests.WithLabelValues(source, status).Inc()
}

func (m *RelayMetrics) AddUptime(total float64) {
	m.uptime.Add(total)
}

// NoopMetrics discards everything. Components take it when no registry is wired.
type NoopMetrics struct{}

func (NoopMetrics) IncSponsorshipDecision(method, decision, reason string)                {}
func (NoopMetrics) ObserveUpstreamPaymaster(method, status string, elapsed time.Duration) {}
func (NoopMetrics) IncMarketRequest(source, status string)                                {}
func (NoopMetrics) AddUptime(float64)                                                     {}

func EnsureMetrics(m MetricsGenerator) MetricsGenerator {
	if m == nil {
		return NoopMetrics{}
	}
	return m
}
