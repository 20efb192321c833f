// Package metrics provides Prometheus metrics collection for sponsorgate.
package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds all Prometheus metrics for sponsorgate.
type Collector struct {
	// Request metrics
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge

	// Sponsorship metrics
	SponsorshipsTotal  *prometheus.CounterVec
	EligibilityDenials *prometheus.CounterVec
	SponsoredCostUSD   prometheus.Counter

	// Provider metrics
	ProviderDuration *prometheus.HistogramVec
	ProviderErrors   *prometheus.CounterVec

	// Config metrics
	ConfigReloads      prometheus.Counter
	ConfigReloadErrors prometheus.Counter
	ConfigLastReload   prometheus.Gauge
}

// New creates a new metrics collector registered on the default registry.
func New() *Collector {
	return newCollector(promauto.With(prometheus.DefaultRegisterer))
}

// NewWithRegistry creates a new metrics collector with a custom registry.
// Useful for testing to avoid global state.
func NewWithRegistry(reg prometheus.Registerer) *Collector {
	return newCollector(promauto.With(reg))
}

func newCollector(factory promauto.Factory) *Collector {
	return &Collector{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "sponsorgate",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests processed",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "sponsorgate",
				Name:      "request_duration_seconds",
				Help:      "Request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path", "status"},
		),
		RequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "sponsorgate",
				Name:      "requests_in_flight",
				Help:      "Number of requests currently being processed",
			},
		),
		SponsorshipsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "sponsorgate",
				Name:      "sponsorships_total",
				Help:      "Total sponsorships granted, by provider and operation",
			},
			[]string{"provider", "operation"},
		),
		EligibilityDenials: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "sponsorgate",
				Name:      "eligibility_denials_total",
				Help:      "Total eligibility denials, by reason",
			},
			[]string{"reason"},
		),
		SponsoredCostUSD: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "sponsorgate",
				Name:      "sponsored_cost_usd_total",
				Help:      "Accumulated estimated sponsorship cost in USD",
			},
		),
		ProviderDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "sponsorgate",
				Name:      "provider_duration_seconds",
				Help:      "Sponsorship provider call duration in seconds",
				Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"provider"},
		),
		ProviderErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "sponsorgate",
				Name:      "provider_errors_total",
				Help:      "Total sponsorship provider errors",
			},
			[]string{"provider"},
		),
		ConfigReloads: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "sponsorgate",
				Name:      "config_reloads_total",
				Help:      "Total number of successful config reloads",
			},
		),
		ConfigReloadErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "sponsorgate",
				Name:      "config_reload_errors_total",
				Help:      "Total number of config reload errors",
			},
		),
		ConfigLastReload: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "sponsorgate",
				Name:      "config_last_reload_timestamp",
				Help:      "Unix timestamp of last successful config reload",
			},
		),
	}
}

// NormalizePath replaces user addresses in a request path with a
// placeholder to keep metric label cardinality bounded.
func NormalizePath(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if strings.HasPrefix(seg, "0x") {
			segments[i] = ":address"
		}
	}
	return strings.Join(segments, "/")
}
