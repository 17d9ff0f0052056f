// Package metrics exposes the Prometheus instrumentation of the finance service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector, registered in a private registry so that
// several instances can coexist in tests
type Metrics struct {
	Registry *prometheus.Registry

	httpDuration      *prometheus.HistogramVec
	recomputeDuration prometheus.Histogram
	alertsActive      *prometheus.GaugeVec
	rateFetches       *prometheus.CounterVec
	cacheHits         *prometheus.CounterVec
	cacheMisses       *prometheus.CounterVec
	transactions      prometheus.Gauge
}

// New creates the collectors
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "finance_http_request_duration_seconds",
				Help:    "Duration of HTTP requests by route and status.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		recomputeDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "finance_dashboard_recompute_seconds",
				Help:    "Time spent deriving the dashboard from the transaction list.",
				Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5},
			},
		),
		alertsActive: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "finance_alerts_active",
				Help: "Alerts produced by the latest evaluation, by severity.",
			},
			[]string{"severity"},
		),
		rateFetches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finance_rate_fetches_total",
				Help: "Exchange rate refresh attempts by outcome.",
			},
			[]string{"outcome"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finance_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finance_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		transactions: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "finance_transactions",
				Help: "Number of stored transactions.",
			},
		),
	}
}

// ObserveHTTP records one served request
func (m *Metrics) ObserveHTTP(method, route, status string, d time.Duration) {
	m.httpDuration.WithLabelValues(method, route, status).Observe(d.Seconds())
}

// ObserveRecompute records one dashboard derivation
func (m *Metrics) ObserveRecompute(d time.Duration) {
	m.recomputeDuration.Observe(d.Seconds())
}

// SetAlerts publishes the alert count per severity
func (m *Metrics) SetAlerts(counts map[string]int) {
	m.alertsActive.Reset()
	for severity, n := range counts {
		m.alertsActive.WithLabelValues(severity).Set(float64(n))
	}
}

// IncrRateFetch counts a rate refresh with outcome "success" or "error"
func (m *Metrics) IncrRateFetch(outcome string) {
	m.rateFetches.WithLabelValues(outcome).Inc()
}

// IncrCacheHit increments the cache hit counter
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// SetTransactions publishes the stored transaction count
func (m *Metrics) SetTransactions(n int) {
	m.transactions.Set(float64(n))
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
