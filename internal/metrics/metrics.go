package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the catalog service collectors on a dedicated registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	RateFetchTotal     *prometheus.CounterVec
	RateCacheTotal     *prometheus.CounterVec
	ProductsCreated    prometheus.Counter
	CreateFailures     *prometheus.CounterVec
	HTTPRequestsTotal  *prometheus.CounterVec
	HTTPRequestLatency *prometheus.HistogramVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		RateFetchTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exchange_rate_fetch_total",
				Help: "Exchange rate provider calls by currency and outcome",
			},
			[]string{"currency", "outcome"},
		),
		RateCacheTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exchange_rate_cache_total",
				Help: "Exchange rate cache lookups by result",
			},
			[]string{"result"},
		),
		ProductsCreated: f.NewCounter(
			prometheus.CounterOpts{
				Name: "products_created_total",
				Help: "Products successfully persisted",
			},
		),
		CreateFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "product_create_failures_total",
				Help: "Rejected product creations by reason",
			},
			[]string{"reason"},
		),
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "HTTP requests by route, method and status",
			},
			[]string{"route", "method", "status"},
		),
		HTTPRequestLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) RateFetch(currency, outcome string) {
	if m == nil {
		return
	}
	m.RateFetchTotal.WithLabelValues(currency, outcome).Inc()
}

func (m *Metrics) RateCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.RateCacheTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) ProductCreated() {
	if m == nil {
		return
	}
	m.ProductsCreated.Inc()
}

func (m *Metrics) CreateFailed(reason string) {
	if m == nil {
		return
	}
	m.CreateFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.HTTPRequestLatency.WithLabelValues(route, method).Observe(elapsed.Seconds())
}
