package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles the service's prometheus collectors behind a
// dedicated registry so tests can build isolated instances.
type Registry struct {
	reg *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration prometheus.Histogram

	GoldPrice          prometheus.Gauge
	PriceCacheHits     prometheus.Counter
	PriceCacheMisses   prometheus.Counter
	PriceFetchFailures prometheus.Counter
}

// NewRegistry creates a registry with all collectors registered.
func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "goldleaf_http_requests_total",
		Help: "HTTP requests by method, path and status.",
	}, []string{"method", "path", "status"})
	httpDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "goldleaf_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	})

	goldPrice := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "goldleaf_gold_price_usd_per_gram",
		Help: "Last gold price obtained from the upstream API.",
	})
	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "goldleaf_price_cache_hits_total",
		Help: "Price reads served from the in-memory cache.",
	})
	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "goldleaf_price_cache_misses_total",
		Help: "Price reads that required an upstream fetch attempt.",
	})
	fetchFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "goldleaf_price_fetch_failures_total",
		Help: "Failed upstream price fetches.",
	})

	r.MustRegister(httpRequests, httpDuration, goldPrice, cacheHits, cacheMisses, fetchFailures)

	return &Registry{
		reg:                r,
		HTTPRequests:       httpRequests,
		HTTPDuration:       httpDuration,
		GoldPrice:          goldPrice,
		PriceCacheHits:     cacheHits,
		PriceCacheMisses:   cacheMisses,
		PriceFetchFailures: fetchFailures,
	}
}

// Handler returns the prometheus exposition handler for this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
