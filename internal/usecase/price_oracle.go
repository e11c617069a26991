package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/goldleaf/backend/internal/domain"
	"github.com/goldleaf/backend/internal/infrastructure/metrics"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultCacheTTL is how long a fetched gold price stays fresh.
	DefaultCacheTTL = time.Hour

	// DefaultFallbackPrice is returned when no fetch has ever
	// succeeded, in USD per gram.
	DefaultFallbackPrice = 60.0
)

// PriceOracleConfig holds configuration for the price oracle.
type PriceOracleConfig struct {
	CacheTTL      time.Duration
	FallbackPrice float64

	// Now is the clock used for cache freshness checks; tests inject
	// a fake. Defaults to time.Now.
	Now func() time.Time

	// Metrics is optional; a nil registry disables instrumentation.
	Metrics *metrics.Registry
}

// PriceOracle provides the current gold price with at-most-hourly
// upstream refresh. It owns a single cached value and degrades to the
// last known price, then to a fixed fallback, when the upstream fails.
// Price availability never blocks catalog browsing: the public read
// cannot fail.
type PriceOracle struct {
	fetcher  domain.GoldPriceFetcher
	ttl      time.Duration
	fallback float64
	now      func() time.Time
	metrics  *metrics.Registry

	mu        sync.Mutex
	price     float64
	fetchedAt time.Time
	hasPrice  bool
}

// NewPriceOracle creates a price oracle backed by the given fetcher.
func NewPriceOracle(fetcher domain.GoldPriceFetcher, cfg PriceOracleConfig) *PriceOracle {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.FallbackPrice <= 0 {
		cfg.FallbackPrice = DefaultFallbackPrice
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &PriceOracle{
		fetcher:  fetcher,
		ttl:      cfg.CacheTTL,
		fallback: cfg.FallbackPrice,
		now:      cfg.Now,
		metrics:  cfg.Metrics,
	}
}

// PricePerGram returns the current 24k gold price in USD per gram.
//
// A cached value younger than the TTL is returned without any network
// access. Otherwise an upstream fetch is attempted; on failure the
// cache and timestamp are left untouched and the previous value (or
// the fallback, if no fetch ever succeeded) is returned. Fetch
// failures are logged and counted but never surfaced to the caller.
//
// Concurrent callers that all observe a stale cache may each trigger
// a fetch; the last writer wins. The fetch is idempotent, so the only
// cost is a redundant upstream call.
func (o *PriceOracle) PricePerGram(ctx context.Context) float64 {
	o.mu.Lock()
	if o.hasPrice && o.now().Sub(o.fetchedAt) < o.ttl {
		price := o.price
		o.mu.Unlock()
		if o.metrics != nil {
			o.metrics.PriceCacheHits.Inc()
		}
		return price
	}
	o.mu.Unlock()

	if o.metrics != nil {
		o.metrics.PriceCacheMisses.Inc()
	}

	price, err := o.fetcher.FetchPricePerGram(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("gold price fetch failed, serving cached or fallback price")
		if o.metrics != nil {
			o.metrics.PriceFetchFailures.Inc()
		}

		o.mu.Lock()
		defer o.mu.Unlock()
		if o.hasPrice {
			return o.price
		}
		return o.fallback
	}

	o.mu.Lock()
	o.price = price
	o.fetchedAt = o.now()
	o.hasPrice = true
	o.mu.Unlock()

	if o.metrics != nil {
		o.metrics.GoldPrice.Set(price)
	}

	return price
}
