package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goldleaf/backend/internal/infrastructure/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFetcher is a scriptable GoldPriceFetcher recording call counts.
type fakeFetcher struct {
	mu    sync.Mutex
	price float64
	err   error
	calls int
}

func (f *fakeFetcher) FetchPricePerGram(ctx context.Context) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return f.price, nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeClock is a manually advanced clock for freshness tests.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestOracle(fetcher *fakeFetcher, clock *fakeClock) *PriceOracle {
	return NewPriceOracle(fetcher, PriceOracleConfig{
		CacheTTL: time.Hour,
		Now:      clock.Now,
	})
}

func TestPricePerGram_FetchesOnFirstCall(t *testing.T) {
	fetcher := &fakeFetcher{price: 75.42}
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	oracle := newTestOracle(fetcher, clock)

	price := oracle.PricePerGram(context.Background())

	assert.Equal(t, 75.42, price)
	assert.Equal(t, 1, fetcher.callCount())
}

func TestPricePerGram_CachedWithinTTL(t *testing.T) {
	fetcher := &fakeFetcher{price: 75.42}
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	oracle := newTestOracle(fetcher, clock)

	first := oracle.PricePerGram(context.Background())
	require.Equal(t, 1, fetcher.callCount())

	// Subsequent reads within the hour are served from cache, with no
	// upstream call and the identical value.
	clock.Advance(59 * time.Minute)
	second := oracle.PricePerGram(context.Background())

	assert.Equal(t, first, second)
	assert.Equal(t, 1, fetcher.callCount())
}

func TestPricePerGram_RefreshesAfterTTL(t *testing.T) {
	fetcher := &fakeFetcher{price: 75.42}
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	oracle := newTestOracle(fetcher, clock)

	oracle.PricePerGram(context.Background())

	fetcher.mu.Lock()
	fetcher.price = 80.10
	fetcher.mu.Unlock()

	// Exactly one TTL later the cache is stale: freshness is a strict
	// less-than comparison.
	clock.Advance(time.Hour)
	price := oracle.PricePerGram(context.Background())

	assert.Equal(t, 80.10, price)
	assert.Equal(t, 2, fetcher.callCount())
}

func TestPricePerGram_FallbackOnFirstFailure(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("upstream down")}
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	oracle := newTestOracle(fetcher, clock)

	price := oracle.PricePerGram(context.Background())

	assert.Equal(t, 60.0, price)
	assert.Equal(t, 1, fetcher.callCount())
}

func TestPricePerGram_CustomFallback(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("upstream down")}
	oracle := NewPriceOracle(fetcher, PriceOracleConfig{FallbackPrice: 55.5})

	assert.Equal(t, 55.5, oracle.PricePerGram(context.Background()))
}

func TestPricePerGram_StaleValueOnFailure(t *testing.T) {
	fetcher := &fakeFetcher{price: 75.42}
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	oracle := newTestOracle(fetcher, clock)

	oracle.PricePerGram(context.Background())

	fetcher.mu.Lock()
	fetcher.err = errors.New("upstream down")
	fetcher.mu.Unlock()

	clock.Advance(2 * time.Hour)
	price := oracle.PricePerGram(context.Background())

	// Last known value beats the fallback constant.
	assert.Equal(t, 75.42, price)
	assert.Equal(t, 2, fetcher.callCount())
}

func TestPricePerGram_FailureDoesNotRefreshTimestamp(t *testing.T) {
	fetcher := &fakeFetcher{price: 75.42}
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	oracle := newTestOracle(fetcher, clock)

	oracle.PricePerGram(context.Background())

	fetcher.mu.Lock()
	fetcher.err = errors.New("upstream down")
	fetcher.mu.Unlock()

	clock.Advance(2 * time.Hour)
	oracle.PricePerGram(context.Background())
	require.Equal(t, 2, fetcher.callCount())

	// The failed attempt must not have extended the cache window:
	// every read while stale attempts another fetch.
	oracle.PricePerGram(context.Background())
	assert.Equal(t, 3, fetcher.callCount())
}

func TestPricePerGram_RecoversAfterFailure(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("upstream down")}
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	oracle := newTestOracle(fetcher, clock)

	require.Equal(t, 60.0, oracle.PricePerGram(context.Background()))

	fetcher.mu.Lock()
	fetcher.err = nil
	fetcher.price = 72.30
	fetcher.mu.Unlock()

	price := oracle.PricePerGram(context.Background())
	assert.Equal(t, 72.30, price)

	// And the recovered value is now cached.
	price = oracle.PricePerGram(context.Background())
	assert.Equal(t, 72.30, price)
	assert.Equal(t, 2, fetcher.callCount())
}

func TestPricePerGram_ConcurrentReads(t *testing.T) {
	fetcher := &fakeFetcher{price: 75.42}
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	oracle := newTestOracle(fetcher, clock)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			price := oracle.PricePerGram(context.Background())
			assert.Equal(t, 75.42, price)
		}()
	}
	wg.Wait()

	// Concurrent stale observers may each fetch; all must agree on the
	// value and at least one fetch must have happened.
	assert.GreaterOrEqual(t, fetcher.callCount(), 1)
}

func TestPricePerGram_Metrics(t *testing.T) {
	reg := metrics.NewRegistry()
	fetcher := &fakeFetcher{price: 75.42}
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	oracle := NewPriceOracle(fetcher, PriceOracleConfig{
		CacheTTL: time.Hour,
		Now:      clock.Now,
		Metrics:  reg,
	})

	oracle.PricePerGram(context.Background()) // miss, successful fetch
	oracle.PricePerGram(context.Background()) // hit

	assert.Equal(t, 1.0, testutil.ToFloat64(reg.PriceCacheMisses))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.PriceCacheHits))
	assert.Equal(t, 75.42, testutil.ToFloat64(reg.GoldPrice))
	assert.Equal(t, 0.0, testutil.ToFloat64(reg.PriceFetchFailures))

	fetcher.mu.Lock()
	fetcher.err = errors.New("upstream down")
	fetcher.mu.Unlock()
	clock.Advance(2 * time.Hour)
	oracle.PricePerGram(context.Background()) // miss, failed fetch

	assert.Equal(t, 1.0, testutil.ToFloat64(reg.PriceFetchFailures))
}

func TestNewPriceOracle_Defaults(t *testing.T) {
	oracle := NewPriceOracle(&fakeFetcher{}, PriceOracleConfig{})

	assert.Equal(t, DefaultCacheTTL, oracle.ttl)
	assert.Equal(t, DefaultFallbackPrice, oracle.fallback)
	assert.NotNil(t, oracle.now)
}
