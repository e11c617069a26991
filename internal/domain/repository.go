package domain

import "context"

// ProductRepository defines the interface for loading the raw catalog.
// Implementations read the source fresh on every call; the catalog
// itself is never cached in-process.
type ProductRepository interface {
	ListProducts(ctx context.Context) ([]RawProduct, error)
}

// GoldPriceFetcher defines the interface for fetching the current
// 24k gold price in USD per gram from an upstream source.
type GoldPriceFetcher interface {
	FetchPricePerGram(ctx context.Context) (float64, error)
}
