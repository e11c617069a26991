package usecase

import (
	"context"
	"math"

	"github.com/goldleaf/backend/internal/domain"
)

// PriceSource provides the current gold price. Satisfied by
// *PriceOracle; tests substitute a fixed-price stub.
type PriceSource interface {
	PricePerGram(ctx context.Context) float64
}

// CatalogService produces the enriched, filtered product list served
// by the API.
type CatalogService struct {
	products domain.ProductRepository
	prices   PriceSource
}

// NewCatalogService creates a catalog service with its dependencies.
func NewCatalogService(products domain.ProductRepository, prices PriceSource) *CatalogService {
	return &CatalogService{
		products: products,
		prices:   prices,
	}
}

// ComputePrice calculates a product's USD price. The popularity score
// acts as a [1,2] multiplier on top of the raw material cost.
func ComputePrice(popularityScore, weight, pricePerGram float64) float64 {
	return (popularityScore + 1) * weight * pricePerGram
}

// ToRating maps a [0,1] popularity score to a [0,5] star rating with
// one decimal of precision.
func ToRating(popularityScore float64) float64 {
	return math.Round(popularityScore*5*10) / 10
}

// round2 rounds to two decimals for USD amounts.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// enrich derives the client-facing product from a raw record, its
// 1-based position, and the current gold price.
func enrich(raw domain.RawProduct, id int, pricePerGram float64) domain.Product {
	return domain.Product{
		ID:               id,
		Name:             raw.Name,
		Price:            round2(ComputePrice(raw.PopularityScore, raw.Weight, pricePerGram)),
		PopularityScore:  raw.PopularityScore,
		PopularityRating: ToRating(raw.PopularityScore),
		Weight:           raw.Weight,
		Images:           raw.Images,
	}
}

// ListProducts loads the catalog, enriches every record with the
// current gold price, and applies the filter bounds inclusively.
// Filtering preserves source order. A catalog failure aborts the
// whole operation; no partial list is returned.
func (s *CatalogService) ListProducts(ctx context.Context, filter domain.Filter) (*domain.ProductList, error) {
	raw, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	pricePerGram := s.prices.PricePerGram(ctx)

	products := make([]domain.Product, 0, len(raw))
	for i, r := range raw {
		p := enrich(r, i+1, pricePerGram)
		if matchesFilter(p, filter) {
			products = append(products, p)
		}
	}

	return &domain.ProductList{
		GoldPricePerGram: round2(pricePerGram),
		Count:            len(products),
		Products:         products,
	}, nil
}

// GetProduct enriches the single record at 1-based position id. No
// filters apply on this path.
func (s *CatalogService) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	raw, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	if id < 1 || id > len(raw) {
		return nil, domain.ErrProductNotFound
	}

	pricePerGram := s.prices.PricePerGram(ctx)
	p := enrich(raw[id-1], id, pricePerGram)
	return &p, nil
}

// matchesFilter reports whether a product satisfies every present
// bound. Bounds compose as logical AND; absent bounds always match.
func matchesFilter(p domain.Product, f domain.Filter) bool {
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.MinPopularity != nil && p.PopularityScore < *f.MinPopularity {
		return false
	}
	if f.MaxPopularity != nil && p.PopularityScore > *f.MaxPopularity {
		return false
	}
	return true
}
