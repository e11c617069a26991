package domain

// RawProduct is a single record from the static catalog file.
// Products carry no identity of their own; a product's id is its
// 1-based position in the source list.
type RawProduct struct {
	Name            string            `json:"name" validate:"required"`
	PopularityScore float64           `json:"popularityScore" validate:"gte=0,lte=1"`
	Weight          float64           `json:"weight" validate:"gt=0"`
	Images          map[string]string `json:"images"`
}

// Product is the enriched view served to clients. It is derived on
// every request from a RawProduct plus the current gold price and is
// never persisted.
type Product struct {
	ID               int               `json:"id"`
	Name             string            `json:"name"`
	Price            float64           `json:"price"`
	PopularityScore  float64           `json:"popularityScore"`
	PopularityRating float64           `json:"popularityRating"`
	Weight           float64           `json:"weight"`
	Images           map[string]string `json:"images"`
}

// Filter holds optional inclusive range bounds applied to the enriched
// list. A nil field imposes no constraint.
type Filter struct {
	MinPrice      *float64
	MaxPrice      *float64
	MinPopularity *float64
	MaxPopularity *float64
}

// ProductList is the result envelope for a catalog listing.
type ProductList struct {
	GoldPricePerGram float64   `json:"goldPricePerGram"`
	Count            int       `json:"count"`
	Products         []Product `json:"products"`
}
