package domain

import "errors"

var (
	// ErrProductNotFound is returned when a product id is outside the catalog range
	ErrProductNotFound = errors.New("product not found")

	// ErrCatalogUnavailable is returned when the static catalog cannot be read or parsed
	ErrCatalogUnavailable = errors.New("product catalog unavailable")

	// ErrInvalidProduct is returned when a catalog record fails validation
	ErrInvalidProduct = errors.New("invalid product record")

	// ErrGoldAPIFailure is returned when the gold price API request fails
	ErrGoldAPIFailure = errors.New("gold price API request failed")
)
