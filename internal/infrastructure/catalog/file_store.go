package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/goldleaf/backend/internal/domain"
)

var validate = validator.New()

// FileStore loads the product catalog from a static JSON file. The
// file is read fresh on every call so catalog edits show up without a
// restart; only the gold price is cached, never the product list.
type FileStore struct {
	path string
}

// NewFileStore creates a catalog store backed by the JSON file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// ListProducts reads and validates the full catalog in source order.
// Any read, decode, or validation failure is reported as a catalog
// failure; no partial list is returned.
func (s *FileStore) ListProducts(ctx context.Context) ([]domain.RawProduct, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", domain.ErrCatalogUnavailable, s.path, err)
	}

	var products []domain.RawProduct
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", domain.ErrCatalogUnavailable, s.path, err)
	}

	for i, p := range products {
		if err := validate.StructCtx(ctx, p); err != nil {
			return nil, fmt.Errorf("%w: %w: record %d (%q): %v",
				domain.ErrCatalogUnavailable, domain.ErrInvalidProduct, i+1, p.Name, err)
		}
	}

	return products, nil
}
