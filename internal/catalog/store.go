// Package catalog owns the immutable product list and the query pipeline
// over it.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/importer"
)

//go:embed data/products.json
var embeddedProducts []byte

// Store is the read-only catalog. It is safe for concurrent use because
// nothing mutates it after New returns.
type Store struct {
	products []domain.Product
	byID     map[string]int
}

// New validates products and takes a private copy of them.
func New(products []domain.Product) (*Store, error) {
	s := &Store{
		products: make([]domain.Product, 0, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	for _, p := range products {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := s.byID[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", domain.ErrInvalidProduct, p.ID)
		}
		s.byID[p.ID] = len(s.products)
		s.products = append(s.products, cloneProduct(p))
	}
	return s, nil
}

// Default loads the catalog compiled into the binary.
func Default() (*Store, error) {
	return decodeJSON(bytes.NewReader(embeddedProducts))
}

// Load reads a catalog file. Files ending in .csv go through the CSV
// importer; anything else is decoded as a JSON array of products.
func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		products, err := importer.NewCSVImporter(f).Run()
		if err != nil {
			return nil, fmt.Errorf("import %s: %w", path, err)
		}
		return New(products)
	}
	return decodeJSON(f)
}

func decodeJSON(r io.Reader) (*Store, error) {
	var products []domain.Product
	if err := json.NewDecoder(r).Decode(&products); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(products)
}

// All returns every product in catalog order. Callers own the returned slice.
func (s *Store) All() []domain.Product {
	out := make([]domain.Product, len(s.products))
	for i, p := range s.products {
		out[i] = cloneProduct(p)
	}
	return out
}

// Get returns a copy of the product with id, or domain.ErrNotFound.
func (s *Store) Get(id string) (domain.Product, error) {
	i, ok := s.byID[id]
	if !ok {
		return domain.Product{}, domain.ErrNotFound
	}
	return cloneProduct(s.products[i]), nil
}

func (s *Store) Len() int {
	return len(s.products)
}

// cloneProduct copies the slices and pointer fields so callers can never
// reach the catalog's backing arrays.
func cloneProduct(p domain.Product) domain.Product {
	if p.OriginalPrice != nil {
		v := *p.OriginalPrice
		p.OriginalPrice = &v
	}
	if p.Sizes != nil {
		p.Sizes = append([]string(nil), p.Sizes...)
	}
	if p.Colors != nil {
		p.Colors = append([]domain.ColorVariant(nil), p.Colors...)
	}
	return p
}
