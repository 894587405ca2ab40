package catalog

import "storefront/internal/domain"

// Limits used by the home and product pages.
const (
	TrendingLimit    = 8
	NewArrivalsLimit = 4
	RelatedLimit     = 4
)

// Trending returns up to limit products flagged trending, in catalog order.
func (s *Store) Trending(limit int) []domain.Product {
	return s.take(limit, func(p domain.Product) bool { return p.IsTrending })
}

// NewArrivals returns up to limit products flagged new, in catalog order.
func (s *Store) NewArrivals(limit int) []domain.Product {
	return s.take(limit, func(p domain.Product) bool { return p.IsNew })
}

// Related returns up to limit other products from product's category.
func (s *Store) Related(product domain.Product, limit int) []domain.Product {
	return s.take(limit, func(p domain.Product) bool {
		return p.Category == product.Category && p.ID != product.ID
	})
}

func (s *Store) take(limit int, keep func(domain.Product) bool) []domain.Product {
	out := []domain.Product{}
	for _, p := range s.products {
		if limit > 0 && len(out) == limit {
			break
		}
		if keep(p) {
			out = append(out, cloneProduct(p))
		}
	}
	return out
}

// Facets lists the filter options the catalog can satisfy.
type Facets struct {
	Categories []domain.Category     `json:"categories"`
	Sizes      []string              `json:"sizes"`
	Colors     []domain.ColorVariant `json:"colors"`
	PriceRange PriceRange            `json:"priceRange"`
}

// Facets collects distinct sizes and colors in first-seen order along with
// the catalog's price bounds.
func (s *Store) Facets() Facets {
	f := Facets{
		Categories: append([]domain.Category(nil), domain.Categories...),
		Sizes:      []string{},
		Colors:     []domain.ColorVariant{},
	}
	seenSize := map[string]bool{}
	seenColor := map[string]bool{}
	for i, p := range s.products {
		if i == 0 || p.Price < f.PriceRange.Min {
			f.PriceRange.Min = p.Price
		}
		if p.Price > f.PriceRange.Max {
			f.PriceRange.Max = p.Price
		}
		for _, size := range p.Sizes {
			if !seenSize[size] {
				seenSize[size] = true
				f.Sizes = append(f.Sizes, size)
			}
		}
		for _, c := range p.Colors {
			if !seenColor[c.Name] {
				seenColor[c.Name] = true
				f.Colors = append(f.Colors, domain.ColorVariant{Name: c.Name, Hex: c.Hex})
			}
		}
	}
	return f
}
