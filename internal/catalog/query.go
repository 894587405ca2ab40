package catalog

import (
	"sort"
	"strings"

	"storefront/internal/domain"
)

// SortKey orders a query result.
type SortKey string

const (
	SortPopular   SortKey = "popular"
	SortNewest    SortKey = "newest"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
)

// DefaultMaxPrice is the upper bound of the price slider's initial range.
const DefaultMaxPrice = 500

// PriceRange is an inclusive [Min, Max] bound on price.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r PriceRange) contains(price float64) bool {
	return price >= r.Min && price <= r.Max
}

// Criteria combines every filter with AND. Empty Search, Category, Sizes or
// Colors match everything.
type Criteria struct {
	Search     string
	Category   domain.Category
	PriceRange PriceRange
	Sizes      []string
	Colors     []string
	Sort       SortKey
}

// DefaultCriteria matches the whole catalog in popularity order.
func DefaultCriteria() Criteria {
	return Criteria{
		PriceRange: PriceRange{Min: 0, Max: DefaultMaxPrice},
		Sort:       SortPopular,
	}
}

// Query filters then sorts products. It never modifies its input and always
// returns a newly allocated slice.
func Query(products []domain.Product, c Criteria) []domain.Product {
	search := strings.ToLower(c.Search)
	sizes := toSet(c.Sizes)
	colors := toSet(c.Colors)

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		if c.Category != "" && p.Category != c.Category {
			continue
		}
		if !c.PriceRange.contains(p.Price) {
			continue
		}
		if len(sizes) > 0 && !anySize(p, sizes) {
			continue
		}
		if len(colors) > 0 && !anyColor(p, colors) {
			continue
		}
		out = append(out, p)
	}

	sortProducts(out, c.Sort)
	return out
}

// Query runs the pipeline over the store's products.
func (s *Store) Query(c Criteria) []domain.Product {
	return Query(s.All(), c)
}

func sortProducts(products []domain.Product, key SortKey) {
	var less func(a, b domain.Product) bool
	switch key {
	case SortPriceAsc:
		less = func(a, b domain.Product) bool { return a.Price < b.Price }
	case SortPriceDesc:
		less = func(a, b domain.Product) bool { return a.Price > b.Price }
	case SortNewest:
		less = func(a, b domain.Product) bool { return a.IsNew && !b.IsNew }
	default:
		less = func(a, b domain.Product) bool { return a.ReviewCount > b.ReviewCount }
	}
	sort.SliceStable(products, func(i, j int) bool { return less(products[i], products[j]) })
}

// ParseSortKey maps unknown or empty input to SortPopular.
func ParseSortKey(v string) SortKey {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(v))); k {
	case SortNewest, SortPriceAsc, SortPriceDesc:
		return k
	default:
		return SortPopular
	}
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func anySize(p domain.Product, sizes map[string]struct{}) bool {
	for _, s := range p.Sizes {
		if _, ok := sizes[s]; ok {
			return true
		}
	}
	return false
}

func anyColor(p domain.Product, colors map[string]struct{}) bool {
	for _, c := range p.Colors {
		if _, ok := colors[c.Name]; ok {
			return true
		}
	}
	return false
}
