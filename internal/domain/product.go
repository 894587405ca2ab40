package domain

import (
	"fmt"
	"math"
	"strings"
)

// ColorVariant is one colorway of a product. Names are unique within a product.
type ColorVariant struct {
	Name  string `json:"name"`
	Hex   string `json:"hex"`
	Image string `json:"image"`
}

// Product is an immutable catalog record. Cart lines and wishlist entries keep
// a copy of it, so later catalog changes never reprice items already saved.
type Product struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Price         float64        `json:"price"`
	OriginalPrice *float64       `json:"originalPrice,omitempty"`
	Category      Category       `json:"category"`
	Description   string         `json:"description"`
	Fabric        string         `json:"fabric"`
	Rating        float64        `json:"rating"`
	ReviewCount   int            `json:"reviewCount"`
	Sizes         []string       `json:"sizes"`
	Colors        []ColorVariant `json:"colors"`
	IsNew         bool           `json:"isNew,omitempty"`
	IsTrending    bool           `json:"isTrending,omitempty"`
}

// Validate checks the record invariants enforced when the catalog is loaded.
func (p Product) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("%w: id required", ErrInvalidProduct)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: product %s: name required", ErrInvalidProduct, p.ID)
	}
	if p.Price < 0 || math.IsNaN(p.Price) {
		return fmt.Errorf("%w: product %s: negative price", ErrInvalidProduct, p.ID)
	}
	if p.OriginalPrice != nil && *p.OriginalPrice < p.Price {
		return fmt.Errorf("%w: product %s: original price below price", ErrInvalidProduct, p.ID)
	}
	if !p.Category.Valid() {
		return fmt.Errorf("%w: product %s: unknown category %q", ErrInvalidProduct, p.ID, p.Category)
	}
	if p.Rating < 0 || p.Rating > 5 {
		return fmt.Errorf("%w: product %s: rating out of range", ErrInvalidProduct, p.ID)
	}
	if p.ReviewCount < 0 {
		return fmt.Errorf("%w: product %s: negative review count", ErrInvalidProduct, p.ID)
	}
	if len(p.Colors) == 0 {
		return fmt.Errorf("%w: product %s: at least one color required", ErrInvalidProduct, p.ID)
	}
	seen := make(map[string]struct{}, len(p.Colors))
	for _, c := range p.Colors {
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("%w: product %s: duplicate color %q", ErrInvalidProduct, p.ID, c.Name)
		}
		seen[c.Name] = struct{}{}
	}
	return nil
}

// HasSize reports whether the product is offered in size.
func (p Product) HasSize(size string) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// HasColor reports whether the product has a color variant named name.
func (p Product) HasColor(name string) bool {
	for _, c := range p.Colors {
		if c.Name == name {
			return true
		}
	}
	return false
}

// DiscountPercent returns the rounded markdown against OriginalPrice, or 0.
func (p Product) DiscountPercent() int {
	if p.OriginalPrice == nil || *p.OriginalPrice <= 0 || *p.OriginalPrice <= p.Price {
		return 0
	}
	return int(math.Round((*p.OriginalPrice - p.Price) / *p.OriginalPrice * 100))
}
