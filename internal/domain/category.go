package domain

import "strings"

// Category is the fixed department a product belongs to.
type Category string

const (
	CategoryMen         Category = "men"
	CategoryWomen       Category = "women"
	CategoryKids        Category = "kids"
	CategoryAccessories Category = "accessories"
)

// Categories lists every department in display order.
var Categories = []Category{CategoryMen, CategoryWomen, CategoryKids, CategoryAccessories}

func (c Category) Valid() bool {
	switch c {
	case CategoryMen, CategoryWomen, CategoryKids, CategoryAccessories:
		return true
	}
	return false
}

// ParseCategory normalises user input ("Women", " kids ") into a Category.
// The empty string is returned unchanged and means "all categories".
func ParseCategory(v string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(v)))
	if c == "" {
		return "", true
	}
	return c, c.Valid()
}
