package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

func fixture() []domain.Product {
	mk := func(id string, cat domain.Category, price float64, reviews int, isNew bool, sizes []string, colors ...string) domain.Product {
		p := domain.Product{ID: id, Name: "Item " + id, Category: cat, Price: price, ReviewCount: reviews, IsNew: isNew, Sizes: sizes}
		for _, c := range colors {
			p.Colors = append(p.Colors, domain.ColorVariant{Name: c})
		}
		return p
	}
	return []domain.Product{
		mk("Coat", domain.CategoryMen, 289, 214, false, []string{"M", "L"}, "Black", "Navy"),
		mk("Dress", domain.CategoryWomen, 159, 302, false, []string{"S", "M"}, "Black", "Red"),
		mk("Jeans", domain.CategoryWomen, 98, 451, true, []string{"S", "M", "L", "XL"}, "Blue"),
		mk("Blouse", domain.CategoryWomen, 74, 88, true, []string{"S"}, "White"),
		mk("Hoodie", domain.CategoryKids, 39, 140, false, []string{"S", "M"}, "Red"),
		mk("Scarf", domain.CategoryAccessories, 49, 121, true, nil, "Grey"),
	}
}

func ids(products []domain.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestQueryDefaultSortsByPopularity(t *testing.T) {
	got := Query(fixture(), DefaultCriteria())
	assert.Equal(t, []string{"Jeans", "Dress", "Coat", "Hoodie", "Scarf", "Blouse"}, ids(got))
}

func TestQueryCategoryPriceAsc(t *testing.T) {
	c := DefaultCriteria()
	c.Category = domain.CategoryWomen
	c.Sort = SortPriceAsc

	got := Query(fixture(), c)
	require.Len(t, got, 3)
	for i, p := range got {
		assert.Equal(t, domain.CategoryWomen, p.Category)
		if i > 0 {
			assert.LessOrEqual(t, got[i-1].Price, p.Price)
		}
	}
}

func TestQueryPriceDesc(t *testing.T) {
	c := DefaultCriteria()
	c.Sort = SortPriceDesc
	assert.Equal(t, []string{"Coat", "Dress", "Jeans", "Blouse", "Scarf", "Hoodie"}, ids(Query(fixture(), c)))
}

func TestQueryNewestIsStable(t *testing.T) {
	c := DefaultCriteria()
	c.Sort = SortNewest
	assert.Equal(t, []string{"Jeans", "Blouse", "Scarf", "Coat", "Dress", "Hoodie"}, ids(Query(fixture(), c)))
}

func TestQuerySearchIsCaseInsensitive(t *testing.T) {
	c := DefaultCriteria()
	c.Search = "iTEM d"
	assert.Equal(t, []string{"Dress"}, ids(Query(fixture(), c)))
}

func TestQuerySizesAndColorsUseAnyOf(t *testing.T) {
	c := DefaultCriteria()
	c.Sizes = []string{"XL", "L"}
	assert.ElementsMatch(t, []string{"Coat", "Jeans"}, ids(Query(fixture(), c)))

	c = DefaultCriteria()
	c.Colors = []string{"Red", "Grey"}
	assert.ElementsMatch(t, []string{"Dress", "Hoodie", "Scarf"}, ids(Query(fixture(), c)))

	c.Sizes = []string{"S"}
	assert.ElementsMatch(t, []string{"Dress", "Hoodie"}, ids(Query(fixture(), c)))
}

func TestQueryPriceRangeIsInclusive(t *testing.T) {
	c := DefaultCriteria()
	c.PriceRange = PriceRange{Min: 49, Max: 98}
	assert.ElementsMatch(t, []string{"Jeans", "Blouse", "Scarf"}, ids(Query(fixture(), c)))
}

func TestQueryZeroRange(t *testing.T) {
	c := DefaultCriteria()
	c.PriceRange = PriceRange{}
	got := Query(fixture(), c)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestQueryDoesNotMutateInput(t *testing.T) {
	in := fixture()
	before := ids(in)
	c := DefaultCriteria()
	c.Sort = SortPriceAsc
	_ = Query(in, c)
	assert.Equal(t, before, ids(in))
}

func TestQueryIsDeterministic(t *testing.T) {
	c := DefaultCriteria()
	c.Sort = SortNewest
	assert.Equal(t, ids(Query(fixture(), c)), ids(Query(fixture(), c)))
}

func TestParseSortKey(t *testing.T) {
	assert.Equal(t, SortPriceAsc, ParseSortKey("price-asc"))
	assert.Equal(t, SortNewest, ParseSortKey(" Newest "))
	assert.Equal(t, SortPopular, ParseSortKey(""))
	assert.Equal(t, SortPopular, ParseSortKey("cheapest"))
}

func TestStoreQueryOnDefaultCatalog(t *testing.T) {
	s, err := Default()
	require.NoError(t, err)
	c := DefaultCriteria()
	c.Category = domain.CategoryWomen
	c.Sort = SortPriceAsc
	assert.Equal(t, []string{"w-003", "w-002", "w-001", "w-004"}, ids(s.Query(c)))
}
