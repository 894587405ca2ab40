package httpserver

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/catalog"
	"storefront/internal/domain"
)

const maxLimit = 50

type productHandlers struct {
	catalog *catalog.Store
}

func (h *productHandlers) list(c *gin.Context) {
	criteria, err := parseCriteria(c)
	if err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}
	products := h.catalog.Query(criteria)
	c.JSON(http.StatusOK, productListResponse{
		Total:    len(products),
		Products: toProductViews(products),
	})
}

func (h *productHandlers) facets(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Facets())
}

func (h *productHandlers) trending(c *gin.Context) {
	c.JSON(http.StatusOK, toProductViews(h.catalog.Trending(parseLimit(c, catalog.TrendingLimit))))
}

func (h *productHandlers) newArrivals(c *gin.Context) {
	c.JSON(http.StatusOK, toProductViews(h.catalog.NewArrivals(parseLimit(c, catalog.NewArrivalsLimit))))
}

func (h *productHandlers) get(c *gin.Context) {
	p, err := h.catalog.Get(c.Param("id"))
	if err != nil {
		writeError(c, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, toProductView(p))
}

func (h *productHandlers) related(c *gin.Context) {
	p, err := h.catalog.Get(c.Param("id"))
	if err != nil {
		writeError(c, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, toProductViews(h.catalog.Related(p, parseLimit(c, catalog.RelatedLimit))))
}

func parseCriteria(c *gin.Context) (catalog.Criteria, error) {
	criteria := catalog.DefaultCriteria()
	criteria.Search = strings.TrimSpace(c.Query("search"))
	criteria.Sort = catalog.ParseSortKey(c.Query("sort"))

	category, ok := domain.ParseCategory(c.Query("category"))
	if !ok {
		return criteria, fmt.Errorf("%w: unknown category %q", errBadRequest, c.Query("category"))
	}
	criteria.Category = category

	var err error
	if criteria.PriceRange.Min, err = parsePrice(c, "price_min", criteria.PriceRange.Min); err != nil {
		return criteria, err
	}
	if criteria.PriceRange.Max, err = parsePrice(c, "price_max", criteria.PriceRange.Max); err != nil {
		return criteria, err
	}
	criteria.Sizes = listParam(c, "sizes")
	criteria.Colors = listParam(c, "colors")
	return criteria, nil
}

func parsePrice(c *gin.Context, name string, def float64) (float64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative number", errBadRequest, name)
	}
	return v, nil
}

// listParam accepts both repeated parameters and comma-separated values.
func listParam(c *gin.Context, name string) []string {
	var out []string
	for _, raw := range c.QueryArray(name) {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func parseLimit(c *gin.Context, def int) int {
	v, err := strconv.Atoi(c.Query("limit"))
	if err != nil || v <= 0 {
		return def
	}
	if v > maxLimit {
		return maxLimit
	}
	return v
}
