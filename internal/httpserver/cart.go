package httpserver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/catalog"
	"storefront/internal/domain"
)

type cartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Color     string `json:"color"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

type cartHandlers struct {
	catalog *catalog.Store
}

func (h *cartHandlers) get(c *gin.Context) {
	c.JSON(http.StatusOK, buildCartResponse(currentSession(c)))
}

func (h *cartHandlers) add(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %v", errBadRequest, err), http.StatusBadRequest)
		return
	}
	product, err := h.catalog.Get(req.ProductID)
	if err != nil {
		writeError(c, err, http.StatusInternalServerError)
		return
	}
	if err := checkVariant(product, req.Color, req.Size); err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}

	sess := currentSession(c)
	if err := sess.Cart.AddItem(c.Request.Context(), product, req.Color, req.Size, req.Quantity); err != nil {
		writeError(c, err, http.StatusServiceUnavailable)
		return
	}
	c.JSON(http.StatusOK, buildCartResponse(sess))
}

func (h *cartHandlers) update(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %v", errBadRequest, err), http.StatusBadRequest)
		return
	}
	sess := currentSession(c)
	if err := sess.Cart.UpdateQuantity(c.Request.Context(), req.ProductID, req.Color, req.Size, req.Quantity); err != nil {
		writeError(c, err, http.StatusServiceUnavailable)
		return
	}
	c.JSON(http.StatusOK, buildCartResponse(sess))
}

func (h *cartHandlers) remove(c *gin.Context) {
	productID := c.Query("productId")
	if productID == "" {
		writeError(c, fmt.Errorf("%w: productId required", errBadRequest), http.StatusBadRequest)
		return
	}
	sess := currentSession(c)
	if err := sess.Cart.RemoveItem(c.Request.Context(), productID, c.Query("color"), c.Query("size")); err != nil {
		writeError(c, err, http.StatusServiceUnavailable)
		return
	}
	c.JSON(http.StatusOK, buildCartResponse(sess))
}

func (h *cartHandlers) clear(c *gin.Context) {
	sess := currentSession(c)
	if err := sess.Cart.Clear(c.Request.Context()); err != nil {
		writeError(c, err, http.StatusServiceUnavailable)
		return
	}
	c.JSON(http.StatusOK, buildCartResponse(sess))
}

// checkVariant rejects colors and sizes the product is not sold in. Products
// without sizes accept an empty size.
func checkVariant(p domain.Product, color, size string) error {
	if !p.HasColor(color) {
		return fmt.Errorf("%w: %s has no color %q", errBadRequest, p.ID, color)
	}
	if len(p.Sizes) == 0 {
		if size != "" {
			return fmt.Errorf("%w: %s is not sized", errBadRequest, p.ID)
		}
		return nil
	}
	if !p.HasSize(size) {
		return fmt.Errorf("%w: %s has no size %q", errBadRequest, p.ID, size)
	}
	return nil
}
