package httpserver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/catalog"
)

type wishlistItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

type wishlistHandlers struct {
	catalog *catalog.Store
}

func (h *wishlistHandlers) get(c *gin.Context) {
	c.JSON(http.StatusOK, buildWishlistResponse(currentSession(c)))
}

func (h *wishlistHandlers) add(c *gin.Context) {
	var req wishlistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %v", errBadRequest, err), http.StatusBadRequest)
		return
	}
	product, err := h.catalog.Get(req.ProductID)
	if err != nil {
		writeError(c, err, http.StatusInternalServerError)
		return
	}
	sess := currentSession(c)
	if err := sess.Wishlist.AddItem(c.Request.Context(), product); err != nil {
		writeError(c, err, http.StatusServiceUnavailable)
		return
	}
	c.JSON(http.StatusOK, buildWishlistResponse(sess))
}

func (h *wishlistHandlers) contains(c *gin.Context) {
	id := c.Param("productId")
	c.JSON(http.StatusOK, wishlistContainsResponse{
		ProductID:  id,
		Wishlisted: currentSession(c).Wishlist.Contains(id),
	})
}

func (h *wishlistHandlers) remove(c *gin.Context) {
	sess := currentSession(c)
	if err := sess.Wishlist.RemoveItem(c.Request.Context(), c.Param("productId")); err != nil {
		writeError(c, err, http.StatusServiceUnavailable)
		return
	}
	c.JSON(http.StatusOK, buildWishlistResponse(sess))
}
