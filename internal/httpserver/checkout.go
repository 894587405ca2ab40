package httpserver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/service/checkout"
)

type checkoutHandlers struct {
	placer OrderPlacer
}

func (h *checkoutHandlers) summary(c *gin.Context) {
	snap := currentSession(c).Cart.Snapshot()
	c.JSON(http.StatusOK, summaryResponse{
		Summary: checkout.SummarizeLines(snap.Lines),
		Lines:   toCartLineViews(snap.Lines),
	})
}

func (h *checkoutHandlers) place(c *gin.Context) {
	var req checkout.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %v", errBadRequest, err), http.StatusBadRequest)
		return
	}
	sess := currentSession(c)
	order, err := h.placer.PlaceOrder(c.Request.Context(), sess.Origin, sess.Cart, sess.Notifications, req)
	if err != nil {
		writeError(c, err, http.StatusServiceUnavailable)
		return
	}
	c.JSON(http.StatusCreated, orderResponse{Order: order, Notifications: drain(sess)})
}
