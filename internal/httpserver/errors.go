package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	"storefront/internal/service/checkout"
	"storefront/internal/session"
)

var errBadRequest = errors.New("bad request")

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps domain errors to HTTP codes. Anything unrecognised gets
// fallback.
func statusFor(err error, fallback int) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrEmptyCart):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidProduct),
		errors.Is(err, checkout.ErrInvalidRequest),
		errors.Is(err, session.ErrInvalidOrigin),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return fallback
	}
}

func writeError(c *gin.Context, err error, fallback int) {
	abortWithError(c, statusFor(err, fallback), err)
}

func abortWithError(c *gin.Context, status int, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, errorResponse{Error: err.Error()})
}
