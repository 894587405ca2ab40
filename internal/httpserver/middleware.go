package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"storefront/internal/session"
)

// OriginHeader names the storage scope of a client. It is echoed on every
// session-scoped response and issued when the request has none. Read-only
// requests without one get an empty session that is not kept.
const OriginHeader = "X-Storefront-Origin"

func sessionMiddleware(sessions Sessions, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		resolve := sessions.Get
		origin := c.GetHeader(OriginHeader)
		if origin == "" {
			origin = sessions.Issue()
			if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
				resolve = sessions.Ephemeral
			}
		}
		sess, err := resolve(c.Request.Context(), origin)
		if err != nil {
			if errors.Is(err, session.ErrInvalidOrigin) {
				abortWithError(c, http.StatusBadRequest, err)
				return
			}
			logger.Error().Err(err).Msg("load session")
			abortWithError(c, http.StatusServiceUnavailable, errors.New("storage unavailable"))
			return
		}
		c.Header(OriginHeader, sess.Origin)
		c.Request = c.Request.WithContext(session.NewContext(c.Request.Context(), sess))
		c.Next()
	}
}

func currentSession(c *gin.Context) *session.Session {
	return session.MustFromContext(c.Request.Context())
}
