package httpserver

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"storefront/internal/catalog"
	"storefront/internal/domain"
	"storefront/internal/notify"
	"storefront/internal/service/checkout"
	"storefront/internal/session"
)

// Pinger reports whether the storage backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Sessions resolves the per-origin session for a request.
type Sessions interface {
	Issue() string
	Get(ctx context.Context, origin string) (*session.Session, error)
	Ephemeral(ctx context.Context, origin string) (*session.Session, error)
}

// OrderPlacer runs checkout for a session's cart.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, origin string, c checkout.Cart, notifier notify.Notifier, req checkout.Request) (domain.Order, error)
}

// Deps groups the collaborators the router needs.
type Deps struct {
	Catalog  *catalog.Store
	Sessions Sessions
	Checkout OrderPlacer
	Storage  Pinger
}

// buildRouter wires routes for the API.
func buildRouter(logger zerolog.Logger, deps Deps, corsOrigins []string) (*gin.Engine, error) {
	if deps.Catalog == nil || deps.Sessions == nil || deps.Checkout == nil {
		return nil, errors.New("httpserver: catalog, sessions and checkout are required")
	}

	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger), gin.Recovery())
	router.Use(cors.New(corsConfig(corsOrigins)))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Storage))

	products := &productHandlers{catalog: deps.Catalog}
	router.GET("/products", products.list)
	router.GET("/products/facets", products.facets)
	router.GET("/products/trending", products.trending)
	router.GET("/products/new", products.newArrivals)
	router.GET("/products/:id", products.get)
	router.GET("/products/:id/related", products.related)

	scoped := router.Group("/", sessionMiddleware(deps.Sessions, logger))

	carts := &cartHandlers{catalog: deps.Catalog}
	scoped.GET("/cart", carts.get)
	scoped.POST("/cart/items", carts.add)
	scoped.PATCH("/cart/items", carts.update)
	scoped.DELETE("/cart/items", carts.remove)
	scoped.DELETE("/cart", carts.clear)

	wishlists := &wishlistHandlers{catalog: deps.Catalog}
	scoped.GET("/wishlist", wishlists.get)
	scoped.POST("/wishlist/items", wishlists.add)
	scoped.GET("/wishlist/items/:productId", wishlists.contains)
	scoped.DELETE("/wishlist/items/:productId", wishlists.remove)

	orders := &checkoutHandlers{placer: deps.Checkout}
	scoped.GET("/checkout/summary", orders.summary)
	scoped.POST("/checkout", orders.place)

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", OriginHeader},
		ExposeHeaders: []string{OriginHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
