package seed

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"storefront/internal/catalog"
	"storefront/internal/notify"
	"storefront/internal/service/cart"
	"storefront/internal/service/wishlist"
	"storefront/internal/storage"
)

// DemoOrigin is the origin seeded when none is given.
const DemoOrigin = "http://localhost:5173"

type lineSeed struct {
	ProductID string
	Color     string
	Size      string
	Quantity  int
}

var (
	cartSeed = []lineSeed{
		{ProductID: "w-001", Color: "Black", Size: "M", Quantity: 1},
		{ProductID: "m-002", Color: "White", Size: "L", Quantity: 2},
	}
	wishlistSeed = []string{"a-001", "k-002"}
)

// Apply fills origin's cart and wishlist with demo data for manual testing.
// It is idempotent: a non-empty cart is left alone and wishlist adds are
// deduplicated.
func Apply(ctx context.Context, backend storage.Backend, products *catalog.Store, origin string, logger zerolog.Logger) error {
	store := storage.Scoped(backend, origin)
	notifier := notify.Log(logger)

	c, err := cart.Load(ctx, store, notifier, logger)
	if err != nil {
		return fmt.Errorf("load cart: %w", err)
	}
	if c.TotalItems() == 0 {
		for _, s := range cartSeed {
			p, err := products.Get(s.ProductID)
			if err != nil {
				return fmt.Errorf("seed product %s: %w", s.ProductID, err)
			}
			if err := c.AddItem(ctx, p, s.Color, s.Size, s.Quantity); err != nil {
				return fmt.Errorf("seed cart line %s: %w", s.ProductID, err)
			}
		}
	}

	w, err := wishlist.Load(ctx, store, notifier, logger)
	if err != nil {
		return fmt.Errorf("load wishlist: %w", err)
	}
	for _, id := range wishlistSeed {
		p, err := products.Get(id)
		if err != nil {
			return fmt.Errorf("seed product %s: %w", id, err)
		}
		if err := w.AddItem(ctx, p); err != nil {
			return fmt.Errorf("seed wishlist item %s: %w", id, err)
		}
	}

	logger.Info().
		Str("origin", origin).
		Int("cart_items", c.TotalItems()).
		Int("wishlist_items", w.TotalItems()).
		Msg("seed applied")
	return nil
}
