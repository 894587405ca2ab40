// Package wishlist holds the per-origin wishlist state container.
package wishlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"storefront/internal/domain"
	"storefront/internal/notify"
	"storefront/internal/storage"
)

// StorageKey is the fixed key the wishlist snapshot is written under.
const StorageKey = "wishlist"

// Wishlist is an ordered set of product snapshots keyed by product id.
type Wishlist struct {
	mu       sync.Mutex
	store    storage.Store
	notifier notify.Notifier
	logger   zerolog.Logger

	items []domain.Product
	ids   map[string]struct{}
	dirty bool
}

// Load restores the wishlist from store, failing closed on a malformed snapshot.
func Load(ctx context.Context, store storage.Store, notifier notify.Notifier, logger zerolog.Logger) (*Wishlist, error) {
	w := &Wishlist{
		store:    store,
		notifier: notifier,
		logger:   logger.With().Str("container", "wishlist").Logger(),
		ids:      make(map[string]struct{}),
	}

	raw, err := store.Get(ctx, StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return w, nil
		}
		return nil, fmt.Errorf("load wishlist: %w", err)
	}

	var saved []domain.Product
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		w.logger.Warn().Err(err).Msg("discarding malformed wishlist snapshot")
		return w, nil
	}
	for _, p := range saved {
		if _, dup := w.ids[p.ID]; dup || p.ID == "" {
			continue
		}
		w.ids[p.ID] = struct{}{}
		w.items = append(w.items, p)
	}
	return w, nil
}

// AddItem saves product unless its id is already present, in which case
// nothing is written and no notification is sent.
func (w *Wishlist) AddItem(ctx context.Context, product domain.Product) error {
	w.mu.Lock()
	if _, ok := w.ids[product.ID]; ok {
		w.mu.Unlock()
		return nil
	}
	w.ids[product.ID] = struct{}{}
	w.items = append(w.items, product)
	err := w.persistLocked(ctx)
	w.mu.Unlock()

	w.notifier.Notify(ctx, notify.Notification{Title: "Added to wishlist", Description: product.Name})
	return err
}

// RemoveItem drops productID if present.
func (w *Wishlist) RemoveItem(ctx context.Context, productID string) error {
	w.mu.Lock()
	if _, ok := w.ids[productID]; ok {
		delete(w.ids, productID)
		kept := w.items[:0]
		for _, p := range w.items {
			if p.ID != productID {
				kept = append(kept, p)
			}
		}
		w.items = kept
	}
	err := w.persistLocked(ctx)
	w.mu.Unlock()

	w.notifier.Notify(ctx, notify.Notification{Title: "Removed from wishlist"})
	return err
}

// Contains reports whether productID is saved.
func (w *Wishlist) Contains(productID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.ids[productID]
	return ok
}

// Items returns the saved products in the order they were added.
func (w *Wishlist) Items() []domain.Product {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]domain.Product, len(w.items))
	copy(out, w.items)
	return out
}

// TotalItems is the number of saved products.
func (w *Wishlist) TotalItems() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.items)
}

// Dirty reports whether the last write to storage failed.
func (w *Wishlist) Dirty() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dirty
}

// Flush rewrites the snapshot.
func (w *Wishlist) Flush(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.persistLocked(ctx)
}

func (w *Wishlist) persistLocked(ctx context.Context) error {
	items := w.items
	if items == nil {
		items = []domain.Product{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode wishlist: %w", err)
	}
	if err := w.store.Set(ctx, StorageKey, string(raw)); err != nil {
		w.dirty = true
		w.logger.Error().Err(err).Int("items", len(items)).Msg("persist wishlist snapshot")
		return fmt.Errorf("persist wishlist: %w", err)
	}
	w.dirty = false
	return nil
}
