// Package cart holds the per-origin cart state container.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/notify"
	"storefront/internal/storage"
)

// StorageKey is the fixed key the cart snapshot is written under.
const StorageKey = "cart"

// Cart owns the lines for one origin. Every mutation rewrites the full
// snapshot before returning; reads never touch storage.
type Cart struct {
	mu       sync.Mutex
	store    storage.Store
	notifier notify.Notifier
	logger   zerolog.Logger

	lines []domain.CartLine
	index map[domain.LineKey]int
	dirty bool
}

// Snapshot is a consistent view of the cart taken under one lock.
type Snapshot struct {
	Lines      []domain.CartLine
	TotalItems int
	Subtotal   decimal.Decimal
}

// Load restores the cart from store. A missing or unreadable snapshot yields
// an empty cart; only a failing backend is reported.
func Load(ctx context.Context, store storage.Store, notifier notify.Notifier, logger zerolog.Logger) (*Cart, error) {
	c := &Cart{
		store:    store,
		notifier: notifier,
		logger:   logger.With().Str("container", "cart").Logger(),
		index:    make(map[domain.LineKey]int),
	}

	raw, err := store.Get(ctx, StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c, nil
		}
		return nil, fmt.Errorf("load cart: %w", err)
	}

	var saved []domain.CartLine
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		c.logger.Warn().Err(err).Msg("discarding malformed cart snapshot")
		return c, nil
	}
	for _, line := range saved {
		if line.Quantity < 1 {
			continue
		}
		if i, ok := c.index[line.Key()]; ok {
			c.lines[i].Quantity += line.Quantity
			continue
		}
		c.index[line.Key()] = len(c.lines)
		c.lines = append(c.lines, line)
	}
	return c, nil
}

// AddItem merges quantity into the (product, color, size) line, creating it
// when absent. Quantities below 1 count as 1. Color and size are not checked
// against the product's variants.
func (c *Cart) AddItem(ctx context.Context, product domain.Product, color, size string, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	c.mu.Lock()
	key := domain.LineKey{ProductID: product.ID, Color: color, Size: size}
	if i, ok := c.index[key]; ok {
		c.lines[i].Quantity += quantity
	} else {
		c.index[key] = len(c.lines)
		c.lines = append(c.lines, domain.CartLine{Product: product, Color: color, Size: size, Quantity: quantity})
	}
	err := c.persistLocked(ctx)
	c.mu.Unlock()

	c.notifier.Notify(ctx, notify.Notification{
		Title:       "Added to cart",
		Description: fmt.Sprintf("%s — %s, %s", product.Name, color, size),
	})
	return err
}

// RemoveItem deletes the matching line. Removing an absent line is not an error.
func (c *Cart) RemoveItem(ctx context.Context, productID, color, size string) error {
	c.mu.Lock()
	key := domain.LineKey{ProductID: productID, Color: color, Size: size}
	if i, ok := c.index[key]; ok {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
		c.reindexLocked()
	}
	err := c.persistLocked(ctx)
	c.mu.Unlock()

	c.notifier.Notify(ctx, notify.Notification{Title: "Removed from cart"})
	return err
}

// UpdateQuantity replaces the quantity of the matching line. A quantity below
// 1 is ignored outright: the line is neither removed nor clamped.
func (c *Cart) UpdateQuantity(ctx context.Context, productID, color, size string, quantity int) error {
	if quantity < 1 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if i, ok := c.index[domain.LineKey{ProductID: productID, Color: color, Size: size}]; ok {
		c.lines[i].Quantity = quantity
	}
	return c.persistLocked(ctx)
}

// Clear removes every line.
func (c *Cart) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
	c.index = make(map[domain.LineKey]int)
	return c.persistLocked(ctx)
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []domain.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// TotalItems is the sum of all line quantities.
func (c *Cart) TotalItems() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, l := range c.lines {
		total += l.Quantity
	}
	return total
}

// Subtotal is the sum of snapshot price × quantity over all lines.
func (c *Cart) Subtotal() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Subtotal(c.lines)
}

// Snapshot returns lines and totals that agree with each other.
func (c *Cart) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := Snapshot{Lines: make([]domain.CartLine, len(c.lines)), Subtotal: Subtotal(c.lines)}
	copy(out.Lines, c.lines)
	for _, l := range c.lines {
		out.TotalItems += l.Quantity
	}
	return out
}

// Checkout hands the current lines to place and empties the cart only if
// place succeeds. The cart stays locked throughout, so no line can be added
// between the hand-off and the clear. A non-nil error from place is
// returned unchanged and leaves the cart untouched.
func (c *Cart) Checkout(ctx context.Context, place func(lines []domain.CartLine) error) (persistErr error, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	lines := make([]domain.CartLine, len(c.lines))
	copy(lines, c.lines)
	if err := place(lines); err != nil {
		return nil, err
	}
	c.lines = nil
	c.index = make(map[domain.LineKey]int)
	return c.persistLocked(ctx), nil
}

// Dirty reports whether the last write to storage failed.
func (c *Cart) Dirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty
}

// Flush rewrites the snapshot.
func (c *Cart) Flush(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.persistLocked(ctx)
}

// Subtotal prices lines with their captured product snapshots.
func Subtotal(lines []domain.CartLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(decimal.NewFromFloat(l.Product.Price).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return sum
}

func (c *Cart) reindexLocked() {
	c.index = make(map[domain.LineKey]int, len(c.lines))
	for i, l := range c.lines {
		c.index[l.Key()] = i
	}
}

func (c *Cart) persistLocked(ctx context.Context) error {
	lines := c.lines
	if lines == nil {
		lines = []domain.CartLine{}
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := c.store.Set(ctx, StorageKey, string(raw)); err != nil {
		c.dirty = true
		c.logger.Error().Err(err).Int("lines", len(lines)).Msg("persist cart snapshot")
		return fmt.Errorf("persist cart: %w", err)
	}
	c.dirty = false
	return nil
}
