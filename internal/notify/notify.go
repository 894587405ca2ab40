// Package notify carries fire-and-forget user feedback produced by cart,
// wishlist and checkout mutations.
package notify

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Notification is a short user-facing message.
type Notification struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Notifier accepts notifications without reporting delivery.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Func adapts a plain function to Notifier.
type Func func(ctx context.Context, n Notification)

func (f Func) Notify(ctx context.Context, n Notification) { f(ctx, n) }

// Multi fans a notification out to every notifier in order.
func Multi(notifiers ...Notifier) Notifier {
	return Func(func(ctx context.Context, n Notification) {
		for _, nt := range notifiers {
			nt.Notify(ctx, n)
		}
	})
}

// Log writes notifications at debug level.
func Log(logger zerolog.Logger) Notifier {
	return Func(func(_ context.Context, n Notification) {
		logger.Debug().Str("title", n.Title).Str("description", n.Description).Msg("notification")
	})
}

// Queue buffers notifications until Drain is called. The HTTP layer drains it
// into each response so the client can show them.
type Queue struct {
	mu    sync.Mutex
	items []Notification
	limit int
}

// NewQueue keeps at most limit pending notifications, dropping the oldest.
func NewQueue(limit int) *Queue {
	if limit <= 0 {
		limit = 20
	}
	return &Queue{limit: limit}
}

func (q *Queue) Notify(_ context.Context, n Notification) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, n)
	if over := len(q.items) - q.limit; over > 0 {
		q.items = append(q.items[:0:0], q.items[over:]...)
	}
}

// Drain returns pending notifications oldest first and empties the queue.
func (q *Queue) Drain() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = nil
	return out
}
