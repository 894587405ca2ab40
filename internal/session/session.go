// Package session owns the per-origin cart, wishlist and notification queue.
// A Manager is built once in main and handed to the HTTP layer; handlers
// reach the current session only through the request context.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"storefront/internal/notify"
	"storefront/internal/service/cart"
	"storefront/internal/service/wishlist"
	"storefront/internal/storage"
)

// ErrInvalidOrigin is returned for origins that cannot be used as storage
// scopes.
var ErrInvalidOrigin = errors.New("invalid origin")

const maxOriginLen = 256

// Session is the state bound to one origin.
type Session struct {
	Origin        string
	Cart          *cart.Cart
	Wishlist      *wishlist.Wishlist
	Notifications *notify.Queue
}

type entry struct {
	session  *Session
	lastSeen time.Time
}

// Manager creates sessions lazily and drops them after they sit idle for
// longer than the configured TTL. Dropped sessions are reloaded from storage
// on next use.
type Manager struct {
	backend storage.Backend
	logger  zerolog.Logger
	idleTTL time.Duration
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
	loads    singleflight.Group
}

func NewManager(backend storage.Backend, idleTTL time.Duration, logger zerolog.Logger) *Manager {
	if idleTTL <= 0 {
		idleTTL = 24 * time.Hour
	}
	return &Manager{
		backend:  backend,
		logger:   logger,
		idleTTL:  idleTTL,
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
}

// Issue returns a fresh origin for a client that did not present one.
func (m *Manager) Issue() string {
	return uuid.NewString()
}

// Get returns the session for origin, restoring its cart and wishlist from
// storage the first time it is seen.
func (m *Manager) Get(ctx context.Context, origin string) (*Session, error) {
	if err := ValidateOrigin(origin); err != nil {
		return nil, err
	}
	if s, ok := m.lookup(origin); ok {
		return s, nil
	}

	v, err, _ := m.loads.Do(origin, func() (any, error) {
		if s, ok := m.lookup(origin); ok {
			return s, nil
		}
		s, err := m.load(ctx, origin)
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.sessions[origin] = &entry{session: s, lastSeen: m.now()}
		m.mu.Unlock()
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Session), nil
}

// Ephemeral returns the session for origin without registering it. Used for
// read-only requests from clients that have not been issued an origin yet.
func (m *Manager) Ephemeral(ctx context.Context, origin string) (*Session, error) {
	if err := ValidateOrigin(origin); err != nil {
		return nil, err
	}
	if s, ok := m.lookup(origin); ok {
		return s, nil
	}
	return m.load(ctx, origin)
}

func (m *Manager) lookup(origin string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[origin]
	if !ok {
		return nil, false
	}
	now := m.now()
	if now.Sub(e.lastSeen) > m.idleTTL && !unsaved(e.session) {
		delete(m.sessions, origin)
		return nil, false
	}
	e.lastSeen = now
	return e.session, true
}

func (m *Manager) load(ctx context.Context, origin string) (*Session, error) {
	logger := m.logger.With().Str("origin", origin).Logger()
	store := storage.Scoped(m.backend, origin)
	queue := notify.NewQueue(0)
	notifier := notify.Multi(queue, notify.Log(logger))

	c, err := cart.Load(ctx, store, notifier, logger)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", origin, err)
	}
	w, err := wishlist.Load(ctx, store, notifier, logger)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", origin, err)
	}
	logger.Debug().Int("cart_items", c.TotalItems()).Int("wishlist_items", w.TotalItems()).Msg("session loaded")
	return &Session{Origin: origin, Cart: c, Wishlist: w, Notifications: queue}, nil
}

// Sweep drops every session idle for longer than the TTL and returns how
// many were removed. A session whose last write failed is written again
// first and kept when that write fails too.
func (m *Manager) Sweep(ctx context.Context) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	removed := 0
	for origin, e := range m.sessions {
		if now.Sub(e.lastSeen) <= m.idleTTL {
			continue
		}
		if err := flush(ctx, e.session); err != nil {
			m.logger.Warn().Err(err).Str("origin", origin).Msg("keeping idle session with unsaved state")
			continue
		}
		delete(m.sessions, origin)
		removed++
	}
	return removed
}

func unsaved(s *Session) bool {
	return s.Cart.Dirty() || s.Wishlist.Dirty()
}

func flush(ctx context.Context, s *Session) error {
	if s.Cart.Dirty() {
		if err := s.Cart.Flush(ctx); err != nil {
			return err
		}
	}
	if s.Wishlist.Dirty() {
		if err := s.Wishlist.Flush(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Run sweeps idle sessions every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := m.Sweep(ctx); n > 0 {
				m.logger.Debug().Int("removed", n).Msg("idle sessions swept")
			}
		}
	}
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// ValidateOrigin rejects empty, oversized and control-character origins.
func ValidateOrigin(origin string) error {
	if origin == "" {
		return fmt.Errorf("%w: empty", ErrInvalidOrigin)
	}
	if len(origin) > maxOriginLen {
		return fmt.Errorf("%w: longer than %d bytes", ErrInvalidOrigin, maxOriginLen)
	}
	for _, r := range origin {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character", ErrInvalidOrigin)
		}
	}
	return nil
}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored in ctx, if any.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}

// MustFromContext panics when ctx carries no session. Only handlers mounted
// behind the session middleware may call it.
func MustFromContext(ctx context.Context) *Session {
	s, ok := FromContext(ctx)
	if !ok {
		panic("session: no session in context")
	}
	return s
}
