package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	"storefront/internal/logx"
	"storefront/internal/storage"
)

type failingBackend struct {
	storage.Backend
}

func (failingBackend) Get(context.Context, string, string) (string, error) {
	return "", errors.New("backend down")
}

func newTestManager(t *testing.T, backend storage.Backend, ttl time.Duration) (*Manager, *time.Time) {
	t.Helper()
	m := NewManager(backend, ttl, logx.Nop())
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	return m, &now
}

func sampleProduct() domain.Product {
	return domain.Product{
		ID:       "w-001",
		Name:     "Silk Slip Dress",
		Price:    159,
		Category: domain.CategoryWomen,
		Sizes:    []string{"S", "M"},
		Colors:   []domain.ColorVariant{{Name: "Black"}},
	}
}

func TestGetReturnsSameSessionPerOrigin(t *testing.T) {
	m, _ := newTestManager(t, storage.NewMemory(), time.Hour)
	ctx := context.Background()

	a, err := m.Get(ctx, "https://a.example")
	require.NoError(t, err)
	again, err := m.Get(ctx, "https://a.example")
	require.NoError(t, err)
	b, err := m.Get(ctx, "https://b.example")
	require.NoError(t, err)

	assert.Same(t, a, again)
	assert.NotSame(t, a, b)
	assert.Equal(t, 2, m.Len())
}

func TestOriginsAreIsolated(t *testing.T) {
	m, _ := newTestManager(t, storage.NewMemory(), time.Hour)
	ctx := context.Background()

	a, err := m.Get(ctx, "origin-a")
	require.NoError(t, err)
	require.NoError(t, a.Cart.AddItem(ctx, sampleProduct(), "Black", "M", 2))

	b, err := m.Get(ctx, "origin-b")
	require.NoError(t, err)
	assert.Equal(t, 0, b.Cart.TotalItems())
	assert.Equal(t, 2, a.Cart.TotalItems())
}

func TestNotificationsAreQueuedPerSession(t *testing.T) {
	m, _ := newTestManager(t, storage.NewMemory(), time.Hour)
	ctx := context.Background()

	s, err := m.Get(ctx, "origin-a")
	require.NoError(t, err)
	require.NoError(t, s.Wishlist.AddItem(ctx, sampleProduct()))

	got := s.Notifications.Drain()
	require.Len(t, got, 1)
	assert.Equal(t, "Added to wishlist", got[0].Title)
	assert.Empty(t, s.Notifications.Drain())
}

func TestIdleSessionIsReloadedFromStorage(t *testing.T) {
	backend := storage.NewMemory()
	m, now := newTestManager(t, backend, time.Hour)
	ctx := context.Background()

	first, err := m.Get(ctx, "origin-a")
	require.NoError(t, err)
	require.NoError(t, first.Cart.AddItem(ctx, sampleProduct(), "Black", "S", 3))

	*now = now.Add(2 * time.Hour)
	assert.Equal(t, 1, m.Sweep(context.Background()))
	assert.Equal(t, 0, m.Len())

	second, err := m.Get(ctx, "origin-a")
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, 3, second.Cart.TotalItems())
}

func TestActiveSessionSurvivesSweep(t *testing.T) {
	m, now := newTestManager(t, storage.NewMemory(), time.Hour)
	ctx := context.Background()

	_, err := m.Get(ctx, "origin-a")
	require.NoError(t, err)
	*now = now.Add(40 * time.Minute)
	_, err = m.Get(ctx, "origin-a")
	require.NoError(t, err)
	*now = now.Add(40 * time.Minute)

	assert.Equal(t, 0, m.Sweep(context.Background()))
	assert.Equal(t, 1, m.Len())
}

func TestGetConcurrentLoadsOnce(t *testing.T) {
	m := NewManager(storage.NewMemory(), time.Hour, logx.Nop())
	ctx := context.Background()

	var wg sync.WaitGroup
	sessions := make([]*Session, 16)
	for i := range sessions {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := m.Get(ctx, "origin-a")
			if err == nil {
				sessions[i] = s
			}
		}(i)
	}
	wg.Wait()

	for _, s := range sessions {
		require.NotNil(t, s)
		assert.Same(t, sessions[0], s)
	}
}

func TestGetBackendFailure(t *testing.T) {
	m, _ := newTestManager(t, failingBackend{}, time.Hour)
	_, err := m.Get(context.Background(), "origin-a")
	assert.Error(t, err)
	assert.Equal(t, 0, m.Len())
}

func TestValidateOrigin(t *testing.T) {
	assert.NoError(t, ValidateOrigin("https://shop.example:8443"))
	assert.ErrorIs(t, ValidateOrigin(""), ErrInvalidOrigin)
	assert.ErrorIs(t, ValidateOrigin("a\x00b"), ErrInvalidOrigin)
	assert.ErrorIs(t, ValidateOrigin("line\nbreak"), ErrInvalidOrigin)
	assert.ErrorIs(t, ValidateOrigin(strings.Repeat("x", maxOriginLen+1)), ErrInvalidOrigin)

	m, _ := newTestManager(t, storage.NewMemory(), time.Hour)
	_, err := m.Get(context.Background(), "bad\x00origin")
	assert.ErrorIs(t, err, ErrInvalidOrigin)
}

func TestIssueReturnsUsableOrigin(t *testing.T) {
	m, _ := newTestManager(t, storage.NewMemory(), time.Hour)
	a, b := m.Issue(), m.Issue()
	assert.NotEqual(t, a, b)
	assert.NoError(t, ValidateOrigin(a))
}

func TestContextHelpers(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)
	assert.Panics(t, func() { MustFromContext(context.Background()) })

	s := &Session{Origin: "o"}
	ctx := NewContext(context.Background(), s)
	assert.Same(t, s, MustFromContext(ctx))
}

func TestRunStopsOnCancel(t *testing.T) {
	m := NewManager(storage.NewMemory(), time.Hour, logx.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx, time.Millisecond) }()
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

type flakyBackend struct {
	storage.Backend
	mu   sync.Mutex
	fail bool
}

func (b *flakyBackend) setFail(v bool) {
	b.mu.Lock()
	b.fail = v
	b.mu.Unlock()
}

func (b *flakyBackend) Set(ctx context.Context, origin, key, value string) error {
	b.mu.Lock()
	fail := b.fail
	b.mu.Unlock()
	if fail {
		return errors.New("write refused")
	}
	return b.Backend.Set(ctx, origin, key, value)
}

func TestSweepKeepsSessionWithUnsavedState(t *testing.T) {
	backend := &flakyBackend{Backend: storage.NewMemory(), fail: true}
	m, now := newTestManager(t, backend, time.Hour)
	ctx := context.Background()

	s, err := m.Get(ctx, "origin-a")
	require.NoError(t, err)
	require.Error(t, s.Cart.AddItem(ctx, sampleProduct(), "Black", "M", 2))

	*now = now.Add(2 * time.Hour)
	assert.Equal(t, 0, m.Sweep(ctx))
	again, err := m.Get(ctx, "origin-a")
	require.NoError(t, err)
	assert.Same(t, s, again)

	backend.setFail(false)
	*now = now.Add(2 * time.Hour)
	assert.Equal(t, 1, m.Sweep(ctx))

	raw, err := backend.Get(ctx, "origin-a", "cart")
	require.NoError(t, err)
	assert.Contains(t, raw, `"quantity":2`)
}

func TestEphemeralDoesNotRegister(t *testing.T) {
	m, _ := newTestManager(t, storage.NewMemory(), time.Hour)
	ctx := context.Background()

	s, err := m.Ephemeral(ctx, m.Issue())
	require.NoError(t, err)
	assert.Equal(t, 0, s.Cart.TotalItems())
	assert.Equal(t, 0, m.Len())

	registered, err := m.Get(ctx, "origin-a")
	require.NoError(t, err)
	same, err := m.Ephemeral(ctx, "origin-a")
	require.NoError(t, err)
	assert.Same(t, registered, same)

	_, err = m.Ephemeral(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidOrigin)
}
