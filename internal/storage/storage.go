// Package storage provides the durable, origin-scoped key-value surface the
// cart and wishlist containers persist their snapshots into.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("storage: key not found")

// Backend stores values for many origins.
type Backend interface {
	Get(ctx context.Context, origin, key string) (string, error)
	Set(ctx context.Context, origin, key, value string) error
	Ping(ctx context.Context) error
	Close() error
}

// Store is a single origin's view of a Backend.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

type scoped struct {
	backend Backend
	origin  string
}

// Scoped binds backend to origin.
func Scoped(backend Backend, origin string) Store {
	return &scoped{backend: backend, origin: origin}
}

func (s *scoped) Get(ctx context.Context, key string) (string, error) {
	return s.backend.Get(ctx, s.origin, key)
}

func (s *scoped) Set(ctx context.Context, key, value string) error {
	return s.backend.Set(ctx, s.origin, key, value)
}
