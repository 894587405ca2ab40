package storage

import (
	"context"
	"sync"
)

type memoryBackend struct {
	mu      sync.RWMutex
	entries map[string]map[string]string
}

// NewMemory returns a process-local Backend. Values are lost on exit.
func NewMemory() Backend {
	return &memoryBackend{entries: make(map[string]map[string]string)}
}

func (m *memoryBackend) Get(_ context.Context, origin, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[origin][key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *memoryBackend) Set(_ context.Context, origin, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	byKey, ok := m.entries[origin]
	if !ok {
		byKey = make(map[string]string)
		m.entries[origin] = byKey
	}
	byKey[key] = value
	return nil
}

func (m *memoryBackend) Ping(context.Context) error { return nil }

func (m *memoryBackend) Close() error { return nil }
