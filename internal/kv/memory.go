package kv

import (
	"context"
	"slices"
	"sync"
)

// Memory is an in-process Store. Each instance has its own map, so tests
// get isolated storage by constructing a new one.
type Memory struct {
	mu      sync.Mutex
	entries map[string]Entry
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]Entry)}
}

func (m *Memory) Get(_ context.Context, key string) (*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, nil
	}
	return &Entry{Value: slices.Clone(e.Value), Version: e.Version}, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = Entry{Value: slices.Clone(value), Version: m.entries[key].Version + 1}
	return nil
}

func (m *Memory) CompareAndSet(_ context.Context, key string, value []byte, expected int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.entries[key].Version
	if current != expected {
		return 0, ErrVersionMismatch
	}
	next := current + 1
	m.entries[key] = Entry{Value: slices.Clone(value), Version: next}
	return next, nil
}

func (m *Memory) Close() error { return nil }
