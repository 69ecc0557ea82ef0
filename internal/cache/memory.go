package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	body    []byte
	expires time.Time
}

// Memory is an in-process Cache used with the memory KV backend.
type Memory struct {
	mu   sync.Mutex
	ttl  time.Duration
	tags map[string]map[string]memoryEntry
	gens map[string]uint64
	now  func() time.Time
}

// NewMemory creates an in-process cache. A zero ttl uses DefaultTTL.
func NewMemory(ttl time.Duration) *Memory {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Memory{ttl: ttl, tags: make(map[string]map[string]memoryEntry), gens: make(map[string]uint64), now: time.Now}
}

func (m *Memory) Get(_ context.Context, tag, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.tags[tag][key]
	if !ok {
		return nil, false
	}
	if m.now().After(e.expires) {
		delete(m.tags[tag], key)
		return nil, false
	}
	return e.body, true
}

func (m *Memory) Set(_ context.Context, tag, key string, body []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set(tag, key, body)
}

func (m *Memory) Generation(_ context.Context, tag string) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gens[tag]
}

func (m *Memory) SetIfCurrent(_ context.Context, tag, key string, gen uint64, body []byte) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gens[tag] != gen {
		return false
	}
	m.set(tag, key, body)
	return true
}

func (m *Memory) set(tag, key string, body []byte) {
	entries, ok := m.tags[tag]
	if !ok {
		entries = make(map[string]memoryEntry)
		m.tags[tag] = entries
	}
	entries[key] = memoryEntry{body: body, expires: m.now().Add(m.ttl)}
}

func (m *Memory) InvalidateTag(_ context.Context, tag string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gens[tag]++
	delete(m.tags, tag)
}
