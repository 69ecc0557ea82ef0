package storage

import (
	"context"
	"fmt"
	"io"
	"sync"
)

const memoryScheme = "memory://"

// Memory keeps objects in process. URLs have the form memory://<key>.
type Memory struct {
	mu      sync.Mutex
	objects map[string]MemoryObject
	// FailDelete, when set, is returned by every Delete call.
	FailDelete error
}

// MemoryObject is a stored object.
type MemoryObject struct {
	ContentType string
	Data        []byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{objects: make(map[string]MemoryObject)}
}

func (m *Memory) Put(_ context.Context, key, contentType string, body io.Reader, _ int64) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("memory upload %s: %w", key, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = MemoryObject{ContentType: contentType, Data: data}
	return memoryScheme + key, nil
}

func (m *Memory) Delete(_ context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailDelete != nil {
		return m.FailDelete
	}
	key, ok := keyFromURL(url, memoryScheme)
	if !ok {
		return fmt.Errorf("memory delete %s: %w", url, ErrForeignURL)
	}
	delete(m.objects, key)
	return nil
}

// Object returns the object stored under key.
func (m *Memory) Object(key string) (MemoryObject, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.objects[key]
	return o, ok
}

// Len returns the number of stored objects.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
