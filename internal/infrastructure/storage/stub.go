package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// MemoryObjectStorage keeps objects in process memory.
// Use this for development and tests when no bucket is available.
type MemoryObjectStorage struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// Ensure MemoryObjectStorage implements ObjectReader
var _ ObjectReader = (*MemoryObjectStorage)(nil)

// NewMemoryObjectStorage creates an empty MemoryObjectStorage
func NewMemoryObjectStorage() *MemoryObjectStorage {
	return &MemoryObjectStorage{objects: make(map[string][]byte)}
}

// Put stores a copy of data under key
func (m *MemoryObjectStorage) Put(key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = append([]byte(nil), data...)
}

// Download returns a copy of the object stored under key
func (m *MemoryObjectStorage) Download(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, errors.New("storage key is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, key)
	}
	return append([]byte(nil), data...), nil
}
