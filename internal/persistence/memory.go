package persistence

import (
	"context"
	"slices"
	"sync"
)

// MemoryStorage keeps slots in process memory. Nothing survives a restart.
type MemoryStorage struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{slots: make(map[string][]byte)}
}

func (m *MemoryStorage) Load(_ context.Context, slot string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.slots[slot]
	if !ok {
		return nil, ErrSlotNotFound
	}
	return slices.Clone(data), nil
}

func (m *MemoryStorage) Save(_ context.Context, slot string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[slot] = slices.Clone(data)
	return nil
}

func (m *MemoryStorage) Close() error { return nil }
