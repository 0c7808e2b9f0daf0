package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryStore keeps values in process memory. Values are stored JSON-encoded
// so callers see the same round-trip behavior as the networked backends.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
	keys   []string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

// Put stores value under key, replacing any previous value
func (m *MemoryStore) Put(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for %s: %w", key, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = data
	return nil
}

// Get decodes the value stored under key into dst
func (m *MemoryStore) Get(ctx context.Context, key string, dst any) error {
	m.mu.RLock()
	data, ok := m.values[key]
	m.mu.RUnlock()

	if !ok {
		return ErrNotFound
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to unmarshal value for %s: %w", key, err)
	}
	return nil
}

// ListKeys returns all keys in insertion order
func (m *MemoryStore) ListKeys(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys, nil
}

// Ping always succeeds
func (m *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// PutRaw stores pre-encoded bytes under key. Used to seed malformed values.
func (m *MemoryStore) PutRaw(key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = data
}

// Len returns the number of stored keys
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}
