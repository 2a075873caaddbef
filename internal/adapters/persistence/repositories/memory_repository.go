package repositories

import (
	"context"
	"sync"
)

// MemoryKeyValueRepository keeps entries in process memory.
// Used for development and tests.
type MemoryKeyValueRepository struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemoryKeyValueRepository creates a new in-memory repository
func NewMemoryKeyValueRepository() *MemoryKeyValueRepository {
	return &MemoryKeyValueRepository{entries: make(map[string][]byte)}
}

// Get gets a copy of the value stored under key
func (r *MemoryKeyValueRepository) Get(ctx context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.entries[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// PutAll stores every entry under one lock
func (r *MemoryKeyValueRepository) PutAll(ctx context.Context, entries map[string][]byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for key, value := range entries {
		stored := make([]byte, len(value))
		copy(stored, value)
		r.entries[key] = stored
	}
	return nil
}

// Ping always succeeds
func (r *MemoryKeyValueRepository) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op
func (r *MemoryKeyValueRepository) Close() error {
	return nil
}
