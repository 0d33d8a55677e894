// Package storage provides key-value backends standing in for browser local storage.
//
// Every backend stores opaque string values under string keys. A single Set on one key
// is atomic, which is the only guarantee the repositories rely on.
package storage

import (
	"context"
	"sync"
)

// Storage is the interface that wraps methods of a key-value backend
type Storage interface {
	// Method Get retrieves the value stored under "key".
	//
	// The boolean is "false" when the key is absent, in which case the error is "nil".
	Get(ctx context.Context, key string) (string, bool, error)
	// Method Set stores "value" under "key", replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Method Remove deletes "key". Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
	// Method Close releases resources held by the backend.
	Close() error
}

// memoryStorage implements Storage with a process-local map
type memoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStorage creates a new empty in-memory storage
func NewMemoryStorage() *memoryStorage {
	return &memoryStorage{
		values: make(map[string]string),
	}
}

// Get retrieves a value by key
func (s *memoryStorage) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	return value, ok, nil
}

// Set stores a value by key
func (s *memoryStorage) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Remove deletes a key
func (s *memoryStorage) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// Close is a no-op for the in-memory storage
func (s *memoryStorage) Close() error {
	return nil
}
