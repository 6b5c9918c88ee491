// Package storage provides the durable key-value store the onboarding
// wizard persists drafts into. The contract mirrors web local storage:
// string keys, string values, absent keys are not an error, and a broken
// backing store degrades to behaving as if empty.
package storage

import "sync"

// Store is a durable key-value store. Implementations must tolerate
// corruption and I/O failure without returning errors to callers; the
// wizard treats storage as best effort.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool)
	// Set stores the value for key, overwriting any previous value.
	Set(key, value string)
	// Remove deletes the key. Removing an absent key is a no-op.
	Remove(key string)
}

// MemoryStore is an in-memory Store, used in tests and as the fallback
// when no durable path is configured.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemoryStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

func (s *MemoryStore) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}
