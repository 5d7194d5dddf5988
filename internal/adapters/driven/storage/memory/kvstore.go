package memory

import (
	"fmt"
	"sync"

	"github.com/custodia-labs/datacrafter/internal/core/domain"
	"github.com/custodia-labs/datacrafter/internal/core/ports/driven"
)

// Ensure KVStore implements the interface.
var _ driven.KeyValueStore = (*KVStore)(nil)

// KVStore is an in-memory key-value store with an optional byte quota.
// It is used in tests and when no durable backend is configured.
type KVStore struct {
	mu     sync.RWMutex
	values map[string]string
	quota  int
	used   int
}

// NewKVStore creates a new in-memory key-value store.
// A quota of zero or less means unbounded.
func NewKVStore(quota int) *KVStore {
	return &KVStore{
		values: make(map[string]string),
		quota:  quota,
	}
}

// Get returns the value stored under key.
func (s *KVStore) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.values[key]
	return val, ok, nil
}

// Set stores value under key. Keys and values both count towards the quota.
func (s *KVStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	used := s.used
	if old, ok := s.values[key]; ok {
		used -= len(key) + len(old)
	}
	used += len(key) + len(value)
	if s.quota > 0 && used > s.quota {
		return fmt.Errorf("set %s: %w", key, domain.ErrQuotaExceeded)
	}

	s.values[key] = value
	s.used = used
	return nil
}

// Remove deletes key.
func (s *KVStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.values[key]; ok {
		s.used -= len(key) + len(old)
		delete(s.values, key)
	}
	return nil
}

// Used returns the number of bytes currently stored.
func (s *KVStore) Used() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.used
}
