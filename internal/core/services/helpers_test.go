package services

import (
	"sync"
	"time"

	"github.com/custodia-labs/datacrafter/internal/adapters/driven/storage/memory"
)

// countingStore wraps a memory store and counts writes.
type countingStore struct {
	*memory.KVStore
	mu      sync.Mutex
	writes  int
	removes int
	failSet error
}

func newCountingStore() *countingStore {
	return &countingStore{KVStore: memory.NewKVStore(0)}
}

func (s *countingStore) Set(key, value string) error {
	s.mu.Lock()
	s.writes++
	fail := s.failSet
	s.mu.Unlock()
	if fail != nil {
		return fail
	}
	return s.KVStore.Set(key, value)
}

func (s *countingStore) Remove(key string) error {
	s.mu.Lock()
	s.removes++
	s.mu.Unlock()
	return s.KVStore.Remove(key)
}

func (s *countingStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// stepClock returns a clock that advances by one millisecond per reading.
func stepClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	current := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Millisecond)
		return current
	}
}

var testEpoch = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

// newStores wires a gateway and both stores over a counting store.
func newStores() (*Gateway, *MetricsService, *DashboardService, *countingStore) {
	kv := newCountingStore()
	g := NewGateway(kv, WithClock(stepClock(testEpoch)))
	return g, NewMetricsService(g), NewDashboardService(g), kv
}
