package store

import "sync"

// MemoryStore is the default synchronous Store.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]any{}}
}

func (s *MemoryStore) Load(key string) (any, bool) {
	s.mu.RLock()
	value, ok := s.values[key]
	s.mu.RUnlock()
	return value, ok
}

func (s *MemoryStore) Seed(key string, value any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values == nil {
		s.values = map[string]any{}
	}
	if _, ok := s.values[key]; ok {
		return false
	}
	s.values[key] = value
	return true
}

func (s *MemoryStore) Update(key string, fn UpdateFunc, committed func()) {
	s.mu.Lock()
	if s.values == nil {
		s.values = map[string]any{}
	}
	s.values[key] = apply(fn, s.values[key])
	s.mu.Unlock()

	if committed != nil {
		committed()
	}
}

// Snapshot returns a copy of every stored value.
func (s *MemoryStore) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneValues(s.values)
}
