package store

import "sync"

type pendingUpdate struct {
	key       string
	fn        UpdateFunc
	committed func()
}

// BatchStore queues updates until Flush, modelling deferred state commits.
// Load only observes flushed values.
type BatchStore struct {
	mu      sync.Mutex
	values  map[string]any
	pending []pendingUpdate
}

// NewBatchStore returns an empty BatchStore.
func NewBatchStore() *BatchStore {
	return &BatchStore{values: map[string]any{}}
}

func (s *BatchStore) Load(key string) (any, bool) {
	s.mu.Lock()
	value, ok := s.values[key]
	s.mu.Unlock()
	return value, ok
}

func (s *BatchStore) Seed(key string, value any) bool {
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

// Update queues the update. Nothing is visible until Flush.
func (s *BatchStore) Update(key string, fn UpdateFunc, committed func()) {
	s.mu.Lock()
	s.pending = append(s.pending, pendingUpdate{key: key, fn: fn, committed: committed})
	s.mu.Unlock()
}

// Pending returns the number of queued updates.
func (s *BatchStore) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Flush applies every queued update in call order, then runs their commit
// callbacks in the same order. Updates queued by a callback wait for the next
// Flush. It returns the number of updates applied.
func (s *BatchStore) Flush() int {
	s.mu.Lock()
	batch := s.pending
	s.pending = nil
	if s.values == nil {
		s.values = map[string]any{}
	}
	for _, update := range batch {
		s.values[update.key] = apply(update.fn, s.values[update.key])
	}
	s.mu.Unlock()

	for _, update := range batch {
		if update.committed != nil {
			update.committed()
		}
	}
	return len(batch)
}

// Snapshot returns a copy of every flushed value.
func (s *BatchStore) Snapshot() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneValues(s.values)
}
