package store_test

import (
	"sync"
	"testing"

	"github.com/goliatone/go-controllable/pkg/store"
)

type flusher interface {
	Flush() int
}

var storeFactories = []struct {
	name string
	new  func() store.Store
}{
	{name: "memory", new: func() store.Store { return store.NewMemoryStore() }},
	{name: "batch", new: func() store.Store { return store.NewBatchStore() }},
}

func flush(s store.Store) {
	if f, ok := s.(flusher); ok {
		f.Flush()
	}
}

func TestStoreSeedOnlyOnce(t *testing.T) {
	for _, factory := range storeFactories {
		t.Run(factory.name, func(t *testing.T) {
			s := factory.new()
			if !s.Seed("count", 1) {
				t.Fatalf("expected first seed to store value")
			}
			if s.Seed("count", 2) {
				t.Fatalf("expected second seed to be ignored")
			}
			value, ok := s.Load("count")
			if !ok || value != 1 {
				t.Fatalf("expected seeded value 1, got %v (ok=%t)", value, ok)
			}
		})
	}
}

func TestStoreSeedKeepsUpdatedValue(t *testing.T) {
	for _, factory := range storeFactories {
		t.Run(factory.name, func(t *testing.T) {
			s := factory.new()
			s.Seed("count", 0)
			s.Update("count", func(any) any { return 5 }, nil)
			flush(s)
			s.Seed("count", 0)
			if value, _ := s.Load("count"); value != 5 {
				t.Fatalf("expected reseed to keep 5, got %v", value)
			}
		})
	}
}

func TestStoreUpdatesSeeJustPriorValue(t *testing.T) {
	for _, factory := range storeFactories {
		t.Run(factory.name, func(t *testing.T) {
			s := factory.new()
			s.Seed("count", 0)
			var seen []any
			for i := 0; i < 3; i++ {
				s.Update("count", func(prev any) any {
					seen = append(seen, prev)
					return prev.(int) + 1
				}, nil)
			}
			flush(s)
			if value, _ := s.Load("count"); value != 3 {
				t.Fatalf("expected 3 after three increments, got %v", value)
			}
			if len(seen) != 3 || seen[0] != 0 || seen[1] != 1 || seen[2] != 2 {
				t.Fatalf("expected previous values 0,1,2, got %v", seen)
			}
		})
	}
}

func TestStoreCommittedSeesNewValue(t *testing.T) {
	for _, factory := range storeFactories {
		t.Run(factory.name, func(t *testing.T) {
			s := factory.new()
			s.Seed("flag", false)
			var observed any
			calls := 0
			s.Update("flag", func(any) any { return true }, func() {
				calls++
				observed, _ = s.Load("flag")
			})
			flush(s)
			if calls != 1 {
				t.Fatalf("expected one commit callback, got %d", calls)
			}
			if observed != true {
				t.Fatalf("expected commit callback to observe true, got %v", observed)
			}
		})
	}
}

func TestMemoryStoreConcurrentIncrements(t *testing.T) {
	s := store.NewMemoryStore()
	s.Seed("count", 0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Update("count", func(prev any) any { return prev.(int) + 1 }, nil)
		}()
	}
	wg.Wait()

	if value, _ := s.Load("count"); value != 50 {
		t.Fatalf("expected 50 increments without lost updates, got %v", value)
	}
}

func TestBatchStoreDefersUntilFlush(t *testing.T) {
	s := store.NewBatchStore()
	s.Seed("count", 1)

	committed := false
	s.Update("count", func(prev any) any { return prev.(int) * 10 }, func() { committed = true })

	if value, _ := s.Load("count"); value != 1 {
		t.Fatalf("expected value unchanged before flush, got %v", value)
	}
	if committed {
		t.Fatalf("expected commit callback to wait for flush")
	}
	if s.Pending() != 1 {
		t.Fatalf("expected one pending update, got %d", s.Pending())
	}

	if applied := s.Flush(); applied != 1 {
		t.Fatalf("expected one applied update, got %d", applied)
	}
	if value, _ := s.Load("count"); value != 10 || !committed {
		t.Fatalf("expected 10 and committed after flush, got %v committed=%t", value, committed)
	}
}

func TestBatchStoreCallbacksRunAfterWholeBatch(t *testing.T) {
	s := store.NewBatchStore()
	s.Seed("a", 0)
	s.Seed("b", 0)

	var observedB any
	s.Update("a", func(any) any { return 1 }, func() {
		observedB, _ = s.Load("b")
	})
	s.Update("b", func(any) any { return 2 }, nil)
	s.Flush()

	if observedB != 2 {
		t.Fatalf("expected first callback to observe the whole batch, got b=%v", observedB)
	}
}

func TestBatchStoreUpdatesQueuedByCallbacksWait(t *testing.T) {
	s := store.NewBatchStore()
	s.Seed("count", 0)
	s.Update("count", func(prev any) any { return prev.(int) + 1 }, func() {
		s.Update("count", func(prev any) any { return prev.(int) + 1 }, nil)
	})

	if applied := s.Flush(); applied != 1 {
		t.Fatalf("expected first flush to apply one update, got %d", applied)
	}
	if s.Pending() != 1 {
		t.Fatalf("expected callback update to be queued, got %d pending", s.Pending())
	}
	s.Flush()
	if value, _ := s.Load("count"); value != 2 {
		t.Fatalf("expected 2 after second flush, got %v", value)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := store.NewMemoryStore()
	s.Seed("count", 1)
	snapshot := s.Snapshot()
	snapshot["count"] = 99
	if value, _ := s.Load("count"); value != 1 {
		t.Fatalf("expected store untouched by snapshot mutation, got %v", value)
	}
}
