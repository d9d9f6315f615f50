package store

// UpdateFunc computes the next value of a key from its previous value. It runs
// inside the store's critical section and must not call back into the store,
// nor into a container reading it, such as Container.EffectiveValue.
type UpdateFunc func(prev any) any

// Store loads, seeds and updates uncontrolled values.
type Store interface {
	// Load returns the current value of key.
	Load(key string) (value any, ok bool)
	// Seed stores value when key has no slot yet and reports whether it did.
	Seed(key string, value any) bool
	// Update replaces the value of key with fn(previous) and calls committed,
	// if non-nil, once the new value is visible to Load.
	Update(key string, fn UpdateFunc, committed func())
}

// Snapshotter is implemented by stores able to copy their contents.
type Snapshotter interface {
	Snapshot() map[string]any
}

func apply(fn UpdateFunc, prev any) any {
	if fn == nil {
		return prev
	}
	return fn(prev)
}

func cloneValues(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for key, value := range values {
		out[key] = value
	}
	return out
}
