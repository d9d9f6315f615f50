package controllable

import (
	"sync"

	"github.com/goliatone/go-controllable/pkg/activity"
	"github.com/goliatone/go-controllable/pkg/store"
	"github.com/google/uuid"
)

// Container holds the live descriptors of a set of keys and the store backing
// their uncontrolled values. It is safe for concurrent use.
type Container struct {
	id      string
	cfg     *containerConfig
	store   store.Store
	emitter *activity.Emitter

	mu          sync.RWMutex
	descriptors map[string]Descriptor
}

// NewContainer builds a container and seeds the store once per key with the
// descriptor's resolved initial value. InitialFunc producers receive a nil
// record.
func NewContainer(descriptors map[string]Descriptor, opts ...Option) (*Container, error) {
	cfg := applyOptions(opts)
	return newContainer(cfg, descriptors)
}

func newContainer(cfg *containerConfig, descriptors map[string]Descriptor) (*Container, error) {
	c := &Container{
		id:      cfg.id,
		cfg:     cfg,
		store:   cfg.store,
		emitter: newEmitter(cfg),
	}
	if c.id == "" {
		c.id = uuid.NewString()
	}
	if c.store == nil {
		c.store = store.NewMemoryStore()
	}
	if err := c.SetDescriptors(descriptors); err != nil {
		return nil, err
	}
	return c, nil
}

// SetDescriptors replaces the live descriptors. Stored values survive; keys
// without a store slot are seeded from their initial value. Nothing is seeded
// unless every initial value resolves. With CollisionReject, a descriptor set
// whose keys and setter names collide is refused and the previous set stays
// in place.
func (c *Container) SetDescriptors(descriptors map[string]Descriptor) error {
	next := make(map[string]Descriptor, len(descriptors))
	for key, descriptor := range descriptors {
		next[key] = descriptor
	}

	if c.cfg.collisionPolicy == CollisionReject {
		if err := validateAccessorNames(next); err != nil {
			return err
		}
	}

	seeds := make(map[string]any)
	for _, key := range sortedKeys(next) {
		if _, ok := c.store.Load(key); ok {
			continue
		}
		value, err := c.cfg.resolveInitial(key, next[key].Initial, nil)
		if err != nil {
			return err
		}
		seeds[key] = value
	}
	for key, value := range seeds {
		c.store.Seed(key, value)
	}

	c.mu.Lock()
	c.descriptors = next
	c.mu.Unlock()
	return nil
}

// ID returns the container identifier.
func (c *Container) ID() string {
	return c.id
}

// Store returns the backing store.
func (c *Container) Store() store.Store {
	return c.store
}

// Keys returns the described keys, sorted.
func (c *Container) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sortedKeys(c.descriptors)
}

// Descriptor returns the live descriptor of key.
func (c *Container) Descriptor(key string) (Descriptor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	descriptor, ok := c.descriptors[key]
	return descriptor, ok
}

// IsControlled reports whether key is described and externally controlled.
func (c *Container) IsControlled(key string) bool {
	descriptor, ok := c.Descriptor(key)
	return ok && descriptor.Controlled
}

// EffectiveValue returns the controlled value for controlled keys and the
// stored value otherwise. Unknown keys yield nil.
func (c *Container) EffectiveValue(key string) any {
	descriptor, ok := c.Descriptor(key)
	if !ok {
		return nil
	}
	return c.effectiveValue(key, descriptor)
}

func (c *Container) effectiveValue(key string, descriptor Descriptor) any {
	if descriptor.Controlled {
		return descriptor.Value
	}
	value, _ := c.store.Load(key)
	return value
}

func (c *Container) snapshot() map[string]Descriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]Descriptor, len(c.descriptors))
	for key, descriptor := range c.descriptors {
		out[key] = descriptor
	}
	return out
}
