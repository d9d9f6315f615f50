package controllable

import (
	"github.com/goliatone/go-controllable/layering"
)

// Setter returns a setter bound to key. The setter dispatches against the
// descriptor that is live when it is called.
func (c *Container) Setter(key string) Setter {
	return func(next Next, done Done) error {
		return c.RequestUpdate(key, next, done)
	}
}

// Accessors builds the accessor bundle: every key's effective value under the
// key itself, its setter under the setter name and any handler factory
// extras. Keys are processed in sorted order, value entries before setters and
// extras, and later entries win. A factory entry named like the key's setter
// replaces the setter. With CollisionReject a name produced by two keys fails
// with *NameCollisionError.
func (c *Container) Accessors() (Record, error) {
	return buildAccessors(c, c.snapshot(), c.cfg.collisionPolicy)
}

func buildAccessors(c *Container, descriptors map[string]Descriptor, policy CollisionPolicy) (Record, error) {
	keys := sortedKeys(descriptors)
	layers := make([]layering.Layer, 0, 2*len(keys))
	for _, key := range keys {
		layers = append(layers, layering.Layer{
			Owner:   key,
			Entries: map[string]any{key: c.effectiveValue(key, descriptors[key])},
		})
	}
	for _, key := range keys {
		descriptor := descriptors[key]
		set := c.Setter(key)
		entries := map[string]any{descriptor.setterName(key): set}
		if descriptor.Handlers != nil {
			for name, fn := range descriptor.Handlers(set) {
				entries[name] = fn
			}
		}
		layers = append(layers, layering.Layer{Owner: key, Entries: entries})
	}

	merged, collisions := layering.Merge(layers...)
	if policy == CollisionReject && len(collisions) > 0 {
		return nil, &NameCollisionError{Collisions: collisions}
	}
	return Record(merged), nil
}

// validateAccessorNames rejects descriptor sets whose keys and setter names
// collide. Handler factories are not run; their extras are checked when the
// bundle is built.
func validateAccessorNames(descriptors map[string]Descriptor) error {
	layers := make([]layering.Layer, 0, len(descriptors))
	for _, key := range sortedKeys(descriptors) {
		layers = append(layers, layering.Layer{Owner: key, Entries: map[string]any{
			key:                              nil,
			descriptors[key].setterName(key): nil,
		}})
	}
	if _, collisions := layering.Merge(layers...); len(collisions) > 0 {
		return &NameCollisionError{Collisions: collisions}
	}
	return nil
}
