package controllable

import (
	"encoding/json"

	"github.com/goliatone/go-controllable/layering"
)

// Entry is the normalized configuration of one key.
type Entry struct {
	Initial           Initial
	SetterName        string
	UpdateHandlerName string
	NotifyOnUpdate    bool
	Handlers          HandlerFactory
}

// Registry is the immutable, normalized set of keys a wrapper manages.
type Registry struct {
	entries map[string]Entry
}

// Normalize fills in default names and flags for every key. It never fails;
// use Registry.Validate to detect generated-name collisions.
func Normalize(specs map[string]Spec) Registry {
	entries := make(map[string]Entry, len(specs))
	for key, spec := range specs {
		entry := Entry{
			Initial:           spec.Initial,
			SetterName:        spec.SetterName,
			UpdateHandlerName: spec.UpdateHandlerName,
			NotifyOnUpdate:    spec.NotifyOnUpdate,
			Handlers:          spec.Handlers,
		}
		if entry.SetterName == "" {
			entry.SetterName = DefaultSetterName(key)
		}
		if entry.UpdateHandlerName == "" {
			entry.UpdateHandlerName = DefaultUpdateHandlerName(key)
		}
		entries[key] = entry
	}
	return Registry{entries: entries}
}

// Len returns the number of keys.
func (r Registry) Len() int {
	return len(r.entries)
}

// Keys returns the registered keys sorted alphabetically. Accessor bundles are
// assembled in this order.
func (r Registry) Keys() []string {
	return sortedKeys(r.entries)
}

// Entry returns the normalized entry for key.
func (r Registry) Entry(key string) (Entry, bool) {
	entry, ok := r.entries[key]
	return entry, ok
}

// ConsumedKeys returns every record entry the registry reads: each key and
// each update handler name, sorted.
func (r Registry) ConsumedKeys() []string {
	layers := make([]layering.Layer, 0, len(r.entries))
	for key, entry := range r.entries {
		layers = append(layers, layering.Layer{Entries: map[string]any{
			key:                     nil,
			entry.UpdateHandlerName: nil,
		}})
	}
	return layering.Names(layers...)
}

// Validate reports names that more than one key would claim: accessor names
// (keys and setter names) and update handler names.
func (r Registry) Validate() error {
	accessors := make([]layering.Layer, 0, len(r.entries))
	handlers := make([]layering.Layer, 0, len(r.entries))
	for _, key := range r.Keys() {
		entry := r.entries[key]
		accessors = append(accessors, layering.Layer{Owner: key, Entries: map[string]any{
			key:              nil,
			entry.SetterName: nil,
		}})
		handlers = append(handlers, layering.Layer{Owner: key, Entries: map[string]any{
			entry.UpdateHandlerName: nil,
		}})
	}
	_, accessorCollisions := layering.Merge(accessors...)
	_, handlerCollisions := layering.Merge(handlers...)
	collisions := append(accessorCollisions, handlerCollisions...)
	if len(collisions) == 0 {
		return nil
	}
	return &NameCollisionError{Collisions: collisions}
}

// SchemaFormat identifies the representation a schema document encodes.
type SchemaFormat string

// SchemaFormatRegistry is the flattened per-key registry description.
const SchemaFormatRegistry SchemaFormat = "registry"

// SchemaDocument describes a registry in a JSON-serialisable form.
type SchemaDocument struct {
	Format  SchemaFormat  `json:"format"`
	Entries []EntrySchema `json:"entries"`
}

// EntrySchema describes one normalized key.
type EntrySchema struct {
	Key               string `json:"key"`
	SetterName        string `json:"setter_name"`
	UpdateHandlerName string `json:"update_handler_name"`
	NotifyOnUpdate    bool   `json:"notify_on_update"`
	Initial           string `json:"initial"`
	InitialExpr       string `json:"initial_expr,omitempty"`
	HasHandlers       bool   `json:"has_handlers"`
}

// Describe returns the registry description, entries sorted by key.
func (r Registry) Describe() SchemaDocument {
	doc := SchemaDocument{
		Format:  SchemaFormatRegistry,
		Entries: make([]EntrySchema, 0, len(r.entries)),
	}
	for _, key := range r.Keys() {
		entry := r.entries[key]
		doc.Entries = append(doc.Entries, EntrySchema{
			Key:               key,
			SetterName:        entry.SetterName,
			UpdateHandlerName: entry.UpdateHandlerName,
			NotifyOnUpdate:    entry.NotifyOnUpdate,
			Initial:           entry.Initial.describe(),
			InitialExpr:       entry.Initial.expr,
			HasHandlers:       entry.Handlers != nil,
		})
	}
	return doc
}

// ToJSON serialises the schema document.
func (d SchemaDocument) ToJSON() ([]byte, error) {
	type alias SchemaDocument
	return json.Marshal(alias(d))
}
