package controllable

import (
	"sort"

	"github.com/goliatone/go-controllable/layering"
)

// Record is a flat external record: inbound properties on the way in, the
// accessor bundle on the way out.
type Record map[string]any

type undefinedValue struct{}

func (undefinedValue) String() string {
	return "undefined"
}

// Undefined marks a record entry as explicitly absent. A key whose record
// value is Undefined stays uncontrolled.
var Undefined any = undefinedValue{}

// IsUndefined reports whether v is the Undefined marker.
func IsUndefined(v any) bool {
	_, ok := v.(undefinedValue)
	return ok
}

// Clone returns a shallow copy of r.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for key, value := range r {
		out[key] = value
	}
	return out
}

// Keys returns the record keys sorted alphabetically.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for key := range r {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Setter returns the setter stored under name, if any.
func (r Record) Setter(name string) (Setter, bool) {
	set, ok := r[name].(Setter)
	return set, ok && set != nil
}

// Merge returns a new record holding the entries of every record, later
// records overriding earlier ones.
func Merge(records ...Record) Record {
	layers := make([]layering.Layer, 0, len(records))
	for _, record := range records {
		layers = append(layers, layering.Layer{Entries: record})
	}
	merged, _ := layering.Merge(layers...)
	return Record(merged)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
