// Package layering merges flat records contributed by several owners into a
// single record, keeping track of the names more than one owner produced.
package layering

import "sort"

// Layer is one owner's contribution to a merged record.
type Layer struct {
	Owner   string
	Entries map[string]any
}

// Collision reports a name produced by more than one owner. Owners are listed
// in the order they wrote the name; the last one won.
type Collision struct {
	Name   string   `json:"name"`
	Owners []string `json:"owners"`
}

// Merge applies layers ordered from weakest to strongest. Entries of later
// layers replace entries of earlier layers with the same name. Layers without
// an owner never take part in collision reporting.
func Merge(layers ...Layer) (map[string]any, []Collision) {
	size := 0
	for _, layer := range layers {
		size += len(layer.Entries)
	}
	merged := make(map[string]any, size)
	owners := make(map[string][]string, size)

	for _, layer := range layers {
		for name, value := range layer.Entries {
			merged[name] = value
			if layer.Owner == "" || containsOwner(owners[name], layer.Owner) {
				continue
			}
			owners[name] = append(owners[name], layer.Owner)
		}
	}

	var collisions []Collision
	for name, list := range owners {
		if len(list) < 2 {
			continue
		}
		collisions = append(collisions, Collision{Name: name, Owners: list})
	}
	sort.Slice(collisions, func(i, j int) bool {
		return collisions[i].Name < collisions[j].Name
	})
	return merged, collisions
}

// Names returns every name produced by the layers, sorted.
func Names(layers ...Layer) []string {
	seen := map[string]struct{}{}
	for _, layer := range layers {
		for name := range layer.Entries {
			seen[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func containsOwner(owners []string, owner string) bool {
	for _, existing := range owners {
		if existing == owner {
			return true
		}
	}
	return false
}
