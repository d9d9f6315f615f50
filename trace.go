package controllable

import (
	"encoding/json"
)

// Source names where an effective value comes from.
type Source string

const (
	SourceControlled   Source = "controlled"
	SourceUncontrolled Source = "uncontrolled"
	SourceUnknown      Source = "unknown"
)

// Trace captures the provenance of a key's effective value.
type Trace struct {
	ContainerID string `json:"container_id"`
	Key         string `json:"key"`
	Source      Source `json:"source"`
	Value       any    `json:"value,omitempty"`
	// Stored is the store slot of the key, which a controlled key keeps but
	// does not read.
	Stored    any  `json:"stored,omitempty"`
	HasStored bool `json:"has_stored"`
}

// Trace reports where the effective value of key comes from.
func (c *Container) Trace(key string) Trace {
	trace := Trace{ContainerID: c.id, Key: key, Source: SourceUnknown}
	trace.Stored, trace.HasStored = c.store.Load(key)

	descriptor, ok := c.Descriptor(key)
	if !ok {
		return trace
	}
	if descriptor.Controlled {
		trace.Source = SourceControlled
		trace.Value = descriptor.Value
		return trace
	}
	trace.Source = SourceUncontrolled
	trace.Value = trace.Stored
	return trace
}

// ToJSON serialises the trace into JSON for logging or transport helpers.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a JSON payload that was previously generated via
// ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}
