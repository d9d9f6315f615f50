package controllable

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestContainerTrace(t *testing.T) {
	c := mustContainer(t, map[string]Descriptor{
		"count": Uncontrolled(InitialValue(2)),
		"open":  {Value: true, Controlled: true, Initial: InitialValue(false)},
	}, WithID("c1"))

	cases := []struct {
		key  string
		want Trace
	}{
		{"count", Trace{ContainerID: "c1", Key: "count", Source: SourceUncontrolled, Value: 2, Stored: 2, HasStored: true}},
		{"open", Trace{ContainerID: "c1", Key: "open", Source: SourceControlled, Value: true, Stored: false, HasStored: true}},
		{"ghost", Trace{ContainerID: "c1", Key: "ghost", Source: SourceUnknown}},
	}
	for _, tc := range cases {
		t.Run(tc.key, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, c.Trace(tc.key)); diff != "" {
				t.Fatalf("trace mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTraceJSONRoundTrip(t *testing.T) {
	c := mustContainer(t, map[string]Descriptor{"label": Uncontrolled(InitialValue("draft"))}, WithID("c1"))
	payload, err := c.Trace("label").ToJSON()
	if err != nil {
		t.Fatalf("to json: %v", err)
	}
	decoded, err := TraceFromJSON(payload)
	if err != nil {
		t.Fatalf("from json: %v", err)
	}
	if decoded.Source != SourceUncontrolled || decoded.Value != "draft" || !decoded.HasStored {
		t.Fatalf("unexpected decoded trace: %+v", decoded)
	}
	if _, err := TraceFromJSON([]byte("{")); err == nil {
		t.Fatalf("expected decode error")
	}
}
