package controllable

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestProjectDerivesDescriptors(t *testing.T) {
	reg := Normalize(map[string]Spec{
		"open":  {Initial: InitialValue(false)},
		"count": {Initial: InitialFunc(func(props Record) any { return props["start"] }), NotifyOnUpdate: true},
	})
	handler := &recordingHandler{}
	props := Record{
		"open":          nil,
		"onUpdateOpen":  handler.handle,
		"onUpdateCount": func(any, Done, UpdateKind) {},
		"start":         4,
		"title":         "Filters",
	}

	projection, err := Project(props, reg)
	if err != nil {
		t.Fatalf("project: %v", err)
	}

	open := projection.Descriptors["open"]
	if !open.Controlled || open.Value != nil {
		t.Fatalf("expected explicit nil to control open, got %+v", open)
	}
	if open.UpdateHandler == nil {
		t.Fatalf("expected update handler to be picked up")
	}
	if open.SetterName != "setOpen" {
		t.Fatalf("expected normalized setter name, got %q", open.SetterName)
	}

	count := projection.Descriptors["count"]
	if count.Controlled {
		t.Fatalf("expected count to be uncontrolled")
	}
	if count.UpdateHandler == nil || !count.NotifyOnUpdate {
		t.Fatalf("expected plain func handler and notify flag, got %+v", count)
	}
	value, _ := ResolveInitial("count", count.Initial, nil)
	if value != 4 {
		t.Fatalf("expected initial resolved against props, got %v", value)
	}

	want := []string{"count", "onUpdateCount", "onUpdateOpen", "open"}
	if diff := cmp.Diff(want, projection.Consumed); diff != "" {
		t.Fatalf("consumed mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Record{"start": 4, "title": "Filters"}, projection.PassThrough(props)); diff != "" {
		t.Fatalf("pass-through mismatch (-want +got):\n%s", diff)
	}
}

func TestProjectUndefinedAndForeignHandlers(t *testing.T) {
	reg := Normalize(map[string]Spec{"open": {}})
	projection, err := Project(Record{
		"open":         Undefined,
		"onUpdateOpen": "not a function",
	}, reg)
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	open := projection.Descriptors["open"]
	if open.Controlled {
		t.Fatalf("expected Undefined to leave open uncontrolled")
	}
	if open.UpdateHandler != nil {
		t.Fatalf("expected non-function handler to be ignored")
	}

	var nilHandler UpdateHandler
	projection, _ = Project(Record{"onUpdateOpen": nilHandler}, reg)
	if projection.Descriptors["open"].UpdateHandler != nil {
		t.Fatalf("expected nil handler to stay absent")
	}

	var plainCalls int
	plain := func(next any, done func(), kind UpdateKind) {
		plainCalls++
		done()
	}
	projection, _ = Project(Record{"open": true, "onUpdateOpen": plain}, reg)
	handler := projection.Descriptors["open"].UpdateHandler
	if handler == nil {
		t.Fatalf("expected func(any, func(), UpdateKind) to be accepted as a handler")
	}
	doneCalls := 0
	handler(false, func() { doneCalls++ }, Mandate)
	if plainCalls != 1 || doneCalls != 1 {
		t.Fatalf("expected adapted handler to forward done, calls=%d done=%d", plainCalls, doneCalls)
	}
}

func TestProjectExpressionInitial(t *testing.T) {
	reg := Normalize(map[string]Spec{
		"pageSize": {Initial: InitialExpr("defaultPageSize * 2")},
	})
	projection, err := Project(Record{"defaultPageSize": 10}, reg)
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	value, _ := ResolveInitial("pageSize", projection.Descriptors["pageSize"].Initial, nil)
	if value != 20 {
		t.Fatalf("expected 20, got %v (%T)", value, value)
	}

	bad := Normalize(map[string]Spec{"pageSize": {Initial: InitialExpr("(")}})
	if _, err := Project(Record{}, bad); !errors.As(err, new(*EvaluationError)) {
		t.Fatalf("expected EvaluationError, got %v", err)
	}
}

func TestPassThroughWithoutProps(t *testing.T) {
	out := PassThrough(nil, []string{"open"})
	if out == nil || len(out) != 0 {
		t.Fatalf("expected empty record, got %v", out)
	}
}
