package controllable

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
)

func loadFixture[T any](t *testing.T, name string) T {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("unable to resolve caller for fixture %q", name)
	}
	path := filepath.Join(filepath.Dir(file), "testdata", name)
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read fixture %q: %v", path, err)
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("failed to unmarshal fixture %q: %v", path, err)
	}
	return out
}

type handlerCall struct {
	Next any
	Kind UpdateKind
	Done Done
}

// recordingHandler captures every call and the order of events around it.
type recordingHandler struct {
	mu     sync.Mutex
	calls  []handlerCall
	events *[]string
	onCall func(next any, done Done, kind UpdateKind)
}

func (h *recordingHandler) handle(next any, done Done, kind UpdateKind) {
	h.mu.Lock()
	h.calls = append(h.calls, handlerCall{Next: next, Kind: kind, Done: done})
	if h.events != nil {
		*h.events = append(*h.events, "handler:"+kind.String())
	}
	h.mu.Unlock()
	if h.onCall != nil {
		h.onCall(next, done, kind)
	}
}

func (h *recordingHandler) Calls() []handlerCall {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]handlerCall(nil), h.calls...)
}

type updateLogRecorder struct {
	mu     sync.Mutex
	events []UpdateLogEvent
}

func (r *updateLogRecorder) LogUpdate(event UpdateLogEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *updateLogRecorder) Events() []UpdateLogEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]UpdateLogEvent(nil), r.events...)
}

func mustContainer(t *testing.T, descriptors map[string]Descriptor, opts ...Option) *Container {
	t.Helper()
	c, err := NewContainer(descriptors, opts...)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	return c
}
