package controllable

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAccessorsBundle(t *testing.T) {
	handler := &recordingHandler{}
	c := mustContainer(t, map[string]Descriptor{
		"count": Uncontrolled(InitialValue(1)),
		"open":  {Value: true, Controlled: true, UpdateHandler: handler.handle, SetterName: "changeOpen"},
	})

	bundle, err := c.Accessors()
	if err != nil {
		t.Fatalf("accessors: %v", err)
	}
	if diff := cmp.Diff([]string{"changeOpen", "count", "open", "setCount"}, bundle.Keys()); diff != "" {
		t.Fatalf("bundle keys mismatch (-want +got):\n%s", diff)
	}
	if bundle["count"] != 1 || bundle["open"] != true {
		t.Fatalf("unexpected values: %+v", bundle)
	}

	setCount, ok := bundle.Setter("setCount")
	if !ok {
		t.Fatalf("expected setCount setter, got %T", bundle["setCount"])
	}
	if err := setCount(Value(2), nil); err != nil {
		t.Fatalf("set count: %v", err)
	}
	if c.EffectiveValue("count") != 2 {
		t.Fatalf("expected setter to update store")
	}

	changeOpen, _ := bundle.Setter("changeOpen")
	if err := changeOpen(Value(false), nil); err != nil {
		t.Fatalf("change open: %v", err)
	}
	if calls := handler.Calls(); len(calls) != 1 || calls[0].Kind != Mandate {
		t.Fatalf("expected mandate through custom setter, got %+v", calls)
	}
}

func TestAccessorsHandlerFactoryExtras(t *testing.T) {
	c := mustContainer(t, map[string]Descriptor{
		"open": {
			Initial: InitialValue(false),
			Handlers: func(set Setter) map[string]any {
				return map[string]any{
					"toggleOpen": func() error {
						return set(Func(func(prev any) any { return !prev.(bool) }), nil)
					},
				}
			},
		},
	})

	bundle, err := c.Accessors()
	if err != nil {
		t.Fatalf("accessors: %v", err)
	}
	toggle, ok := bundle["toggleOpen"].(func() error)
	if !ok {
		t.Fatalf("expected toggleOpen extra, got %T", bundle["toggleOpen"])
	}
	if err := toggle(); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if c.EffectiveValue("open") != true {
		t.Fatalf("expected toggle to flip open")
	}
	if _, ok := bundle.Setter("setOpen"); !ok {
		t.Fatalf("expected default setter next to extras")
	}
}

func TestAccessorsCollisionPolicies(t *testing.T) {
	descriptors := map[string]Descriptor{
		"open":    Uncontrolled(InitialValue(false)),
		"setOpen": Uncontrolled(InitialValue("stored")),
	}

	c := mustContainer(t, descriptors)
	bundle, err := c.Accessors()
	if err != nil {
		t.Fatalf("accessors: %v", err)
	}
	if _, ok := bundle.Setter("setOpen"); !ok {
		t.Fatalf("expected setter to win over the value of key setOpen, got %T", bundle["setOpen"])
	}

	c.cfg.collisionPolicy = CollisionReject
	_, err = c.Accessors()
	var collisionErr *NameCollisionError
	if !errors.As(err, &collisionErr) {
		t.Fatalf("expected NameCollisionError, got %v", err)
	}
	if len(collisionErr.Collisions) != 1 || collisionErr.Collisions[0].Name != "setOpen" {
		t.Fatalf("unexpected collisions: %+v", collisionErr.Collisions)
	}
}

func TestAccessorsSetterFollowsLiveDescriptor(t *testing.T) {
	handler := &recordingHandler{}
	c := mustContainer(t, map[string]Descriptor{"count": Uncontrolled(InitialValue(0))})
	set := c.Setter("count")

	if err := c.SetDescriptors(map[string]Descriptor{"count": Controlled(9, handler.handle)}); err != nil {
		t.Fatalf("set descriptors: %v", err)
	}
	if err := set(Value(10), nil); err != nil {
		t.Fatalf("set: %v", err)
	}
	if calls := handler.Calls(); len(calls) != 1 || calls[0].Kind != Mandate {
		t.Fatalf("expected old setter to dispatch by current mode, got %+v", calls)
	}
}

func TestAccessorsHandlerFactoryOverridesSetter(t *testing.T) {
	var wrappedCalls int
	c := mustContainer(t, map[string]Descriptor{
		"count": {
			Initial: InitialValue(0),
			Handlers: func(set Setter) map[string]any {
				clamped := Setter(func(next Next, done Done) error {
					wrappedCalls++
					return set(Func(func(prev any) any {
						value, _ := resolveNext(next, prev).(int)
						return min(value, 3)
					}), done)
				})
				return map[string]any{"setCount": clamped}
			},
		},
	})

	bundle, err := c.Accessors()
	if err != nil {
		t.Fatalf("accessors: %v", err)
	}
	setCount, ok := bundle.Setter("setCount")
	if !ok {
		t.Fatalf("expected setCount setter, got %T", bundle["setCount"])
	}
	if err := setCount(Value(5), nil); err != nil {
		t.Fatalf("set count: %v", err)
	}
	if wrappedCalls != 1 {
		t.Fatalf("expected factory setter to replace the raw setter, calls=%d", wrappedCalls)
	}
	if got := c.EffectiveValue("count"); got != 3 {
		t.Fatalf("expected clamped value 3, got %v", got)
	}
}

func TestRejectPolicyRunsHandlerFactoriesOnce(t *testing.T) {
	var factoryCalls int
	c := mustContainer(t, map[string]Descriptor{
		"open": {
			Initial: InitialValue(false),
			Handlers: func(Setter) map[string]any {
				factoryCalls++
				return map[string]any{"toggleOpen": func() {}}
			},
		},
	}, WithCollisionPolicy(CollisionReject))
	if factoryCalls != 0 {
		t.Fatalf("expected descriptor validation to skip factories, got %d calls", factoryCalls)
	}
	if _, err := c.Accessors(); err != nil {
		t.Fatalf("accessors: %v", err)
	}
	if factoryCalls != 1 {
		t.Fatalf("expected one factory call per bundle, got %d", factoryCalls)
	}

	err := c.SetDescriptors(map[string]Descriptor{
		"open":  {Handlers: func(Setter) map[string]any { return map[string]any{"count": 1} }},
		"count": Uncontrolled(InitialValue(0)),
	})
	if err != nil {
		t.Fatalf("set descriptors: %v", err)
	}
	if _, err := c.Accessors(); !errors.Is(err, ErrNameCollision) {
		t.Fatalf("expected factory extras to be checked when building the bundle, got %v", err)
	}
}
