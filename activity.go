package controllable

import (
	"context"

	"github.com/goliatone/go-controllable/pkg/activity"
)

// WithActivityHooks attaches activity hooks. Hooks are cloned and nil entries
// dropped; emission is enabled when at least one hook remains.
func WithActivityHooks(hooks activity.Hooks) Option {
	normalized := hooks.Clone()
	return func(cfg *containerConfig) {
		cfg.activityHooks = normalized
	}
}

// WithActivityChannel overrides the channel stamped on emitted events.
func WithActivityChannel(channel string) Option {
	return func(cfg *containerConfig) {
		cfg.activityChannel = channel
	}
}

// ActivityHooks returns a copy of the hooks configured on the container.
func (c *Container) ActivityHooks() activity.Hooks {
	if c == nil {
		return nil
	}
	return c.cfg.activityHooks.Clone()
}

func newEmitter(cfg *containerConfig) *activity.Emitter {
	return activity.NewEmitter(cfg.activityHooks, activity.Config{
		Enabled: len(cfg.activityHooks) > 0,
		Channel: cfg.activityChannel,
	})
}

type stateEvent int

const (
	stateMandated stateEvent = iota
	stateUpdated
	stateNotified
)

func (c *Container) emit(ctx context.Context, kind stateEvent, key string, prev, next any) error {
	if !c.emitter.Enabled() {
		return nil
	}
	input := activity.StateEventInput{
		ContainerID: c.id,
		Key:         key,
		OldValue:    prev,
		NewValue:    next,
	}
	if actor, ok := activity.ActorFromContext(ctx); ok {
		input.ActorID = actor.ActorID
		input.UserID = actor.UserID
		input.TenantID = actor.TenantID
	}
	var event activity.Event
	switch kind {
	case stateMandated:
		event = activity.BuildStateMandatedEvent(input)
	case stateNotified:
		event = activity.BuildStateNotifiedEvent(input)
	default:
		event = activity.BuildStateUpdatedEvent(input)
	}
	return c.emitter.Emit(ctx, event)
}
