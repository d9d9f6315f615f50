package controllable

import (
	"context"
	"fmt"
)

// RequestUpdate asks for key to change to next and calls done once the change
// is handled. See RequestUpdateContext.
func (c *Container) RequestUpdate(key string, next Next, done Done) error {
	return c.RequestUpdateContext(context.Background(), key, next, done)
}

// RequestUpdateContext routes a change request by the key's current mode.
//
// For a controlled key the resolved value is handed to the update handler as a
// Mandate together with done; nothing is stored. A controlled key without a
// handler fails with *MissingUpdateHandlerError before next is resolved.
//
// For an uncontrolled key the store applies next atomically against the
// just-prior value. Once committed, the handler is notified when the key has
// NotifyOnUpdate set, then done runs.
//
// ctx is handed to activity hooks only.
func (c *Container) RequestUpdateContext(ctx context.Context, key string, next Next, done Done) error {
	if ctx == nil {
		ctx = context.Background()
	}
	descriptor, ok := c.Descriptor(key)
	if !ok {
		err := fmt.Errorf("%w: %q", ErrUnknownKey, key)
		c.cfg.updateLog().LogUpdate(UpdateLogEvent{ContainerID: c.id, Key: key, Err: err})
		return err
	}
	if descriptor.Controlled {
		return c.mandate(ctx, key, descriptor, next, done)
	}
	c.commit(ctx, key, descriptor, next, done)
	return nil
}

func (c *Container) mandate(ctx context.Context, key string, descriptor Descriptor, next Next, done Done) error {
	event := UpdateLogEvent{
		ContainerID: c.id,
		Key:         key,
		Kind:        Mandate,
		Controlled:  true,
		Previous:    descriptor.Value,
	}
	if descriptor.UpdateHandler == nil {
		event.Err = &MissingUpdateHandlerError{Key: key}
		c.cfg.updateLog().LogUpdate(event)
		return event.Err
	}

	value := resolveNext(next, descriptor.Value)
	event.Next = value
	event.HookErr = c.emit(ctx, stateMandated, key, descriptor.Value, value)
	c.cfg.updateLog().LogUpdate(event)

	descriptor.UpdateHandler(value, doneOrNoop(done), Mandate)
	return nil
}

func (c *Container) commit(ctx context.Context, key string, descriptor Descriptor, next Next, done Done) {
	var previous any
	update := func(prev any) any {
		previous = prev
		return resolveNext(next, prev)
	}
	committed := func() {
		current, _ := c.store.Load(key)
		event := UpdateLogEvent{
			ContainerID: c.id,
			Key:         key,
			Kind:        Notification,
			Previous:    previous,
			Next:        current,
		}
		event.HookErr = c.emit(ctx, stateUpdated, key, previous, current)

		notify := descriptor.NotifyOnUpdate && descriptor.UpdateHandler != nil
		if notify {
			event.Notified = true
			if err := c.emit(ctx, stateNotified, key, previous, current); err != nil && event.HookErr == nil {
				event.HookErr = err
			}
		}
		c.cfg.updateLog().LogUpdate(event)

		if notify {
			descriptor.UpdateHandler(current, doneOrNoop(nil), Notification)
		}
		done.call()
	}
	c.store.Update(key, update, committed)
}
