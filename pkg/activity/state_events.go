package activity

import (
	"strings"
	"time"
)

const (
	// VerbStateMandated is emitted when a controlled key forwards a change
	// request to its owner.
	VerbStateMandated = "state.mandated"
	// VerbStateUpdated is emitted when an uncontrolled key commits a value.
	VerbStateUpdated = "state.updated"
	// VerbStateNotified is emitted when a committed change is reported to the
	// key's update handler.
	VerbStateNotified = "state.notified"

	// ObjectTypeState is the object type of every state event.
	ObjectTypeState = "state"
)

// StateEventInput describes the common fields of state events.
type StateEventInput struct {
	ContainerID string
	Key         string
	ActorID     string
	UserID      string
	TenantID    string
	Channel     string
	OldValue    any
	NewValue    any
	Metadata    map[string]any
	OccurredAt  time.Time
}

// BuildStateMandatedEvent constructs the event for a forwarded change request.
func BuildStateMandatedEvent(input StateEventInput) Event {
	return buildStateEvent(VerbStateMandated, input)
}

// BuildStateUpdatedEvent constructs the event for a committed change.
func BuildStateUpdatedEvent(input StateEventInput) Event {
	return buildStateEvent(VerbStateUpdated, input)
}

// BuildStateNotifiedEvent constructs the event for a change report.
func BuildStateNotifiedEvent(input StateEventInput) Event {
	return buildStateEvent(VerbStateNotified, input)
}

func buildStateEvent(verb string, input StateEventInput) Event {
	metadata := cloneMap(input.Metadata)
	key := strings.TrimSpace(input.Key)
	containerID := strings.TrimSpace(input.ContainerID)
	if key != "" {
		metadata = ensureMetadata(metadata)
		metadata["key"] = key
	}
	if containerID != "" {
		metadata = ensureMetadata(metadata)
		metadata["container_id"] = containerID
	}
	if input.OldValue != nil {
		metadata = ensureMetadata(metadata)
		metadata["old_value"] = input.OldValue
	}
	if input.NewValue != nil {
		metadata = ensureMetadata(metadata)
		metadata["new_value"] = input.NewValue
	}

	objectID := key
	if containerID != "" && key != "" {
		objectID = containerID + "/" + key
	} else if objectID == "" {
		objectID = containerID
	}
	if objectID == "" {
		objectID = ObjectTypeState
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		UserID:     strings.TrimSpace(input.UserID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: ObjectTypeState,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
