package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "MATCH_COMPLETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is a ready-made Event implementation for simple cases.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewMatchCompletedEvent is emitted when a matching dialogue reaches its
// final ranking.
func NewMatchCompletedEvent(sessionID, stopReason string, turnCount, resultCount int) Event {
	return BaseEvent{
		Type: "MATCH_COMPLETED",
		Data: map[string]interface{}{
			"session_id":   sessionID,
			"stop_reason":  stopReason,
			"turn_count":   turnCount,
			"result_count": resultCount,
		},
		OccurredAt: time.Now(),
	}
}

// NewPolicyUpdatedEvent is emitted when a policy is created or changed and
// its embedding needs regeneration.
func NewPolicyUpdatedEvent(policyID string) Event {
	return BaseEvent{
		Type: "POLICY_UPDATED",
		Data: map[string]interface{}{
			"policy_id": policyID,
		},
		OccurredAt: time.Now(),
	}
}
