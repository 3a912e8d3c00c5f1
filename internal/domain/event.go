package domain

import "time"

// EventType defines the type of event that occurred.
type EventType string

const (
	EventActionCompleted   EventType = "action.completed"
	EventActionFailed      EventType = "action.failed"
	EventCollectionRefresh EventType = "collection.refreshed"
	EventStreamErrored     EventType = "stream.errored"
	EventSessionStarted    EventType = "session.started"
	EventSessionEnded      EventType = "session.ended"
	EventSessionExpired    EventType = "session.expired"
)

// Event represents a domain event that occurred in the console.
type Event struct {
	ID         string
	Type       EventType
	Timestamp  time.Time
	ResourceID string
	Data       any
}

// ActionEventPayload contains data for action.* events.
type ActionEventPayload struct {
	ResourceID string
	Kind       ActionKind
	Scope      ScopeKey
	Err        *ClassifiedError // nil on success
}

// StreamEventPayload contains data for stream.* events.
type StreamEventPayload struct {
	Key   StreamKey
	Error ClassifiedError
}

// SessionEventPayload contains data for session.* events.
type SessionEventPayload struct {
	UserID string
	Email  string
	Reason string
}
