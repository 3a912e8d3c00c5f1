package domain

import "time"

// ActionKind identifies a mutating (or child-loading) operation on a resource.
type ActionKind string

const (
	ActionStart        ActionKind = "start"
	ActionStop         ActionKind = "stop"
	ActionRestart      ActionKind = "restart"
	ActionDelete       ActionKind = "delete"
	ActionCreate       ActionKind = "create"
	ActionLoadChildren ActionKind = "load-children"
)

// CreateResourceID is the lock id used while a container is being created,
// since the backend has not assigned an id yet.
const CreateResourceID = "create"

// Valid reports whether k is a known action kind.
func (k ActionKind) Valid() bool {
	switch k {
	case ActionStart, ActionStop, ActionRestart, ActionDelete, ActionCreate, ActionLoadChildren:
		return true
	}
	return false
}

// Verb returns the human verb used in failure banners ("start", "delete", ...).
func (k ActionKind) Verb() string {
	if k == ActionLoadChildren {
		return "load"
	}
	return string(k)
}

// ActionLock marks a resource as having an outstanding action.
// At most one lock exists per ResourceID.
type ActionLock struct {
	ResourceID string
	Kind       ActionKind
	AcquiredAt time.Time
}
