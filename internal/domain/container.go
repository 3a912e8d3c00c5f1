// Package domain contains pure business types without external dependencies.
// These types are used throughout the application and have no tags or framework dependencies.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// ResourceState is the normalized lifecycle state of a container.
type ResourceState string

const (
	ResourceStateRunning ResourceState = "running"
	ResourceStateStopped ResourceState = "stopped"
	ResourceStatePaused  ResourceState = "paused"
	ResourceStateExited  ResourceState = "exited"
	ResourceStateUnknown ResourceState = "unknown"
)

// ParseResourceState normalizes a backend state string.
// Docker reports "created" for containers that were never started; they are treated as stopped.
func ParseResourceState(s string) ResourceState {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "running":
		return ResourceStateRunning
	case "stopped", "created":
		return ResourceStateStopped
	case "paused":
		return ResourceStatePaused
	case "exited", "dead":
		return ResourceStateExited
	default:
		return ResourceStateUnknown
	}
}

// Resource is the client-side, read-only copy of a backend-managed container.
type Resource struct {
	ID        string
	Name      string
	Image     string
	State     ResourceState
	Status    string // free text, e.g. "Up 3 minutes"
	OwnerID   string
	CreatedAt time.Time
}

// ShortID returns the first 12 characters of the container id.
func (r Resource) ShortID() string {
	return ShortID(r.ID)
}

// Severity maps the resource state and status to a display severity.
func (r Resource) Severity() Severity {
	if strings.Contains(strings.ToLower(r.Status), "up") {
		return SeveritySuccess
	}
	switch r.State {
	case ResourceStateRunning:
		return SeveritySuccess
	case ResourceStateStopped, ResourceStateExited:
		return SeverityError
	case ResourceStatePaused:
		return SeverityWarning
	default:
		return SeverityDefault
	}
}

// Severity is the display class of a resource row.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityDefault Severity = "default"
)

// ShortID truncates a container id to the conventional 12 characters.
func ShortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

// CreateResourceRequest holds the parameters for creating a container.
type CreateResourceRequest struct {
	Name    string
	Image   string
	EnvVars []string
}

// Normalize trims all fields and drops empty environment entries.
func (r CreateResourceRequest) Normalize() CreateResourceRequest {
	out := CreateResourceRequest{
		Name:    strings.TrimSpace(r.Name),
		Image:   strings.TrimSpace(r.Image),
		EnvVars: make([]string, 0, len(r.EnvVars)),
	}
	for _, env := range r.EnvVars {
		if env = strings.TrimSpace(env); env != "" {
			out.EnvVars = append(out.EnvVars, env)
		}
	}
	return out
}

// Validate checks that the request can be sent to the backend.
func (r CreateResourceRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: name cannot be blank", ErrInvalidRequest)
	}
	if r.Image == "" {
		return fmt.Errorf("%w: image cannot be blank", ErrInvalidRequest)
	}
	for _, env := range r.EnvVars {
		key, _, ok := strings.Cut(env, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return fmt.Errorf("%w: environment variable %q must be KEY=VALUE", ErrInvalidRequest, env)
		}
	}
	return nil
}
