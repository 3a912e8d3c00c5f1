// Package out defines output ports (interfaces) for external dependencies.
// These interfaces are implemented by driven adapters (REST client, WebSocket
// transport, session file) and consumed by the use cases.
package out

import (
	"context"

	"github.com/bnema/dockhand/internal/domain"
)

// Backend defines the contract for the container-management REST API.
// Failures with status 401 must wrap domain.ErrUnauthorized.
type Backend interface {
	// SetToken sets the bearer token sent with every subsequent request.
	SetToken(token string)

	// Authenticate exchanges credentials for a bearer token.
	Authenticate(ctx context.Context, email, password string) (string, error)

	// ValidateToken checks that the current token is still accepted.
	ValidateToken(ctx context.Context) error

	// Register creates a new user account.
	Register(ctx context.Context, email, password string) error

	// CurrentUser returns the profile of the token owner.
	CurrentUser(ctx context.Context) (domain.User, error)

	// ListUsers returns every account. Admin only.
	ListUsers(ctx context.Context) ([]domain.User, error)

	// DeleteUser removes an account. Admin only.
	DeleteUser(ctx context.Context, userID string) error

	// ListResources returns the containers owned by ownerID.
	ListResources(ctx context.Context, ownerID string) ([]domain.Resource, error)

	// GetResource returns one container.
	GetResource(ctx context.Context, resourceID string) (domain.Resource, error)

	// CreateResource creates a container.
	CreateResource(ctx context.Context, req domain.CreateResourceRequest) error

	// StartResource starts a container.
	StartResource(ctx context.Context, resourceID string) error

	// StopResource stops a container.
	StopResource(ctx context.Context, resourceID string) error

	// RestartResource restarts a container.
	RestartResource(ctx context.Context, resourceID string) error

	// DeleteResource removes a container.
	DeleteResource(ctx context.Context, resourceID string) error

	// SystemInfo returns host information.
	SystemInfo(ctx context.Context) (domain.SystemInfo, error)

	// DiskUsage returns host disk usage.
	DiskUsage(ctx context.Context) (domain.DiskUsage, error)

	// StreamURL builds the WebSocket URL of a resource stream, authenticated
	// by the token passed as a query parameter.
	StreamURL(resourceID string, kind domain.StreamKind, token string) (string, error)
}
