// Package in defines input ports (use case interfaces) driven by the CLI.
package in

import (
	"context"

	"github.com/bnema/dockhand/internal/domain"
)

// ConsoleService defines the contract for the operator console use cases.
type ConsoleService interface {
	// Restore loads the stored session and checks it against the backend.
	Restore(ctx context.Context) (domain.Session, error)

	// Login authenticates and persists the resulting session.
	Login(ctx context.Context, email, password string) (domain.Session, error)

	// Logout forgets the session and every cached collection.
	Logout(ctx context.Context) error

	// Register creates a new account. It does not log in.
	Register(ctx context.Context, email, password string) error

	// Session returns the active session.
	Session() (domain.Session, bool)

	// Resources returns the containers of ownerID, the current user when empty.
	// Cached lists are served unless refresh is set.
	Resources(ctx context.Context, ownerID string, refresh bool) ([]domain.Resource, error)

	// Resource returns one container.
	Resource(ctx context.Context, resourceID string) (domain.Resource, error)

	// Create creates a container for the current user.
	Create(ctx context.Context, req domain.CreateResourceRequest) error

	// RunAction runs start, stop, restart or delete on a container and reloads scope.
	RunAction(ctx context.Context, scope domain.ScopeKey, resourceID string, kind domain.ActionKind) error

	// InProgress returns the kind of the action running on resourceID.
	InProgress(resourceID string) (domain.ActionKind, bool)

	// Locks returns every action in flight ordered by resource id.
	Locks() []domain.ActionLock

	// Users returns every account. Admin only.
	Users(ctx context.Context) ([]domain.User, error)

	// DeleteUser removes an account. Deleting the session's own account is refused.
	DeleteUser(ctx context.Context, userID string) error

	// ExpandUser returns the containers of userID, fetching them on first expansion.
	ExpandUser(ctx context.Context, userID string) ([]domain.Resource, error)

	// ReloadUser refetches the containers of userID.
	ReloadUser(ctx context.Context, userID string) ([]domain.Resource, error)

	// CollapseUser hides the containers of userID without dropping them.
	CollapseUser(userID string)

	// SystemOverview returns host information and disk usage.
	SystemOverview(ctx context.Context) (domain.SystemOverview, error)

	// StreamURL returns the authenticated URL of a resource stream.
	StreamURL(resourceID string, kind domain.StreamKind) (string, error)

	// NewView creates a live view. Callers must Close it.
	NewView(ctx context.Context, hooks ViewHooks) LiveView
}

// ViewHooks are notified of live view updates. Every field is optional.
// Hooks run on stream goroutines and must not call back into the view synchronously.
type ViewHooks struct {
	OnLog    func(resourceID, fragment string)
	OnStats  func(resourceID string, sample domain.StatsSample)
	OnBanner func(err domain.ClassifiedError)
	OnEnded  func(key domain.StreamKey, state domain.ConnectionState)
}

// LiveView owns the live channels of one screen.
type LiveView interface {
	// ToggleStats opens or closes the stats row of a container and reports
	// whether the row is now expanded.
	ToggleStats(ctx context.Context, resourceID string) (bool, error)

	// StatsExpanded reports whether the stats row of resourceID is expanded.
	StatsExpanded(resourceID string) bool

	// Stats returns the latest sample of an expanded row.
	Stats(resourceID string) (domain.StatsSample, bool)

	// OpenLogs opens the logs dialog for resourceID, closing any other one.
	OpenLogs(ctx context.Context, resourceID string) error

	// CloseLogs closes the logs dialog.
	CloseLogs()

	// Logs returns the dialog resource, its log text and its connection state.
	Logs() (string, domain.LogChunk, domain.ConnectionState)

	// Banner returns the current dismissible error.
	Banner() (domain.ClassifiedError, bool)

	// DismissBanner clears the banner.
	DismissBanner()

	// Streams returns the live channels.
	Streams() []domain.StreamChannel

	// Close tears down every channel. The view is unusable afterwards.
	Close()
}
