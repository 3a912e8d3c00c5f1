package out

import (
	"context"

	"github.com/bnema/dockhand/internal/domain"
)

// SessionStore defines the contract for durable client-side session storage.
type SessionStore interface {
	// Load returns the stored session or domain.ErrSessionNotFound.
	Load(ctx context.Context) (domain.Session, error)

	// Save persists the session, replacing any previous one.
	Save(ctx context.Context, session domain.Session) error

	// Clear removes the stored session. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}
