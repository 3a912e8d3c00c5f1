// Package actionlock tracks the single in-flight mutating action allowed per resource.
//
// The registry is a client-side race guard, not a server contract: a rejected
// acquisition never reaches the backend. Rendering code queries CurrentKind to
// disable controls and show a per-resource spinner.
package actionlock

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bnema/zerowrap"

	"github.com/bnema/dockhand/internal/boundaries/out"
	"github.com/bnema/dockhand/internal/domain"
)

// Registry holds at most one domain.ActionLock per resource id.
type Registry struct {
	locks   map[string]domain.ActionLock
	mu      sync.Mutex
	now     func() time.Time
	metrics out.MetricsRecorder
	log     zerowrap.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock overrides the clock used for AcquiredAt.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

// WithMetrics records acquisitions and rejections.
func WithMetrics(m out.MetricsRecorder) Option {
	return func(r *Registry) {
		if m != nil {
			r.metrics = m
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(log zerowrap.Logger, opts ...Option) *Registry {
	r := &Registry{
		locks:   make(map[string]domain.ActionLock),
		now:     time.Now,
		metrics: out.NoopMetrics{},
		log:     log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Acquire locks resourceID for kind. It fails with domain.ErrAlreadyLocked when
// any lock exists for the id, whatever its kind.
func (r *Registry) Acquire(ctx context.Context, resourceID string, kind domain.ActionKind) (domain.ActionLock, error) {
	if strings.TrimSpace(resourceID) == "" {
		return domain.ActionLock{}, fmt.Errorf("%w: resource id is required", domain.ErrInvalidRequest)
	}
	if !kind.Valid() {
		return domain.ActionLock{}, fmt.Errorf("%w: unknown action kind %q", domain.ErrInvalidRequest, kind)
	}

	r.mu.Lock()
	if held, exists := r.locks[resourceID]; exists {
		r.mu.Unlock()

		r.metrics.LockRejected(ctx, kind)
		r.log.Debug().
			Str(zerowrap.FieldLayer, "usecase").
			Str(zerowrap.FieldComponent, "actionlock").
			Str(zerowrap.FieldEntityID, resourceID).
			Str("requested", string(kind)).
			Str("held", string(held.Kind)).
			Msg("action rejected, resource already locked")
		return domain.ActionLock{}, fmt.Errorf("%s %s: %w", kind, domain.ShortID(resourceID), domain.ErrAlreadyLocked)
	}

	lock := domain.ActionLock{ResourceID: resourceID, Kind: kind, AcquiredAt: r.now()}
	r.locks[resourceID] = lock
	r.mu.Unlock()

	r.metrics.LockAcquired(ctx, kind)
	return lock, nil
}

// Release removes the lock on resourceID. Releasing an unlocked id is a no-op.
func (r *Registry) Release(resourceID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.locks, resourceID)
}

// CurrentKind returns the kind of the action in flight for resourceID.
func (r *Registry) CurrentKind(resourceID string) (domain.ActionKind, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lock, ok := r.locks[resourceID]
	return lock.Kind, ok
}

// Locked reports whether an action is in flight for resourceID.
func (r *Registry) Locked(resourceID string) bool {
	_, ok := r.CurrentKind(resourceID)
	return ok
}

// Snapshot returns every held lock ordered by resource id.
func (r *Registry) Snapshot() []domain.ActionLock {
	r.mu.Lock()
	locks := make([]domain.ActionLock, 0, len(r.locks))
	for _, l := range r.locks {
		locks = append(locks, l)
	}
	r.mu.Unlock()

	sort.Slice(locks, func(i, j int) bool { return locks[i].ResourceID < locks[j].ResourceID })
	return locks
}

// Len returns the number of held locks.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.locks)
}
