// Package console implements the operator console use cases.
//
// Every mutating action follows the same path: acquire the resource lock,
// call the backend, reload the affected collection, release the lock and
// publish the outcome. Failures are classified once, here, and published so
// that live views can show them as banners.
package console

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bnema/zerowrap"
	"golang.org/x/sync/errgroup"

	"github.com/bnema/dockhand/internal/boundaries/in"
	"github.com/bnema/dockhand/internal/boundaries/out"
	"github.com/bnema/dockhand/internal/domain"
	"github.com/bnema/dockhand/internal/usecase/actionlock"
	"github.com/bnema/dockhand/internal/usecase/classify"
	"github.com/bnema/dockhand/internal/usecase/collection"
)

// Service implements in.ConsoleService.
type Service struct {
	backend  out.Backend
	sessions out.SessionStore
	dialer   out.StreamDialer
	bus      out.EventBus
	locks    *actionlock.Registry
	cache    *collection.Cache
	metrics  out.MetricsRecorder
	log      zerowrap.Logger
	now      func() time.Time

	mu      sync.RWMutex
	session domain.Session
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics records lock, stream and classification metrics.
func WithMetrics(m out.MetricsRecorder) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithClock overrides the clock used for session expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new console service.
func NewService(
	backend out.Backend,
	sessions out.SessionStore,
	dialer out.StreamDialer,
	bus out.EventBus,
	log zerowrap.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		backend:  backend,
		sessions: sessions,
		dialer:   dialer,
		bus:      bus,
		metrics:  out.NoopMetrics{},
		log:      log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.locks = actionlock.NewRegistry(log, actionlock.WithMetrics(s.metrics), actionlock.WithClock(s.now))
	s.cache = collection.NewCache(log)
	return s
}

// Restore loads the stored session and checks it against the backend.
// A rejected token clears the stored session.
func (s *Service) Restore(ctx context.Context) (domain.Session, error) {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:   "usecase",
		zerowrap.FieldUseCase: "Restore",
	})
	log := zerowrap.FromCtx(ctx)

	session, err := s.sessions.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return domain.Session{}, domain.ErrNotAuthenticated
		}
		return domain.Session{}, log.WrapErr(err, "failed to load session")
	}
	if !session.Valid() {
		return domain.Session{}, domain.ErrNotAuthenticated
	}
	if session.Expired(s.now()) {
		s.expire(ctx, "token expired")
		return domain.Session{}, domain.ErrNotAuthenticated
	}

	s.backend.SetToken(session.Token)
	user, err := s.backend.CurrentUser(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			s.expire(ctx, "token rejected")
			return domain.Session{}, domain.ErrNotAuthenticated
		}
		s.backend.SetToken("")
		return domain.Session{}, fmt.Errorf("failed to check session: %w", err)
	}

	session.Email = user.Email
	session.Role = user.Role
	if user.ID != "" {
		session.UserID = user.ID
	}
	s.setSession(session)

	log.Debug().Str(zerowrap.FieldEntityID, session.UserID).Msg("session restored")
	return session, nil
}

// Login authenticates, resolves the user profile and persists the session.
func (s *Service) Login(ctx context.Context, email, password string) (domain.Session, error) {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:   "usecase",
		zerowrap.FieldUseCase: "Login",
	})
	log := zerowrap.FromCtx(ctx)

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return domain.Session{}, fmt.Errorf("%w: email and password are required", domain.ErrInvalidRequest)
	}

	token, err := s.backend.Authenticate(ctx, email, password)
	if err != nil {
		return domain.Session{}, s.classified(ctx, err, "Login failed: ")
	}

	s.backend.SetToken(token)
	user, err := s.backend.CurrentUser(ctx)
	if err != nil {
		s.backend.SetToken("")
		return domain.Session{}, s.classified(ctx, err, "Login failed: ")
	}

	claims := parseTokenClaims(token)
	session := domain.Session{
		Token:     token,
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		ExpiresAt: claims.ExpiresAt,
	}
	if session.UserID == "" {
		session.UserID = claims.Subject
	}
	if session.Email == "" {
		session.Email = email
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return domain.Session{}, log.WrapErr(err, "failed to save session")
	}
	s.setSession(session)
	s.cache.InvalidateAll()

	s.publish(ctx, domain.EventSessionStarted, domain.SessionEventPayload{UserID: session.UserID, Email: session.Email})
	log.Info().Str(zerowrap.FieldEntityID, session.UserID).Str("email", session.Email).Msg("logged in")
	return session, nil
}

// Logout clears the session and all cached data.
func (s *Service) Logout(ctx context.Context) error {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:   "usecase",
		zerowrap.FieldUseCase: "Logout",
	})
	log := zerowrap.FromCtx(ctx)

	previous, _ := s.Session()
	s.setSession(domain.Session{})
	s.backend.SetToken("")
	s.cache.InvalidateAll()

	if err := s.sessions.Clear(ctx); err != nil {
		return log.WrapErr(err, "failed to clear session")
	}

	s.publish(ctx, domain.EventSessionEnded, domain.SessionEventPayload{UserID: previous.UserID, Email: previous.Email, Reason: "logout"})
	return nil
}

// Register creates a new account.
func (s *Service) Register(ctx context.Context, email, password string) error {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:   "usecase",
		zerowrap.FieldUseCase: "Register",
	})

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return fmt.Errorf("%w: email and password are required", domain.ErrInvalidRequest)
	}
	if err := s.backend.Register(ctx, email, password); err != nil {
		return s.classified(ctx, err, "Registration failed: ")
	}
	return nil
}

// Session returns the active session.
func (s *Service) Session() (domain.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session, s.session.Valid()
}

// Resources returns the containers of ownerID, the session user when empty.
func (s *Service) Resources(ctx context.Context, ownerID string, refresh bool) ([]domain.Resource, error) {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:   "usecase",
		zerowrap.FieldUseCase: "Resources",
		"refresh":             refresh,
	})

	if ownerID == "" {
		session, err := s.requireSession()
		if err != nil {
			return nil, err
		}
		ownerID = session.UserID
	}

	scope := domain.OwnerScope(ownerID)
	if !refresh {
		if list, ok := s.cache.Get(scope); ok {
			return list, nil
		}
	}

	list, err := s.cache.Reload(ctx, scope, s.fetchOwner(ownerID))
	if err != nil {
		return nil, s.classified(ctx, err, "Failed to load containers: ")
	}
	s.publish(ctx, domain.EventCollectionRefresh, domain.ActionEventPayload{Scope: scope})
	return list, nil
}

// Resource returns one container.
func (s *Service) Resource(ctx context.Context, resourceID string) (domain.Resource, error) {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:    "usecase",
		zerowrap.FieldUseCase:  "Resource",
		zerowrap.FieldEntityID: resourceID,
	})

	if _, err := s.requireSession(); err != nil {
		return domain.Resource{}, err
	}
	r, err := s.backend.GetResource(ctx, resourceID)
	if err != nil {
		return domain.Resource{}, s.classified(ctx, err, "Failed to load container: ")
	}
	return r, nil
}

// Users returns every account.
func (s *Service) Users(ctx context.Context) ([]domain.User, error) {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:   "usecase",
		zerowrap.FieldUseCase: "Users",
	})

	if _, err := s.requireSession(); err != nil {
		return nil, err
	}
	users, err := s.backend.ListUsers(ctx)
	if err != nil {
		return nil, s.classified(ctx, err, "Failed to load users: ")
	}
	return users, nil
}

// SystemOverview fetches host information and disk usage concurrently.
func (s *Service) SystemOverview(ctx context.Context) (domain.SystemOverview, error) {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:   "usecase",
		zerowrap.FieldUseCase: "SystemOverview",
	})

	if _, err := s.requireSession(); err != nil {
		return domain.SystemOverview{}, err
	}

	var overview domain.SystemOverview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		info, err := s.backend.SystemInfo(gctx)
		if err != nil {
			return err
		}
		overview.Info = info
		return nil
	})
	g.Go(func() error {
		disk, err := s.backend.DiskUsage(gctx)
		if err != nil {
			return err
		}
		overview.Disk = disk
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.SystemOverview{}, s.classified(ctx, err, "Failed to load system information: ")
	}
	return overview, nil
}

// StreamURL returns the authenticated URL of a resource stream.
func (s *Service) StreamURL(resourceID string, kind domain.StreamKind) (string, error) {
	session, err := s.requireSession()
	if err != nil {
		return "", err
	}
	if session.Expired(s.now()) {
		s.expire(context.Background(), "token expired")
		return "", fmt.Errorf("%w: session expired", domain.ErrUnauthorized)
	}
	return s.backend.StreamURL(resourceID, kind, session.Token)
}

// NewView creates a live view bound to this service.
func (s *Service) NewView(ctx context.Context, hooks in.ViewHooks) in.LiveView {
	return newView(ctx, s, hooks)
}

func (s *Service) fetchOwner(ownerID string) collection.FetchFunc {
	return func(ctx context.Context) ([]domain.Resource, error) {
		return s.backend.ListResources(ctx, ownerID)
	}
}

func (s *Service) requireSession() (domain.Session, error) {
	session, ok := s.Session()
	if !ok {
		return domain.Session{}, domain.ErrNotAuthenticated
	}
	return session, nil
}

func (s *Service) setSession(session domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
}

// classified maps err onto the taxonomy, invalidates the session on 401 and
// returns the classified error.
func (s *Service) classified(ctx context.Context, err error, prefix string) error {
	if errors.Is(err, domain.ErrNotAuthenticated) || errors.Is(err, domain.ErrInvalidRequest) {
		return err
	}

	ce := classify.Classify(err)
	if ce.Kind != domain.ErrorKindAlreadyLocked {
		ce = ce.WithPrefix(prefix)
	}
	s.metrics.ErrorClassified(ctx, ce.Kind)

	log := zerowrap.FromCtx(ctx)
	log.Warn().
		Err(err).
		Str("kind", string(ce.Kind)).
		Msg(ce.UserMessage)

	if _, ok := s.Session(); ok && errors.Is(err, domain.ErrUnauthorized) {
		s.expire(ctx, "backend returned 401")
	}
	return ce
}

// expire drops the session after the backend rejected it.
func (s *Service) expire(ctx context.Context, reason string) {
	previous, _ := s.Session()
	s.setSession(domain.Session{})
	s.backend.SetToken("")
	s.cache.InvalidateAll()

	if err := s.sessions.Clear(ctx); err != nil {
		log := zerowrap.FromCtx(ctx)
		log.Warn().Err(err).Msg("failed to clear expired session")
	}
	s.publish(ctx, domain.EventSessionExpired, domain.SessionEventPayload{UserID: previous.UserID, Email: previous.Email, Reason: reason})
}

func (s *Service) publish(ctx context.Context, eventType domain.EventType, payload any) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(eventType, payload); err != nil {
		log := zerowrap.FromCtx(ctx)
		log.Warn().Err(err).Str(zerowrap.FieldEvent, string(eventType)).Msg("failed to publish event")
	}
}

var _ in.ConsoleService = (*Service)(nil)
