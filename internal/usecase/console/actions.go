package console

import (
	"context"
	"fmt"

	"github.com/bnema/zerowrap"

	"github.com/bnema/dockhand/internal/domain"
	"github.com/bnema/dockhand/internal/usecase/classify"
)

// RunAction runs a container action and reloads scope before releasing the lock.
func (s *Service) RunAction(ctx context.Context, scope domain.ScopeKey, resourceID string, kind domain.ActionKind) error {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:    "usecase",
		zerowrap.FieldUseCase:  "RunAction",
		zerowrap.FieldAction:   string(kind),
		zerowrap.FieldEntityID: resourceID,
	})

	var call func(context.Context, string) error
	switch kind {
	case domain.ActionStart:
		call = s.backend.StartResource
	case domain.ActionStop:
		call = s.backend.StopResource
	case domain.ActionRestart:
		call = s.backend.RestartResource
	case domain.ActionDelete:
		call = s.backend.DeleteResource
	default:
		return fmt.Errorf("%w: %q is not a container action", domain.ErrInvalidRequest, kind)
	}

	if _, err := s.requireSession(); err != nil {
		return err
	}
	if scope.ID == "" {
		session, _ := s.Session()
		scope = domain.OwnerScope(session.UserID)
	}

	return s.locked(ctx, resourceID, kind, scope, func(ctx context.Context) error {
		return call(ctx, resourceID)
	})
}

// Create creates a container for the session user.
func (s *Service) Create(ctx context.Context, req domain.CreateResourceRequest) error {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:   "usecase",
		zerowrap.FieldUseCase: "Create",
		"name":                req.Name,
		"image":               req.Image,
	})

	session, err := s.requireSession()
	if err != nil {
		return err
	}

	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return err
	}

	scope := domain.OwnerScope(session.UserID)
	return s.locked(ctx, domain.CreateResourceID, domain.ActionCreate, scope, func(ctx context.Context) error {
		return s.backend.CreateResource(ctx, req)
	})
}

// InProgress returns the kind of the action running on resourceID.
func (s *Service) InProgress(resourceID string) (domain.ActionKind, bool) {
	return s.locks.CurrentKind(resourceID)
}

// Locks returns every action in flight.
func (s *Service) Locks() []domain.ActionLock {
	return s.locks.Snapshot()
}

// DeleteUser removes an account other than the session's own.
func (s *Service) DeleteUser(ctx context.Context, userID string) error {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:    "usecase",
		zerowrap.FieldUseCase:  "DeleteUser",
		zerowrap.FieldEntityID: userID,
	})
	log := zerowrap.FromCtx(ctx)

	session, err := s.requireSession()
	if err != nil {
		return err
	}
	if userID == session.UserID {
		return domain.ErrSelfDelete
	}

	if _, err := s.locks.Acquire(ctx, userID, domain.ActionDelete); err != nil {
		return classify.Classify(err)
	}

	err = s.backend.DeleteUser(ctx, userID)
	s.locks.Release(userID)

	scope := domain.OwnerScope(userID)
	if err != nil {
		return s.failed(ctx, userID, domain.ActionDelete, scope, err, "Failed to delete user: ")
	}

	s.cache.Collapse(scope)
	s.cache.Invalidate(scope)
	s.publish(ctx, domain.EventActionCompleted, domain.ActionEventPayload{ResourceID: userID, Kind: domain.ActionDelete, Scope: scope})
	log.Info().Msg("user deleted")
	return nil
}

// ExpandUser returns the containers of userID. Only the first expansion, or
// the first after a mutation, hits the backend.
func (s *Service) ExpandUser(ctx context.Context, userID string) ([]domain.Resource, error) {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:    "usecase",
		zerowrap.FieldUseCase:  "ExpandUser",
		zerowrap.FieldEntityID: userID,
	})

	if _, err := s.requireSession(); err != nil {
		return nil, err
	}

	scope := domain.OwnerScope(userID)
	if !s.cache.NeedsFetch(scope) {
		return s.cache.Expand(ctx, scope, s.fetchOwner(userID))
	}

	if _, err := s.locks.Acquire(ctx, userID, domain.ActionLoadChildren); err != nil {
		return nil, classify.Classify(err)
	}
	defer s.locks.Release(userID)

	list, err := s.cache.Expand(ctx, scope, s.fetchOwner(userID))
	if err != nil {
		s.cache.Collapse(scope)
		return nil, s.failed(ctx, userID, domain.ActionLoadChildren, scope, err, "Failed to load containers: ")
	}
	return list, nil
}

// ReloadUser refetches the containers of userID.
func (s *Service) ReloadUser(ctx context.Context, userID string) ([]domain.Resource, error) {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:    "usecase",
		zerowrap.FieldUseCase:  "ReloadUser",
		zerowrap.FieldEntityID: userID,
	})

	if _, err := s.requireSession(); err != nil {
		return nil, err
	}

	scope := domain.OwnerScope(userID)
	if _, err := s.locks.Acquire(ctx, userID, domain.ActionLoadChildren); err != nil {
		return nil, classify.Classify(err)
	}
	defer s.locks.Release(userID)

	list, err := s.cache.Reload(ctx, scope, s.fetchOwner(userID))
	if err != nil {
		return nil, s.failed(ctx, userID, domain.ActionLoadChildren, scope, err, "Failed to reload containers: ")
	}
	return list, nil
}

// CollapseUser hides the containers of userID.
func (s *Service) CollapseUser(userID string) {
	s.cache.Collapse(domain.OwnerScope(userID))
}

// locked runs call under the lock of resourceID, reloads scope on success,
// then releases the lock and publishes the outcome.
func (s *Service) locked(
	ctx context.Context,
	resourceID string,
	kind domain.ActionKind,
	scope domain.ScopeKey,
	call func(context.Context) error,
) error {
	log := zerowrap.FromCtx(ctx)

	if _, err := s.locks.Acquire(ctx, resourceID, kind); err != nil {
		return classify.Classify(err)
	}

	if err := call(ctx); err != nil {
		s.locks.Release(resourceID)
		return s.failed(ctx, resourceID, kind, scope, err, actionPrefix(kind))
	}

	_, err := s.cache.Reload(ctx, scope, s.fetchOwner(scope.ID))
	s.locks.Release(resourceID)
	if err != nil {
		return s.failed(ctx, resourceID, kind, scope, err, "Failed to load containers: ")
	}

	s.publish(ctx, domain.EventActionCompleted, domain.ActionEventPayload{ResourceID: resourceID, Kind: kind, Scope: scope})
	log.Info().Msg("action completed")
	return nil
}

func (s *Service) failed(
	ctx context.Context,
	resourceID string,
	kind domain.ActionKind,
	scope domain.ScopeKey,
	err error,
	prefix string,
) error {
	classified := s.classified(ctx, err, prefix)

	if ce, ok := classified.(domain.ClassifiedError); ok {
		s.publish(ctx, domain.EventActionFailed, domain.ActionEventPayload{
			ResourceID: resourceID,
			Kind:       kind,
			Scope:      scope,
			Err:        &ce,
		})
	}
	return classified
}

// actionPrefix returns the banner prefix of a failed action. Create failures
// carry the classified message alone.
func actionPrefix(kind domain.ActionKind) string {
	if kind == domain.ActionCreate {
		return ""
	}
	return "Failed to " + kind.Verb() + " container: "
}
