package console

import (
	"context"
	"errors"
	"sync"

	"github.com/bnema/zerowrap"

	"github.com/bnema/dockhand/internal/boundaries/in"
	"github.com/bnema/dockhand/internal/domain"
	"github.com/bnema/dockhand/internal/usecase/stream"
)

// errViewClosed is returned by a view after Close.
var errViewClosed = errors.New("view is closed")

// View holds the live state of one screen: expanded stats rows, the single
// logs dialog and the current banner. It owns its stream channels.
type View struct {
	svc     *Service
	streams *stream.Manager
	hooks   in.ViewHooks
	ctx     context.Context
	cancel  context.CancelFunc
	events  *viewEvents

	mu        sync.Mutex
	expanded  map[string]uint64 // resource id -> stats row generation
	stats     map[string]domain.StatsSample
	statsGen  uint64
	logsID    string
	logsGen   uint64
	logs      domain.LogChunk
	logsState domain.ConnectionState
	banner    *domain.ClassifiedError
	closed    bool
}

func newView(ctx context.Context, s *Service, hooks in.ViewHooks) *View {
	vctx, cancel := context.WithCancel(ctx)
	v := &View{
		svc:       s,
		streams:   stream.NewManager(s.dialer, s.log, stream.WithMetrics(s.metrics), stream.WithClock(s.now)),
		hooks:     hooks,
		ctx:       vctx,
		cancel:    cancel,
		expanded:  make(map[string]uint64),
		stats:     make(map[string]domain.StatsSample),
		logsState: domain.StateClosed,
	}
	v.events = &viewEvents{view: v}

	if s.bus != nil {
		if err := s.bus.Subscribe(v.events); err != nil {
			s.log.Warn().Err(err).Msg("view could not subscribe to console events")
		}
	}
	return v
}

// ToggleStats opens or closes the stats row of resourceID.
func (v *View) ToggleStats(ctx context.Context, resourceID string) (bool, error) {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:    "usecase",
		zerowrap.FieldUseCase:  "ToggleStats",
		zerowrap.FieldEntityID: resourceID,
	})
	log := zerowrap.FromCtx(ctx)

	if v.isClosed() {
		return false, errViewClosed
	}

	key := domain.StreamKey{ResourceID: resourceID, Kind: domain.StreamStats}
	if v.StatsExpanded(resourceID) {
		v.mu.Lock()
		delete(v.expanded, resourceID)
		delete(v.stats, resourceID)
		v.mu.Unlock()

		v.streams.CloseKey(key)
		log.Debug().Msg("stats row collapsed")
		return false, nil
	}

	url, err := v.svc.StreamURL(resourceID, domain.StreamStats)
	if err != nil {
		return false, err
	}

	v.mu.Lock()
	v.statsGen++
	gen := v.statsGen
	v.expanded[resourceID] = gen
	v.mu.Unlock()

	if _, err := v.streams.Open(v.ctx, key, url, v.statsHandler(gen)); err != nil {
		v.collapseRow(resourceID, gen)
		return false, err
	}
	log.Debug().Msg("stats row expanded")
	return true, nil
}

// StatsExpanded reports whether the stats row of resourceID is expanded.
func (v *View) StatsExpanded(resourceID string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.expanded[resourceID]
	return ok
}

// Stats returns the latest sample of an expanded row.
func (v *View) Stats(resourceID string) (domain.StatsSample, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	sample, ok := v.stats[resourceID]
	return sample, ok
}

// OpenLogs opens the logs dialog for resourceID. Any other dialog is closed
// first; reopening the same resource starts from empty logs.
func (v *View) OpenLogs(ctx context.Context, resourceID string) error {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:    "usecase",
		zerowrap.FieldUseCase:  "OpenLogs",
		zerowrap.FieldEntityID: resourceID,
	})

	if v.isClosed() {
		return errViewClosed
	}

	url, err := v.svc.StreamURL(resourceID, domain.StreamLogs)
	if err != nil {
		return err
	}

	v.mu.Lock()
	previous := v.logsID
	v.logsGen++
	gen := v.logsGen
	v.logsID = resourceID
	v.logs = nil
	v.logsState = domain.StateConnecting
	v.mu.Unlock()

	if previous != "" && previous != resourceID {
		v.streams.CloseKey(domain.StreamKey{ResourceID: previous, Kind: domain.StreamLogs})
	}

	key := domain.StreamKey{ResourceID: resourceID, Kind: domain.StreamLogs}
	if _, err := v.streams.Open(v.ctx, key, url, v.logsHandler(gen)); err != nil {
		v.mu.Lock()
		if v.logsGen == gen {
			v.logsID = ""
			v.logsState = domain.StateClosed
		}
		v.mu.Unlock()
		return err
	}

	log := zerowrap.FromCtx(ctx)
	log.Debug().Msg("logs dialog opened")
	return nil
}

// CloseLogs closes the logs dialog.
func (v *View) CloseLogs() {
	v.mu.Lock()
	id := v.logsID
	v.logsGen++
	v.logsID = ""
	v.logs = nil
	v.logsState = domain.StateClosed
	v.mu.Unlock()

	if id != "" {
		v.streams.CloseKey(domain.StreamKey{ResourceID: id, Kind: domain.StreamLogs})
	}
}

// Logs returns the dialog resource, its text and its connection state.
func (v *View) Logs() (string, domain.LogChunk, domain.ConnectionState) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.logsID, append(domain.LogChunk(nil), v.logs...), v.logsState
}

// Banner returns the current dismissible error.
func (v *View) Banner() (domain.ClassifiedError, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.banner == nil {
		return domain.ClassifiedError{}, false
	}
	return *v.banner, true
}

// DismissBanner clears the banner.
func (v *View) DismissBanner() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.banner = nil
}

// Streams returns the live channels of the view.
func (v *View) Streams() []domain.StreamChannel {
	return v.streams.Active()
}

// Close tears down every channel and stops listening to console events.
func (v *View) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	v.mu.Unlock()

	if v.svc.bus != nil {
		_ = v.svc.bus.Unsubscribe(v.events)
	}
	v.streams.CloseAll()
	v.cancel()
}

func (v *View) isClosed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}

func (v *View) statsHandler(gen uint64) stream.Handler {
	return stream.Handler{
		OnStats: func(key domain.StreamKey, sample domain.StatsSample) {
			v.mu.Lock()
			current := v.expanded[key.ResourceID] == gen
			if current {
				v.stats[key.ResourceID] = sample
			}
			v.mu.Unlock()

			if current && v.hooks.OnStats != nil {
				v.hooks.OnStats(key.ResourceID, sample)
			}
		},
		OnError:    v.streamError,
		OnCollapse: func(key domain.StreamKey) { v.collapseRow(key.ResourceID, gen) },
		OnTerminal: v.streamEnded,
	}
}

func (v *View) logsHandler(gen uint64) stream.Handler {
	return stream.Handler{
		OnOpen: func(domain.StreamKey) {
			v.mu.Lock()
			defer v.mu.Unlock()
			if v.logsGen == gen {
				v.logsState = domain.StateOpen
			}
		},
		OnLog: func(key domain.StreamKey, fragment string) {
			v.mu.Lock()
			current := v.logsGen == gen
			if current {
				v.logs = append(v.logs, fragment)
			}
			v.mu.Unlock()

			if current && v.hooks.OnLog != nil {
				v.hooks.OnLog(key.ResourceID, fragment)
			}
		},
		OnError: v.streamError,
		OnTerminal: func(key domain.StreamKey, state domain.ConnectionState) {
			v.mu.Lock()
			if v.logsGen == gen {
				v.logsState = state
			}
			v.mu.Unlock()
			v.streamEnded(key, state)
		},
	}
}

func (v *View) collapseRow(resourceID string, gen uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.expanded[resourceID] == gen {
		delete(v.expanded, resourceID)
		delete(v.stats, resourceID)
	}
}

func (v *View) streamError(key domain.StreamKey, err domain.ClassifiedError) {
	v.svc.publish(v.ctx, domain.EventStreamErrored, domain.StreamEventPayload{Key: key, Error: err})
	v.raise(err)
}

func (v *View) streamEnded(key domain.StreamKey, state domain.ConnectionState) {
	if v.hooks.OnEnded != nil {
		v.hooks.OnEnded(key, state)
	}
}

func (v *View) raise(err domain.ClassifiedError) {
	if !err.Bannered() {
		return
	}
	v.mu.Lock()
	v.banner = &err
	v.mu.Unlock()

	if v.hooks.OnBanner != nil {
		v.hooks.OnBanner(err)
	}
}

// teardown closes every channel after the session ended.
func (v *View) teardown() {
	v.streams.CloseAll()

	v.mu.Lock()
	defer v.mu.Unlock()
	v.expanded = make(map[string]uint64)
	v.stats = make(map[string]domain.StatsSample)
	v.logsGen++
	v.logsID = ""
	v.logs = nil
	v.logsState = domain.StateClosed
}

// viewEvents forwards console events to a view.
type viewEvents struct {
	view *View
}

func (e *viewEvents) CanHandle(t domain.EventType) bool {
	switch t {
	case domain.EventActionFailed, domain.EventSessionEnded, domain.EventSessionExpired:
		return true
	}
	return false
}

func (e *viewEvents) Handle(_ context.Context, event domain.Event) error {
	switch event.Type {
	case domain.EventActionFailed:
		if p, ok := event.Data.(domain.ActionEventPayload); ok && p.Err != nil {
			e.view.raise(*p.Err)
		}
	case domain.EventSessionExpired:
		e.view.teardown()
		e.view.raise(domain.ClassifiedError{
			Kind:        domain.ErrorKindPermissionDenied,
			UserMessage: "Your session has expired. Please log in again.",
		})
	case domain.EventSessionEnded:
		e.view.teardown()
	}
	return nil
}

var _ in.LiveView = (*View)(nil)
