// Package stream multiplexes live per-resource channels (logs, stats).
//
// A Manager keeps at most one live channel per domain.StreamKey. Opening a key
// that already has a channel closes the previous one, and waits for it to reach
// a terminal state, before dialing again. Each channel runs its own event loop
// goroutine that owns every state transition:
//
//	connecting -> open -> closed | errored
//
// Views that own a Manager call CloseAll on teardown.
package stream

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

// Manager opens and tracks stream channels.
type Manager struct {
	dialer  out.StreamDialer
	metrics out.MetricsRecorder
	log     zerowrap.Logger
	now     func() time.Time

	// openMu serializes Open and CloseAll so a key never has two live channels.
	openMu   sync.Mutex
	mu       sync.Mutex
	channels map[domain.StreamKey]*Handle
}

// Option configures a Manager.
type Option func(*Manager)

// WithMetrics records channel lifecycle and frame counts.
func WithMetrics(m out.MetricsRecorder) Option {
	return func(mgr *Manager) {
		if m != nil {
			mgr.metrics = m
		}
	}
}

// WithClock overrides the clock used for OpenedAt and SampledAt.
func WithClock(now func() time.Time) Option {
	return func(mgr *Manager) {
		mgr.now = now
	}
}

// NewManager creates a manager dialing through dialer.
func NewManager(dialer out.StreamDialer, log zerowrap.Logger, opts ...Option) *Manager {
	m := &Manager{
		dialer:   dialer,
		metrics:  out.NoopMetrics{},
		log:      log,
		now:      time.Now,
		channels: make(map[domain.StreamKey]*Handle),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Open starts a channel for key. The returned handle is in the connecting state;
// dialing happens on the channel goroutine. Cancelling ctx closes the channel.
func (m *Manager) Open(ctx context.Context, key domain.StreamKey, url string, handler Handler) (*Handle, error) {
	if _, err := domain.NewStreamKey(key.ResourceID, key.Kind); err != nil {
		return nil, err
	}
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("%w: stream url is required", domain.ErrInvalidRequest)
	}

	m.openMu.Lock()
	defer m.openMu.Unlock()

	if prev := m.lookup(key); prev != nil {
		m.log.Debug().
			Str(zerowrap.FieldLayer, "usecase").
			Str(zerowrap.FieldComponent, "stream").
			Str(zerowrap.FieldEntityID, key.ResourceID).
			Str("stream", string(key.Kind)).
			Msg("replacing existing stream")
		prev.requestClose()
		<-prev.Done()
	}

	chCtx, cancel := context.WithCancel(ctx)
	h := &Handle{
		key:      key,
		url:      url,
		openedAt: m.now(),
		handler:  handler,
		manager:  m,
		state:    domain.StateConnecting,
		events:   make(chan event),
		closeReq: make(chan struct{}),
		done:     make(chan struct{}),
		cancel:   cancel,
	}

	m.mu.Lock()
	m.channels[key] = h
	m.mu.Unlock()

	go h.loop(chCtx)
	go h.pump(chCtx, m.dialer)

	return h, nil
}

// Close closes h and waits for its terminal state. Closing twice is a no-op.
func (m *Manager) Close(h *Handle) {
	if h == nil {
		return
	}
	h.requestClose()
	<-h.Done()
}

// CloseKey closes the channel registered for key, if any.
func (m *Manager) CloseKey(key domain.StreamKey) {
	m.Close(m.lookup(key))
}

// CloseAll closes every channel and returns once none is live.
func (m *Manager) CloseAll() {
	m.openMu.Lock()
	defer m.openMu.Unlock()

	m.mu.Lock()
	handles := make([]*Handle, 0, len(m.channels))
	for _, h := range m.channels {
		handles = append(handles, h)
	}
	m.mu.Unlock()

	for _, h := range handles {
		h.requestClose()
	}
	for _, h := range handles {
		<-h.Done()
	}
}

// Get returns the live channel for key.
func (m *Manager) Get(key domain.StreamKey) (*Handle, bool) {
	h := m.lookup(key)
	return h, h != nil
}

// State returns the state of the live channel for key. Keys without a live
// channel report closed.
func (m *Manager) State(key domain.StreamKey) (domain.ConnectionState, bool) {
	h := m.lookup(key)
	if h == nil {
		return domain.StateClosed, false
	}
	return h.State(), true
}

// Active returns snapshots of the live channels ordered by key.
func (m *Manager) Active() []domain.StreamChannel {
	m.mu.Lock()
	handles := make([]*Handle, 0, len(m.channels))
	for _, h := range m.channels {
		handles = append(handles, h)
	}
	m.mu.Unlock()

	channels := make([]domain.StreamChannel, 0, len(handles))
	for _, h := range handles {
		snap := h.Snapshot()
		if snap.State.Live() {
			channels = append(channels, snap)
		}
	}
	sort.Slice(channels, func(i, j int) bool { return channels[i].Key.String() < channels[j].Key.String() })
	return channels
}

// Len returns the number of live channels.
func (m *Manager) Len() int {
	return len(m.Active())
}

func (m *Manager) lookup(key domain.StreamKey) *Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.channels[key]
}

// detach drops h from the registry unless it was already replaced.
func (m *Manager) detach(h *Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.channels[h.key] == h {
		delete(m.channels, h.key)
	}
}
