package stream

import (
	"context"
	"sync"
	"time"

	"github.com/bnema/dockhand/internal/boundaries/out"
	"github.com/bnema/dockhand/internal/domain"
)

// Handler receives channel callbacks. Every field is optional.
//
// Callbacks run on the channel's event loop goroutine. They must not call
// Open, Close, CloseKey or CloseAll synchronously.
type Handler struct {
	OnOpen     func(key domain.StreamKey)
	OnLog      func(key domain.StreamKey, fragment string)
	OnStats    func(key domain.StreamKey, sample domain.StatsSample)
	OnError    func(key domain.StreamKey, err domain.ClassifiedError)
	OnCollapse func(key domain.StreamKey)
	OnTerminal func(key domain.StreamKey, state domain.ConnectionState)
}

func (h Handler) open(key domain.StreamKey) {
	if h.OnOpen != nil {
		h.OnOpen(key)
	}
}

func (h Handler) log(key domain.StreamKey, fragment string) {
	if h.OnLog != nil {
		h.OnLog(key, fragment)
	}
}

func (h Handler) stats(key domain.StreamKey, sample domain.StatsSample) {
	if h.OnStats != nil {
		h.OnStats(key, sample)
	}
}

func (h Handler) error(key domain.StreamKey, err domain.ClassifiedError) {
	if h.OnError != nil {
		h.OnError(key, err)
	}
}

func (h Handler) collapse(key domain.StreamKey) {
	if h.OnCollapse != nil {
		h.OnCollapse(key)
	}
}

func (h Handler) terminal(key domain.StreamKey, state domain.ConnectionState) {
	if h.OnTerminal != nil {
		h.OnTerminal(key, state)
	}
}

// Handle is one channel opened by a Manager.
type Handle struct {
	key      domain.StreamKey
	url      string
	openedAt time.Time
	handler  Handler
	manager  *Manager

	mu     sync.Mutex
	state  domain.ConnectionState
	conn   out.StreamConn
	logs   domain.LogChunk
	latest *domain.StatsSample
	frames int

	events    chan event
	closeReq  chan struct{}
	closeOnce sync.Once
	done      chan struct{}
	cancel    context.CancelFunc
}

// Key returns the channel key.
func (h *Handle) Key() domain.StreamKey {
	return h.key
}

// OpenedAt returns when the channel was requested.
func (h *Handle) OpenedAt() time.Time {
	return h.openedAt
}

// State returns the current connection state.
func (h *Handle) State() domain.ConnectionState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Done is closed once the channel reached a terminal state.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Logs returns a copy of the fragments received so far on a logs channel.
func (h *Handle) Logs() domain.LogChunk {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append(domain.LogChunk(nil), h.logs...)
}

// Latest returns the most recent stats sample, if any.
func (h *Handle) Latest() (domain.StatsSample, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.latest == nil {
		return domain.StatsSample{}, false
	}
	return *h.latest, true
}

// Frames returns how many frames were accepted.
func (h *Handle) Frames() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frames
}

// Snapshot returns a read-only view of the channel.
func (h *Handle) Snapshot() domain.StreamChannel {
	return domain.StreamChannel{Key: h.key, State: h.State(), OpenedAt: h.openedAt}
}

func (h *Handle) requestClose() {
	h.closeOnce.Do(func() { close(h.closeReq) })
}

func (h *Handle) closeRequested() bool {
	select {
	case <-h.closeReq:
		return true
	default:
		return false
	}
}
