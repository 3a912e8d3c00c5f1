// Package eventbus fans console events out to in-process subscribers.
package eventbus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bnema/zerowrap"
	"github.com/google/uuid"

	"github.com/bnema/dockhand/internal/boundaries/out"
	"github.com/bnema/dockhand/internal/domain"
)

const (
	defaultBufferSize  = 64
	defaultEnqueueWait = 2 * time.Second
	handlerDeadline    = 5 * time.Second
	slowHandler        = 250 * time.Millisecond
)

// ErrStopped is returned by Publish once the bus has been stopped.
var ErrStopped = errors.New("event bus is stopped")

// Option configures a Bus.
type Option func(*Bus)

// WithMetrics records delivered and dropped events.
func WithMetrics(m out.MetricsRecorder) Option {
	return func(b *Bus) {
		if m != nil {
			b.metrics = m
		}
	}
}

// WithEnqueueWait bounds how long Publish waits for room in a full queue.
func WithEnqueueWait(d time.Duration) Option {
	return func(b *Bus) {
		if d > 0 {
			b.enqueueWait = d
		}
	}
}

// Bus delivers events to subscribers on one goroutine, in publish order.
// Handlers run inline under a deadline, so a handler must not publish and
// wait for its own event.
type Bus struct {
	log         zerowrap.Logger
	metrics     out.MetricsRecorder
	enqueueWait time.Duration
	now         func() time.Time

	queue   chan domain.Event
	quit    chan struct{}
	drained chan struct{}

	mu       sync.RWMutex
	subs     []out.EventHandler
	started  bool
	stopOnce sync.Once
}

// New creates a bus holding up to bufferSize undelivered events.
func New(bufferSize int, log zerowrap.Logger, opts ...Option) *Bus {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	b := &Bus{
		log:         log,
		metrics:     out.NoopMetrics{},
		enqueueWait: defaultEnqueueWait,
		now:         time.Now,
		queue:       make(chan domain.Event, bufferSize),
		quit:        make(chan struct{}),
		drained:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Publish stamps the payload into an event and queues it.
func (b *Bus) Publish(eventType domain.EventType, payload any) error {
	select {
	case <-b.quit:
		return ErrStopped
	default:
	}

	event := domain.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: b.now(),
		Data:      payload,
	}
	switch p := payload.(type) {
	case domain.ActionEventPayload:
		event.ResourceID = p.ResourceID
	case domain.StreamEventPayload:
		event.ResourceID = p.Key.ResourceID
	}

	select {
	case b.queue <- event:
		return nil
	default:
	}

	timer := time.NewTimer(b.enqueueWait)
	defer timer.Stop()
	select {
	case b.queue <- event:
		return nil
	case <-b.quit:
		return ErrStopped
	case <-timer.C:
		b.metrics.EventDropped(context.Background(), eventType)
		b.log.Warn().
			Str(zerowrap.FieldAdapter, "eventbus").
			Str(zerowrap.FieldEvent, string(eventType)).
			Str(zerowrap.FieldEntityID, event.ResourceID).
			Msg("event queue full, event dropped")
		return fmt.Errorf("event queue full, dropped %s", eventType)
	}
}

// Subscribe registers a handler. A handler registered twice is delivered to once.
func (b *Bus) Subscribe(handler out.EventHandler) error {
	if handler == nil {
		return errors.New("nil event handler")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, h := range b.subs {
		if h == handler {
			return nil
		}
	}
	b.subs = append(b.subs, handler)
	return nil
}

// Unsubscribe removes a handler registered with Subscribe.
func (b *Bus) Unsubscribe(handler out.EventHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, h := range b.subs {
		if h == handler {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("handler %T is not subscribed", handler)
}

// Start launches the delivery goroutine.
func (b *Bus) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started {
		return errors.New("event bus already started")
	}
	b.started = true
	b.log.Debug().
		Str(zerowrap.FieldLayer, "adapter").
		Str(zerowrap.FieldAdapter, "eventbus").
		Int("buffer_size", cap(b.queue)).
		Msg("event bus started")
	go b.run()
	return nil
}

// Stop refuses new events, delivers the ones already queued and returns
// once delivery has finished or the enqueue wait has elapsed.
func (b *Bus) Stop() error {
	b.stopOnce.Do(func() { close(b.quit) })

	b.mu.RLock()
	started := b.started
	b.mu.RUnlock()
	if !started {
		return nil
	}

	timer := time.NewTimer(b.enqueueWait)
	defer timer.Stop()
	select {
	case <-b.drained:
		return nil
	case <-timer.C:
		return errors.New("timed out draining event bus")
	}
}

func (b *Bus) run() {
	defer close(b.drained)
	for {
		select {
		case event := <-b.queue:
			b.deliver(event)
		case <-b.quit:
			for {
				select {
				case event := <-b.queue:
					b.deliver(event)
				default:
					return
				}
			}
		}
	}
}

func (b *Bus) deliver(event domain.Event) {
	b.mu.RLock()
	subs := append([]out.EventHandler(nil), b.subs...)
	b.mu.RUnlock()

	for _, h := range subs {
		if !h.CanHandle(event.Type) {
			continue
		}
		started := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), handlerDeadline)
		err := h.Handle(ctx, event)
		cancel()
		elapsed := time.Since(started)

		if err != nil {
			b.log.Error().Err(err).
				Str(zerowrap.FieldAdapter, "eventbus").
				Str(zerowrap.FieldEvent, string(event.Type)).
				Str(zerowrap.FieldHandler, fmt.Sprintf("%T", h)).
				Msg("event handler failed")
			continue
		}
		b.metrics.EventProcessed(context.Background(), event.Type)
		if elapsed > slowHandler {
			b.log.Warn().
				Str(zerowrap.FieldEvent, string(event.Type)).
				Str(zerowrap.FieldHandler, fmt.Sprintf("%T", h)).
				Dur(zerowrap.FieldDuration, elapsed).
				Msg("slow event handler")
		}
	}
}

var _ out.EventBus = (*Bus)(nil)
