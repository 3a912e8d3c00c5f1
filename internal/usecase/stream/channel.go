package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bnema/zerowrap"

	"github.com/bnema/dockhand/internal/boundaries/out"
	"github.com/bnema/dockhand/internal/domain"
	"github.com/bnema/dockhand/internal/usecase/classify"
	"github.com/bnema/dockhand/internal/usecase/telemetry"
)

type eventKind int

const (
	evOpened eventKind = iota
	evFrame
	evTransportError
	evRemoteClose
)

type event struct {
	kind  eventKind
	conn  out.StreamConn
	frame []byte
	err   error
}

// pump dials the stream and forwards every frame to the event loop.
// It owns conn until evOpened is accepted.
func (h *Handle) pump(ctx context.Context, dialer out.StreamDialer) {
	conn, err := dialer.Dial(ctx, h.url)
	if err != nil {
		h.emit(event{kind: evTransportError, err: fmt.Errorf("dial: %w", err)})
		return
	}
	if !h.emit(event{kind: evOpened, conn: conn}) {
		_ = conn.Close()
		return
	}

	for {
		frame, err := conn.ReadFrame()
		if err != nil {
			var closeErr *out.CloseError
			if errors.As(err, &closeErr) || errors.Is(err, io.EOF) {
				h.emit(event{kind: evRemoteClose, err: err})
			} else {
				h.emit(event{kind: evTransportError, err: err})
			}
			return
		}
		if !h.emit(event{kind: evFrame, frame: frame}) {
			return
		}
	}
}

func (h *Handle) emit(ev event) bool {
	select {
	case h.events <- ev:
		return true
	case <-h.done:
		return false
	}
}

// loop is the single goroutine allowed to transition the channel state.
func (h *Handle) loop(ctx context.Context) {
	for {
		select {
		case <-h.closeReq:
			h.finish(ctx, domain.StateClosed, nil)
			return
		case <-ctx.Done():
			h.finish(ctx, domain.StateClosed, nil)
			return
		case ev := <-h.events:
			if ev.kind == evOpened {
				h.mu.Lock()
				h.conn = ev.conn
				h.mu.Unlock()
			}
			if h.closeRequested() || ctx.Err() != nil {
				h.finish(ctx, domain.StateClosed, nil)
				return
			}
			if h.dispatch(ctx, ev) {
				return
			}
		}
	}
}

// dispatch applies one event and reports whether the channel is now terminal.
func (h *Handle) dispatch(ctx context.Context, ev event) bool {
	m := h.manager

	switch ev.kind {
	case evOpened:
		h.mu.Lock()
		h.state = domain.StateOpen
		h.mu.Unlock()

		m.metrics.StreamOpened(ctx, h.key.Kind)
		m.log.Debug().
			Str(zerowrap.FieldLayer, "usecase").
			Str(zerowrap.FieldComponent, "stream").
			Str(zerowrap.FieldEntityID, h.key.ResourceID).
			Str("stream", string(h.key.Kind)).
			Msg("stream open")
		h.handler.open(h.key)
		return false

	case evFrame:
		return h.onFrame(ctx, ev.frame)

	case evRemoteClose:
		var closeErr *out.CloseError
		if !errors.As(ev.err, &closeErr) || closeErr.Normal() {
			h.finish(ctx, domain.StateClosed, nil)
			return true
		}
		surfaced := domain.ClassifiedError{
			Kind:        domain.ErrorKindNetworkUnavailable,
			UserMessage: fmt.Sprintf("%s stream closed unexpectedly (%s)", kindTitle(h.key.Kind), closeDetail(closeErr)),
			RawMessage:  closeErr.Error(),
		}
		h.finish(ctx, domain.StateErrored, &surfaced)
		return true

	case evTransportError:
		surfaced := domain.ClassifiedError{
			Kind:        domain.ErrorKindNetworkUnavailable,
			UserMessage: transportMessage(h.key),
			RawMessage:  ev.err.Error(),
		}
		h.finish(ctx, domain.StateErrored, &surfaced)
		return true
	}

	return false
}

func (h *Handle) onFrame(ctx context.Context, frame []byte) bool {
	m := h.manager
	m.metrics.FrameReceived(ctx, h.key.Kind)

	if h.key.Kind == domain.StreamLogs {
		fragment := telemetry.DecodeLogFrame(frame)
		h.mu.Lock()
		h.logs = append(h.logs, fragment)
		h.frames++
		h.mu.Unlock()
		h.handler.log(h.key, fragment)
		return false
	}

	sample, err := telemetry.DecodeStatsFrame(frame, m.now())
	if err != nil {
		var backendErr *telemetry.BackendError
		if errors.As(err, &backendErr) {
			surfaced := classify.Message(backendErr.Message).WithPrefix("Stats error: ")
			m.log.Warn().
				Str(zerowrap.FieldLayer, "usecase").
				Str(zerowrap.FieldComponent, "stream").
				Str(zerowrap.FieldEntityID, h.key.ResourceID).
				Str("reason", backendErr.Message).
				Msg("backend reported a stats error, closing stream")
			h.finish(ctx, domain.StateClosed, &surfaced)
			return true
		}

		m.metrics.FrameDecodeFailed(ctx, h.key.Kind)
		m.log.Warn().
			Err(err).
			Str(zerowrap.FieldLayer, "usecase").
			Str(zerowrap.FieldComponent, "stream").
			Str(zerowrap.FieldEntityID, h.key.ResourceID).
			Msg("dropping malformed stats frame")
		// A bad frame is transient: surface it as Unknown and keep the channel.
		h.handler.error(h.key, domain.ClassifiedError{
			Kind:        domain.ErrorKindUnknown,
			UserMessage: "Failed to parse stats data",
			RawMessage:  err.Error(),
		})
		return false
	}

	h.mu.Lock()
	h.latest = &sample
	h.frames++
	h.mu.Unlock()
	h.handler.stats(h.key, sample)
	return false
}

// finish moves the channel to its terminal state exactly once.
func (h *Handle) finish(ctx context.Context, state domain.ConnectionState, surfaced *domain.ClassifiedError) {
	m := h.manager

	h.mu.Lock()
	if h.state.Terminal() {
		h.mu.Unlock()
		return
	}
	wasOpen := h.state == domain.StateOpen
	h.state = state
	conn := h.conn
	h.mu.Unlock()

	if conn != nil {
		if err := conn.Close(); err != nil {
			m.log.Debug().Err(err).Str(zerowrap.FieldEntityID, h.key.ResourceID).Msg("closing stream transport")
		}
	}
	h.cancel()
	m.detach(h)

	// ctx may already be cancelled here; metrics only need its values.
	mctx := context.WithoutCancel(ctx)
	if wasOpen {
		m.metrics.StreamTerminated(mctx, h.key.Kind, state)
	}

	entry := m.log.Debug()
	if state == domain.StateErrored {
		entry = m.log.Warn()
	}
	entry.
		Str(zerowrap.FieldLayer, "usecase").
		Str(zerowrap.FieldComponent, "stream").
		Str(zerowrap.FieldEntityID, h.key.ResourceID).
		Str("stream", string(h.key.Kind)).
		Str(zerowrap.FieldStatus, string(state)).
		Msg("stream terminated")

	if surfaced != nil {
		m.metrics.ErrorClassified(mctx, surfaced.Kind)
		h.handler.error(h.key, *surfaced)
		if h.key.Kind == domain.StreamStats {
			h.handler.collapse(h.key)
		}
	}
	h.handler.terminal(h.key, state)
	close(h.done)
}

func kindTitle(kind domain.StreamKind) string {
	s := string(kind)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func closeDetail(e *out.CloseError) string {
	if e.Reason == "" {
		return fmt.Sprintf("code: %d", e.Code)
	}
	return fmt.Sprintf("code: %d, reason: %s", e.Code, e.Reason)
}

func transportMessage(key domain.StreamKey) string {
	if key.Kind == domain.StreamStats {
		return "Failed to connect to stats stream. Make sure the container is running."
	}
	return "Failed to connect to logs stream for container " + domain.ShortID(key.ResourceID)
}
