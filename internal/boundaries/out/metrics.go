package out

import (
	"context"

	"github.com/bnema/dockhand/internal/domain"
)

// MetricsRecorder records console metrics. Implementations must be safe for concurrent use.
type MetricsRecorder interface {
	LockAcquired(ctx context.Context, kind domain.ActionKind)
	LockRejected(ctx context.Context, kind domain.ActionKind)
	StreamOpened(ctx context.Context, kind domain.StreamKind)
	StreamTerminated(ctx context.Context, kind domain.StreamKind, state domain.ConnectionState)
	FrameReceived(ctx context.Context, kind domain.StreamKind)
	FrameDecodeFailed(ctx context.Context, kind domain.StreamKind)
	ErrorClassified(ctx context.Context, kind domain.ErrorKind)
	EventProcessed(ctx context.Context, eventType domain.EventType)
	EventDropped(ctx context.Context, eventType domain.EventType)
}

// NoopMetrics discards every measurement.
type NoopMetrics struct{}

func (NoopMetrics) LockAcquired(context.Context, domain.ActionKind)                             {}
func (NoopMetrics) LockRejected(context.Context, domain.ActionKind)                             {}
func (NoopMetrics) StreamOpened(context.Context, domain.StreamKind)                             {}
func (NoopMetrics) StreamTerminated(context.Context, domain.StreamKind, domain.ConnectionState) {}
func (NoopMetrics) FrameReceived(context.Context, domain.StreamKind)                            {}
func (NoopMetrics) FrameDecodeFailed(context.Context, domain.StreamKind)                        {}
func (NoopMetrics) ErrorClassified(context.Context, domain.ErrorKind)                           {}
func (NoopMetrics) EventProcessed(context.Context, domain.EventType)                            {}
func (NoopMetrics) EventDropped(context.Context, domain.EventType)                              {}
