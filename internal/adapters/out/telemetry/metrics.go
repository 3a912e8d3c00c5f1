package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/bnema/dockhand/internal/boundaries/out"
	"github.com/bnema/dockhand/internal/domain"
)

// meterName is the instrumentation scope of every console instrument.
const meterName = "dockhand"

// Metrics holds the console OTel instruments and implements out.MetricsRecorder.
type Metrics struct {
	// Action locks
	LocksAcquired metric.Int64Counter
	LocksRejected metric.Int64Counter

	// Streams
	StreamsOpened     metric.Int64Counter
	StreamsTerminated metric.Int64Counter
	StreamsActive     metric.Int64UpDownCounter
	FramesReceived    metric.Int64Counter
	FramesMalformed   metric.Int64Counter

	// Errors
	ErrorsClassified metric.Int64Counter

	// Events
	EventsProcessed metric.Int64Counter
	EventsDropped   metric.Int64Counter
}

// MetricsOption configures NewMetrics.
type MetricsOption func(*metricsConfig)

type metricsConfig struct {
	provider metric.MeterProvider
}

// WithMeterProvider registers the instruments on mp instead of the global provider.
func WithMeterProvider(mp metric.MeterProvider) MetricsOption {
	return func(c *metricsConfig) {
		c.provider = mp
	}
}

// NewMetrics creates and registers all console metric instruments.
// OTel hands out noop instruments while no MeterProvider is installed.
func NewMetrics(opts ...MetricsOption) (*Metrics, error) {
	cfg := metricsConfig{provider: otel.GetMeterProvider()}
	for _, opt := range opts {
		opt(&cfg)
	}

	meter := cfg.provider.Meter(meterName)
	m := &Metrics{}
	var err error

	if m.LocksAcquired, err = meter.Int64Counter("dockhand.lock.acquired",
		metric.WithDescription("Total action locks acquired")); err != nil {
		return nil, err
	}
	if m.LocksRejected, err = meter.Int64Counter("dockhand.lock.rejected",
		metric.WithDescription("Total actions rejected because another action held the lock")); err != nil {
		return nil, err
	}
	if m.StreamsOpened, err = meter.Int64Counter("dockhand.stream.opened",
		metric.WithDescription("Total stream channels that reached open")); err != nil {
		return nil, err
	}
	if m.StreamsTerminated, err = meter.Int64Counter("dockhand.stream.terminated",
		metric.WithDescription("Total open stream channels that ended")); err != nil {
		return nil, err
	}
	if m.StreamsActive, err = meter.Int64UpDownCounter("dockhand.stream.active",
		metric.WithDescription("Currently open stream channels")); err != nil {
		return nil, err
	}
	if m.FramesReceived, err = meter.Int64Counter("dockhand.stream.frames",
		metric.WithDescription("Total stream frames received")); err != nil {
		return nil, err
	}
	if m.FramesMalformed, err = meter.Int64Counter("dockhand.stream.frames.malformed",
		metric.WithDescription("Total stream frames that failed to decode")); err != nil {
		return nil, err
	}
	if m.ErrorsClassified, err = meter.Int64Counter("dockhand.errors.classified",
		metric.WithDescription("Total backend failures by error kind")); err != nil {
		return nil, err
	}
	if m.EventsProcessed, err = meter.Int64Counter("dockhand.events.processed",
		metric.WithDescription("Total events processed")); err != nil {
		return nil, err
	}
	if m.EventsDropped, err = meter.Int64Counter("dockhand.events.dropped",
		metric.WithDescription("Total events dropped")); err != nil {
		return nil, err
	}

	return m, nil
}

func kindAttr(key, value string) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String(key, value))
}

func (m *Metrics) LockAcquired(ctx context.Context, kind domain.ActionKind) {
	m.LocksAcquired.Add(ctx, 1, kindAttr("action", string(kind)))
}

func (m *Metrics) LockRejected(ctx context.Context, kind domain.ActionKind) {
	m.LocksRejected.Add(ctx, 1, kindAttr("action", string(kind)))
}

func (m *Metrics) StreamOpened(ctx context.Context, kind domain.StreamKind) {
	m.StreamsOpened.Add(ctx, 1, kindAttr("stream", string(kind)))
	m.StreamsActive.Add(ctx, 1, kindAttr("stream", string(kind)))
}

func (m *Metrics) StreamTerminated(ctx context.Context, kind domain.StreamKind, state domain.ConnectionState) {
	m.StreamsTerminated.Add(ctx, 1, metric.WithAttributes(
		attribute.String("stream", string(kind)),
		attribute.String("state", string(state)),
	))
	m.StreamsActive.Add(ctx, -1, kindAttr("stream", string(kind)))
}

func (m *Metrics) FrameReceived(ctx context.Context, kind domain.StreamKind) {
	m.FramesReceived.Add(ctx, 1, kindAttr("stream", string(kind)))
}

func (m *Metrics) FrameDecodeFailed(ctx context.Context, kind domain.StreamKind) {
	m.FramesMalformed.Add(ctx, 1, kindAttr("stream", string(kind)))
}

func (m *Metrics) ErrorClassified(ctx context.Context, kind domain.ErrorKind) {
	m.ErrorsClassified.Add(ctx, 1, kindAttr("kind", string(kind)))
}

func (m *Metrics) EventProcessed(ctx context.Context, eventType domain.EventType) {
	m.EventsProcessed.Add(ctx, 1, kindAttr("event", string(eventType)))
}

func (m *Metrics) EventDropped(ctx context.Context, eventType domain.EventType) {
	m.EventsDropped.Add(ctx, 1, kindAttr("event", string(eventType)))
}

var _ out.MetricsRecorder = (*Metrics)(nil)
