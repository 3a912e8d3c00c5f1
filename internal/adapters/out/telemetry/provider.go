// Package telemetry records console metrics with OpenTelemetry.
// Instruments always work; measurements leave the process only when an
// OTLP/HTTP collector is configured.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const metricsPath = "/v1/metrics"

// Config holds telemetry configuration.
type Config struct {
	Enabled   bool          `mapstructure:"enabled"`
	Endpoint  string        `mapstructure:"endpoint"`   // collector base URL, e.g. "http://localhost:4318"
	AuthToken string        `mapstructure:"auth_token"` // base64 "user:pass", sent as basic auth
	Interval  time.Duration `mapstructure:"interval"`
}

// Identity describes the process in exported resources.
type Identity struct {
	Service string
	Version string
	Backend string // yadoma server the console talks to
}

// Provider holds the meter provider, nil when export is disabled.
type Provider struct {
	MeterProvider *metric.MeterProvider
}

// collector is a parsed OTLP/HTTP endpoint.
type collector struct {
	host     string
	urlPath  string
	insecure bool
	headers  map[string]string
}

// NewProvider installs a global meter provider exporting to cfg.Endpoint.
// When telemetry is disabled it installs nothing. The shutdown function
// flushes pending measurements and is always safe to call.
func NewProvider(ctx context.Context, cfg Config, id Identity) (*Provider, func(context.Context), error) {
	noop := func(context.Context) {}
	if !cfg.Enabled {
		return &Provider{}, noop, nil
	}

	c, err := parseCollector(cfg)
	if err != nil {
		return nil, noop, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(id.Service),
			semconv.ServiceVersion(id.Version),
			attribute.String("dockhand.backend", id.Backend),
		),
		resource.WithHost(),
	)
	if err != nil {
		return nil, noop, fmt.Errorf("create resource: %w", err)
	}

	exp, err := otlpmetrichttp.New(ctx, c.options()...)
	if err != nil {
		return nil, noop, fmt.Errorf("create metric exporter: %w", err)
	}

	var readerOpts []metric.PeriodicReaderOption
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, metric.WithInterval(cfg.Interval))
	}
	mp := metric.NewMeterProvider(
		metric.WithResource(res),
		metric.WithReader(metric.NewPeriodicReader(exp, readerOpts...)),
	)
	otel.SetMeterProvider(mp)

	return &Provider{MeterProvider: mp}, func(ctx context.Context) { _ = mp.Shutdown(ctx) }, nil
}

func parseCollector(cfg Config) (collector, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return collector{}, errors.New("telemetry.endpoint is required when telemetry is enabled")
	}
	u, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return collector{}, fmt.Errorf("invalid telemetry.endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return collector{}, fmt.Errorf("invalid telemetry.endpoint %q: scheme must be http or https", cfg.Endpoint)
	}
	if u.Host == "" {
		return collector{}, fmt.Errorf("invalid telemetry.endpoint %q: missing host", cfg.Endpoint)
	}

	c := collector{
		host:     u.Host,
		urlPath:  strings.TrimSuffix(u.Path, "/") + metricsPath,
		insecure: u.Scheme == "http",
		headers:  map[string]string{},
	}
	if cfg.AuthToken != "" {
		c.headers["Authorization"] = "Basic " + cfg.AuthToken
	}
	return c, nil
}

func (c collector) options() []otlpmetrichttp.Option {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(c.host),
		otlpmetrichttp.WithURLPath(c.urlPath),
		otlpmetrichttp.WithHeaders(c.headers),
	}
	if c.insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	return opts
}
