package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/bnema/zerowrap"

	"github.com/bnema/dockhand/internal/adapters/out/eventbus"
	"github.com/bnema/dockhand/internal/adapters/out/restclient"
	"github.com/bnema/dockhand/internal/adapters/out/session"
	"github.com/bnema/dockhand/internal/adapters/out/telemetry"
	"github.com/bnema/dockhand/internal/adapters/out/wsstream"
	"github.com/bnema/dockhand/internal/boundaries/in"
	"github.com/bnema/dockhand/internal/usecase/console"
)

const (
	serviceName     = "dockhand"
	shutdownTimeout = 5 * time.Second
)

// Kernel holds the wired console for one CLI invocation.
//
// It owns the event bus, the telemetry provider and the log file; Close
// releases all of them.
type Kernel struct {
	cfg      Config
	log      zerowrap.Logger
	console  *console.Service
	sessions *session.FileStore
	cleanup  []func()
}

// NewKernel loads configuration and wires every adapter into the console service.
// Diagnostics are written to stderr, os.Stderr when nil.
func NewKernel(ctx context.Context, opts Options, stderr io.Writer) (*Kernel, error) {
	_, cfg, err := initConfig(opts)
	if err != nil {
		return nil, err
	}
	lim, err := cfg.limits()
	if err != nil {
		return nil, err
	}

	log, logCleanup, err := initLogger(cfg, stderr)
	if err != nil {
		return nil, err
	}

	k := &Kernel{cfg: cfg, log: log}
	if logCleanup != nil {
		k.cleanup = append(k.cleanup, logCleanup)
	}
	ctx = zerowrap.WithCtx(ctx, log)

	if err := k.wire(ctx, opts, lim); err != nil {
		k.Close()
		return nil, err
	}

	log.Debug().
		Str("server", cfg.Server.URL).
		Str("session", k.sessions.Path()).
		Msg("console ready")
	return k, nil
}

func (k *Kernel) wire(ctx context.Context, opts Options, lim limits) error {
	cfg, log := k.cfg, k.log

	_, shutdown, err := telemetry.NewProvider(ctx, cfg.Telemetry, telemetry.Identity{
		Service: serviceName,
		Version: opts.Version,
		Backend: cfg.Server.URL,
	})
	if err != nil {
		return fmt.Errorf("failed to init telemetry: %w", err)
	}
	k.cleanup = append(k.cleanup, func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		shutdown(sctx)
	})

	metrics, err := telemetry.NewMetrics()
	if err != nil {
		return fmt.Errorf("failed to create metrics: %w", err)
	}

	clientOpts := []restclient.ClientOption{restclient.WithTimeout(lim.requestTimeout)}
	dialerOpts := []wsstream.Option{
		wsstream.WithReadLimit(lim.maxFrameSize),
		wsstream.WithHandshakeTimeout(lim.handshakeTimeout),
	}
	if cfg.Server.InsecureTLS {
		log.Warn().Msg("TLS certificate verification is disabled")
		clientOpts = append(clientOpts, restclient.WithInsecureTLS())
		dialerOpts = append(dialerOpts, wsstream.WithInsecureTLS())
	}

	backend, err := restclient.NewClient(cfg.Server.URL, log, clientOpts...)
	if err != nil {
		return err
	}
	dialer := wsstream.NewDialer(log, dialerOpts...)

	sessionPath := cfg.Session.Path
	if sessionPath == "" {
		sessionPath = session.DefaultPath()
	}
	k.sessions = session.NewFileStore(sessionPath, cfg.Server.URL, log)

	bus := eventbus.New(cfg.Events.BufferSize, log, eventbus.WithMetrics(metrics))
	if err := bus.Start(); err != nil {
		return fmt.Errorf("failed to start event bus: %w", err)
	}
	k.cleanup = append(k.cleanup, func() { _ = bus.Stop() })

	k.console = console.NewService(backend, k.sessions, dialer, bus, log, console.WithMetrics(metrics))
	return nil
}

// Console returns the console use cases.
func (k *Kernel) Console() in.ConsoleService { return k.console }

// Logger returns the configured logger.
func (k *Kernel) Logger() zerowrap.Logger { return k.log }

// ServerURL returns the backend the console talks to.
func (k *Kernel) ServerURL() string { return k.cfg.Server.URL }

// SessionPath returns the file the session is persisted to.
func (k *Kernel) SessionPath() string {
	if k.sessions == nil {
		return ""
	}
	return k.sessions.Path()
}

// Close releases the kernel resources in reverse order of creation.
func (k *Kernel) Close() {
	if k == nil {
		return
	}
	for i := len(k.cleanup) - 1; i >= 0; i-- {
		k.cleanup[i]()
	}
	k.cleanup = nil
}
