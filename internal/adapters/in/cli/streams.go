package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/dockhand/internal/boundaries/in"
	"github.com/bnema/dockhand/internal/domain"
)

type viewOpener interface {
	NewView(ctx context.Context, hooks in.ViewHooks) in.LiveView
}

const defaultLogsIdle = 2 * time.Second

type logsOptions struct {
	Follow bool
	Idle   time.Duration
}

type statsOptions struct {
	Count int
}

func newLogsCmd(env *cmdEnv) *cobra.Command {
	opts := logsOptions{Idle: defaultLogsIdle}

	cmd := &cobra.Command{
		Use:   "logs CONTAINER_ID",
		Short: "Print the logs of a container",
		Long: `Print the logs of a container. Without --follow the command exits once
the server has been quiet for --idle; with it, logs stream until the
container stops streaming or you press Ctrl+C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, release, err := env.authed(cmd)
			if err != nil {
				return err
			}
			defer release()

			return runLogs(cmd.Context(), svc, args[0], opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVarP(&opts.Follow, "follow", "f", false, "Follow log output")
	cmd.Flags().DurationVar(&opts.Idle, "idle", defaultLogsIdle, "Exit after this long without output (ignored with --follow)")

	return cmd
}

func newStatsCmd(env *cmdEnv) *cobra.Command {
	var opts statsOptions

	cmd := &cobra.Command{
		Use:   "stats CONTAINER_ID",
		Short: "Display live resource usage of a container",
		Long: `Display live CPU, memory and network usage of a container, one line
per sample, until interrupted or --count samples were printed. With -o json
each sample is printed as one JSON object per line.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, release, err := env.authed(cmd)
			if err != nil {
				return err
			}
			defer release()

			return runStats(cmd.Context(), svc, args[0], opts, env.output(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVarP(&opts.Count, "count", "n", 0, "Stop after this many samples (0 streams until interrupted)")

	return cmd
}

// streamEnd carries the terminal state of the followed channel.
type streamEnd struct {
	kind  domain.StreamKind
	state domain.ConnectionState
}

func endedHook(ch chan<- streamEnd) func(domain.StreamKey, domain.ConnectionState) {
	return func(key domain.StreamKey, state domain.ConnectionState) {
		select {
		case ch <- streamEnd{kind: key.Kind, state: state}:
		default:
		}
	}
}

// streamResult turns the end of a channel into the command result. A banner
// raised before the end wins, whatever the terminal state; a backend error
// frame ends the channel closed with one.
func streamResult(view in.LiveView, end streamEnd, fallback string) error {
	if banner, ok := view.Banner(); ok {
		return banner
	}
	if end.state == domain.StateErrored {
		return fmt.Errorf("%s: %w", fallback, domain.ErrStreamErrored)
	}
	return nil
}

func runLogs(ctx context.Context, client viewOpener, id string, opts logsOptions, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := &lockedWriter{w: out}
	activity := make(chan struct{}, 1)
	ended := make(chan streamEnd, 1)

	view := client.NewView(ctx, in.ViewHooks{
		OnLog: func(_ string, fragment string) {
			_, _ = io.WriteString(w, fragment)
			select {
			case activity <- struct{}{}:
			default:
			}
		},
		OnEnded: endedHook(ended),
	})
	defer view.Close()

	if err := view.OpenLogs(ctx, id); err != nil {
		return err
	}

	var idle <-chan time.Time
	var timer *time.Timer
	if !opts.Follow && opts.Idle > 0 {
		timer = time.NewTimer(opts.Idle)
		defer timer.Stop()
		idle = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-idle:
			return nil
		case <-activity:
			if timer != nil {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(opts.Idle)
			}
		case end := <-ended:
			return streamResult(view, end, "log stream failed")
		}
	}
}

func runStats(ctx context.Context, client viewOpener, id string, opts statsOptions, format string, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	samples := make(chan domain.StatsSample, 8)
	ended := make(chan streamEnd, 1)

	view := client.NewView(ctx, in.ViewHooks{
		OnStats: func(_ string, s domain.StatsSample) {
			select {
			case samples <- s:
			default:
			}
		},
		OnEnded: endedHook(ended),
	})
	defer view.Close()

	if _, err := view.ToggleStats(ctx, id); err != nil {
		return err
	}

	printed := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case s := <-samples:
			if err := writeSample(out, format, id, s); err != nil {
				return err
			}
			printed++
			if opts.Count > 0 && printed >= opts.Count {
				return nil
			}
		case end := <-ended:
			return streamResult(view, end, "stats stream failed")
		}
	}
}

func writeSample(out io.Writer, format, id string, s domain.StatsSample) error {
	switch format {
	case outputJSON:
		return writeJSONLine(out, toStatsView(id, s))
	case outputYAML:
		_, err := writeStructured(out, format, []statsView{toStatsView(id, s)})
		return err
	}
	return cliWriteLine(out, statsLine(s))
}
