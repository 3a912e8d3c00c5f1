package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/dockhand/internal/adapters/in/cli/ui/components"
	"github.com/bnema/dockhand/internal/adapters/in/cli/ui/styles"
	"github.com/bnema/dockhand/internal/domain"
	"github.com/bnema/dockhand/pkg/bytesize"
)

type systemClient interface {
	SystemOverview(ctx context.Context) (domain.SystemOverview, error)
}

func newSystemCmd(env *cmdEnv) *cobra.Command {
	return &cobra.Command{
		Use:     "system",
		Aliases: []string{"info"},
		Short:   "Show host information and disk usage",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, _, release, err := env.authed(cmd)
			if err != nil {
				return err
			}
			defer release()

			return runSystem(cmd.Context(), svc, env.output(), cmd.OutOrStdout())
		},
	}
}

func runSystem(ctx context.Context, client systemClient, format string, out io.Writer) error {
	overview, err := client.SystemOverview(ctx)
	if err != nil {
		return err
	}

	view := toSystemView(overview)
	if ok, err := writeStructured(out, format, view); ok {
		return err
	}

	info := view.Info
	if err := cliWriteLine(out, cliRenderTitle(styles.IconServer+" Host")); err != nil {
		return err
	}
	hostPairs := [][2]string{
		{"Name", orDash(info.Name)},
		{"Server version", orDash(info.ServerVersion)},
		{"OS", orDash(info.OperatingSystem)},
		{"Kernel", orDash(info.KernelVersion)},
		{"Architecture", orDash(info.Architecture)},
		{"CPUs", fmt.Sprintf("%d", info.NCPU)},
		{"Memory", bytesize.Format(info.MemTotal)},
		{"Storage driver", orDash(info.Driver)},
		{"Containers", fmt.Sprintf("%d (%d running, %d paused, %d stopped)",
			info.Containers, info.ContainersRunning, info.ContainersPaused, info.ContainersStopped)},
		{"Images", fmt.Sprintf("%d", info.Images)},
	}
	if len(info.Labels) > 0 {
		hostPairs = append(hostPairs, [2]string{"Labels", strings.Join(info.Labels, ", ")})
	}
	if err := cliWriteLine(out, components.KeyValueTable(hostPairs)); err != nil {
		return err
	}

	disk := view.Disk
	if err := cliWriteLine(out, cliRenderTitle("Disk usage")); err != nil {
		return err
	}
	return cliWriteLine(out, components.SimpleTable(
		[]string{"TYPE", "COUNT", "SIZE"},
		[][]string{
			{"Images", fmt.Sprintf("%d", disk.Images), bytesize.Format(disk.ImagesSize)},
			{"Containers", fmt.Sprintf("%d", disk.Containers), bytesize.Format(disk.ContainersSize)},
			{"Volumes", fmt.Sprintf("%d", disk.Volumes), bytesize.Format(disk.VolumesSize)},
			{"Layers", "-", bytesize.Format(disk.LayersSize)},
		},
	))
}
