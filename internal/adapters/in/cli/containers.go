package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/dockhand/internal/adapters/in/cli/ui/components"
	"github.com/bnema/dockhand/internal/domain"
)

type resourceLister interface {
	Resources(ctx context.Context, ownerID string, refresh bool) ([]domain.Resource, error)
}

type resourceGetter interface {
	Resource(ctx context.Context, resourceID string) (domain.Resource, error)
}

type resourceCreator interface {
	Create(ctx context.Context, req domain.CreateResourceRequest) error
}

type actionRunner interface {
	RunAction(ctx context.Context, scope domain.ScopeKey, resourceID string, kind domain.ActionKind) error
}

const (
	psIDColumnWidth      = 14
	psNameColumnWidth    = 24
	psImageColumnWidth   = 32
	psStatusColumnWidth  = 24
	psCreatedColumnWidth = 21
)

var psTableColumns = []components.TableColumn{
	{Title: "CONTAINER ID", Width: psIDColumnWidth},
	{Title: "NAME", Width: psNameColumnWidth},
	{Title: "IMAGE", Width: psImageColumnWidth},
	{Title: "STATUS", Width: psStatusColumnWidth},
	{Title: "CREATED", Width: psCreatedColumnWidth},
}

// containerActions are the single container commands, in help order.
var containerActions = []domain.ActionKind{
	domain.ActionStart,
	domain.ActionStop,
	domain.ActionRestart,
	domain.ActionDelete,
}

var actionPastTense = map[domain.ActionKind]string{
	domain.ActionStart:   "started",
	domain.ActionStop:    "stopped",
	domain.ActionRestart: "restarted",
	domain.ActionDelete:  "deleted",
}

type psOptions struct {
	UserID string
	Quiet  bool
}

func newPsCmd(env *cmdEnv) *cobra.Command {
	var opts psOptions

	cmd := &cobra.Command{
		Use:     "ps",
		Aliases: []string{"list", "ls"},
		Short:   "List containers",
		Long: `List your containers. Administrators can list the containers of
another account with --user.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, _, release, err := env.authed(cmd)
			if err != nil {
				return err
			}
			defer release()

			return runPs(cmd.Context(), svc, opts, env.output(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.UserID, "user", "u", "", "List the containers of this user id (admin)")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Only print container ids")

	return cmd
}

func newInspectCmd(env *cmdEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect CONTAINER_ID",
		Short: "Show the details of a container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, release, err := env.authed(cmd)
			if err != nil {
				return err
			}
			defer release()

			return runInspect(cmd.Context(), svc, args[0], env.output(), cmd.OutOrStdout())
		},
	}
}

func newCreateCmd(env *cmdEnv) *cobra.Command {
	var envVars []string

	cmd := &cobra.Command{
		Use:   "create NAME IMAGE",
		Short: "Create a container",
		Long: `Create a container from an image. Environment variables are passed
as KEY=VALUE with -e, once per variable.`,
		Example: `  dockhand create web nginx:1.27 -e PORT=8080 -e MODE=prod`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, release, err := env.authed(cmd)
			if err != nil {
				return err
			}
			defer release()

			req := domain.CreateResourceRequest{Name: args[0], Image: args[1], EnvVars: envVars}
			return runCreate(cmd.Context(), svc, req, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringArrayVarP(&envVars, "env", "e", nil, "Environment variable KEY=VALUE (repeatable)")

	return cmd
}

type actionOptions struct {
	UserID string
	Yes    bool
}

func newActionCmd(env *cmdEnv, kind domain.ActionKind) *cobra.Command {
	var opts actionOptions

	use := string(kind)
	var aliases []string
	if kind == domain.ActionDelete {
		use, aliases = "rm", []string{"delete"}
	}

	cmd := &cobra.Command{
		Use:     use + " CONTAINER_ID",
		Aliases: aliases,
		Short:   fmt.Sprintf("%s a container", capitalize(kind.Verb())),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if kind == domain.ActionDelete && !opts.Yes {
				ok, err := confirmDelete(cmd, "Delete container "+domain.ShortID(args[0])+"?")
				if err != nil || !ok {
					return err
				}
			}

			svc, _, release, err := env.authed(cmd)
			if err != nil {
				return err
			}
			defer release()

			return runAction(cmd.Context(), svc, opts.UserID, args[0], kind, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.UserID, "user", "u", "", "Owner of the container when acting on another account (admin)")
	if kind == domain.ActionDelete {
		cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "Do not ask for confirmation")
	}

	return cmd
}

func runPs(ctx context.Context, client resourceLister, opts psOptions, format string, out io.Writer) error {
	list, err := client.Resources(ctx, opts.UserID, false)
	if err != nil {
		return err
	}

	if opts.Quiet {
		for _, r := range list {
			if err := cliWriteLine(out, r.ID); err != nil {
				return err
			}
		}
		return nil
	}

	if ok, err := writeStructured(out, format, toResourceViews(list)); ok {
		return err
	}

	if len(list) == 0 {
		return cliWriteLine(out, cliRenderMuted("No containers found"))
	}
	return cliWriteLine(out, renderResourceTable(list))
}

func renderResourceTable(list []domain.Resource) string {
	rows := make([][]string, 0, len(list))
	for _, r := range list {
		rows = append(rows, []string{
			r.ShortID(),
			r.Name,
			orDash(r.Image),
			components.ResourceStatus(r),
			formatTime(r.CreatedAt),
		})
	}

	return components.Table{Columns: psTableColumns, Rows: rows, Plain: true}.Render()
}

func runInspect(ctx context.Context, client resourceGetter, id, format string, out io.Writer) error {
	r, err := client.Resource(ctx, id)
	if err != nil {
		return err
	}

	if ok, err := writeStructured(out, format, toResourceView(r)); ok {
		return err
	}

	if err := cliWriteLine(out, cliRenderTitle(r.Name)); err != nil {
		return err
	}
	return cliWriteLine(out, components.KeyValueTable([][2]string{
		{"ID", r.ID},
		{"Image", orDash(r.Image)},
		{"State", components.ResourceBadge(r)},
		{"Status", orDash(r.Status)},
		{"Owner", orDash(r.OwnerID)},
		{"Created", formatTime(r.CreatedAt)},
	}))
}

func runCreate(ctx context.Context, client resourceCreator, req domain.CreateResourceRequest, out io.Writer) error {
	if err := client.Create(ctx, req); err != nil {
		return err
	}
	return cliWriteLine(out, cliRenderSuccess("Container "+req.Name+" created"))
}

func runAction(ctx context.Context, client actionRunner, ownerID, id string, kind domain.ActionKind, out io.Writer) error {
	var scope domain.ScopeKey
	if ownerID != "" {
		scope = domain.OwnerScope(ownerID)
	}

	if err := client.RunAction(ctx, scope, id, kind); err != nil {
		return err
	}
	return cliWriteLine(out, cliRenderSuccess("Container "+domain.ShortID(id)+" "+actionPastTense[kind]))
}

// confirmDelete asks before a deletion. Without a terminal the caller must pass --yes.
func confirmDelete(cmd *cobra.Command, question string) (bool, error) {
	p := newPrompter(cmd)
	if !p.interactive() {
		return false, errors.New("refusing to delete without confirmation: pass --yes")
	}
	ok, err := components.RunConfirm(cmd.InOrStdin(), cmd.ErrOrStderr(), question,
		components.WithDescription("This cannot be undone."))
	if err != nil {
		return false, err
	}
	if !ok {
		return false, cliWriteLine(cmd.ErrOrStderr(), cliRenderWarning("Cancelled"))
	}
	return true, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
