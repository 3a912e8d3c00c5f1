package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/bnema/dockhand/internal/adapters/in/cli/ui/components"
	"github.com/bnema/dockhand/internal/domain"
)

type userLister interface {
	Users(ctx context.Context) ([]domain.User, error)
	ExpandUser(ctx context.Context, userID string) ([]domain.Resource, error)
}

type userDeleter interface {
	DeleteUser(ctx context.Context, userID string) error
}

type userExpander interface {
	ExpandUser(ctx context.Context, userID string) ([]domain.Resource, error)
}

type usersListOptions struct {
	Containers bool
}

var usersTableColumns = []components.TableColumn{
	{Title: "USER ID", Width: 38},
	{Title: "EMAIL", Width: 32},
	{Title: "ROLE", Width: 8},
	{Title: "CREATED", Width: 21},
}

func newUsersCmd(env *cmdEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage accounts (admin)",
		Long:  `List and delete accounts and browse the containers they own. Requires the ADMIN role.`,
	}

	cmd.AddCommand(newUsersListCmd(env))
	cmd.AddCommand(newUsersRmCmd(env))
	cmd.AddCommand(newUsersContainersCmd(env))

	return cmd
}

func newUsersListCmd(env *cmdEnv) *cobra.Command {
	var opts usersListOptions

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List accounts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, _, release, err := env.authed(cmd)
			if err != nil {
				return err
			}
			defer release()

			return runUsersList(cmd.Context(), svc, opts, env.output(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&opts.Containers, "containers", false, "Also list the containers of every account")

	return cmd
}

func newUsersRmCmd(env *cmdEnv) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm USER_ID",
		Aliases: []string{"delete"},
		Short:   "Delete an account",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				ok, err := confirmDelete(cmd, "Delete user "+args[0]+"?")
				if err != nil || !ok {
					return err
				}
			}

			svc, _, release, err := env.authed(cmd)
			if err != nil {
				return err
			}
			defer release()

			return runUsersRm(cmd.Context(), svc, args[0], cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}

func newUsersContainersCmd(env *cmdEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "containers USER_ID",
		Short: "List the containers of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, release, err := env.authed(cmd)
			if err != nil {
				return err
			}
			defer release()

			return runUsersContainers(cmd.Context(), svc, args[0], env.output(), cmd.OutOrStdout())
		},
	}
}

func runUsersList(ctx context.Context, client userLister, opts usersListOptions, format string, out io.Writer) error {
	users, err := client.Users(ctx)
	if err != nil {
		return err
	}

	views := make([]userView, len(users))
	owned := make([][]domain.Resource, len(users))
	for i, u := range users {
		views[i] = toUserView(u)
		if !opts.Containers {
			continue
		}
		list, err := client.ExpandUser(ctx, u.ID)
		if err != nil {
			return err
		}
		owned[i] = list
		views[i].Containers = toResourceViews(list)
	}

	if ok, err := writeStructured(out, format, views); ok {
		return err
	}

	if len(users) == 0 {
		return cliWriteLine(out, cliRenderMuted("No users found"))
	}

	if !opts.Containers {
		return cliWriteLine(out, renderUsersTable(users))
	}

	for i, u := range users {
		if err := cliWriteLine(out, cliRenderTitle(u.Email)+" "+cliRenderMuted(string(u.Role)+" "+u.ID)); err != nil {
			return err
		}
		if len(owned[i]) == 0 {
			if err := cliWriteLine(out, cliRenderMuted("  No containers")); err != nil {
				return err
			}
			continue
		}
		if err := cliWriteLine(out, renderResourceTable(owned[i])); err != nil {
			return err
		}
	}
	return nil
}

func renderUsersTable(users []domain.User) string {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{u.ID, u.Email, string(u.Role), formatTime(u.CreatedAt)})
	}
	return components.Table{Columns: usersTableColumns, Rows: rows}.Render()
}

func runUsersRm(ctx context.Context, client userDeleter, id string, out io.Writer) error {
	if err := client.DeleteUser(ctx, id); err != nil {
		return err
	}
	return cliWriteLine(out, cliRenderSuccess("User "+id+" deleted"))
}

func runUsersContainers(ctx context.Context, client userExpander, id, format string, out io.Writer) error {
	list, err := client.ExpandUser(ctx, id)
	if err != nil {
		return err
	}

	if ok, err := writeStructured(out, format, toResourceViews(list)); ok {
		return err
	}

	if len(list) == 0 {
		return cliWriteLine(out, cliRenderMuted("No containers found"))
	}
	return cliWriteLine(out, renderResourceTable(list))
}
