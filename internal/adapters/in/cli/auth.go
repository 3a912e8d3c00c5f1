package cli

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/dockhand/internal/domain"
)

type loginClient interface {
	Login(ctx context.Context, email, password string) (domain.Session, error)
}

type registerClient interface {
	Register(ctx context.Context, email, password string) error
}

type logoutClient interface {
	Logout(ctx context.Context) error
}

func newLoginCmd(env *cmdEnv) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Long: `Sign in to the yadoma server. The session token is stored in the
session file (mode 0600) and reused by every other command until it expires
or you log out.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := newPrompter(cmd)
			email, password, err := readCredentials(p, email, false)
			if err != nil {
				return err
			}

			svc, release, err := env.console(cmd)
			if err != nil {
				return err
			}
			defer release()

			return runLogin(cmd.Context(), svc, email, password, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email (prompted when omitted)")

	return cmd
}

func newRegisterCmd(env *cmdEnv) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		Long:  `Create a new account on the yadoma server. Registering does not log you in.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := newPrompter(cmd)
			email, password, err := readCredentials(p, email, p.interactive())
			if err != nil {
				return err
			}

			svc, release, err := env.console(cmd)
			if err != nil {
				return err
			}
			defer release()

			return runRegister(cmd.Context(), svc, email, password, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email (prompted when omitted)")

	return cmd
}

func newLogoutCmd(env *cmdEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, release, err := env.console(cmd)
			if err != nil {
				return err
			}
			defer release()

			return runLogout(cmd.Context(), svc, cmd.OutOrStdout())
		},
	}
}

func newWhoamiCmd(env *cmdEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, session, release, err := env.authed(cmd)
			if err != nil {
				return err
			}
			defer release()

			return runWhoami(session, env.output(), cmd.OutOrStdout())
		},
	}
}

// readCredentials prompts for whatever was not given on the command line.
func readCredentials(p *prompter, email string, confirm bool) (string, string, error) {
	var err error
	if strings.TrimSpace(email) == "" {
		if email, err = p.line("Email"); err != nil {
			return "", "", err
		}
	}

	password, err := p.password("Password")
	if err != nil {
		return "", "", err
	}
	if confirm {
		again, err := p.password("Confirm password")
		if err != nil {
			return "", "", err
		}
		if again != password {
			return "", "", errors.New("passwords do not match")
		}
	}
	return strings.TrimSpace(email), password, nil
}

func runLogin(ctx context.Context, client loginClient, email, password string, out io.Writer) error {
	session, err := client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return cliWriteLine(out, cliRenderSuccess("Logged in as "+session.Email+" ("+string(session.Role)+")"))
}

func runRegister(ctx context.Context, client registerClient, email, password string, out io.Writer) error {
	if err := client.Register(ctx, email, password); err != nil {
		return err
	}
	if err := cliWriteLine(out, cliRenderSuccess("Account "+email+" created")); err != nil {
		return err
	}
	return cliWriteLine(out, cliRenderMuted("Run 'dockhand login' to sign in."))
}

func runLogout(ctx context.Context, client logoutClient, out io.Writer) error {
	if err := client.Logout(ctx); err != nil {
		return err
	}
	return cliWriteLine(out, cliRenderSuccess("Logged out"))
}

func runWhoami(session domain.Session, format string, out io.Writer) error {
	if ok, err := writeStructured(out, format, toSessionView(session)); ok {
		return err
	}

	lines := []string{
		cliRenderMeta("Email:", session.Email),
		cliRenderMeta("Role:", string(session.Role)),
		cliRenderMeta("User ID:", orDash(session.UserID)),
	}
	if !session.ExpiresAt.IsZero() {
		lines = append(lines, cliRenderMeta("Expires:", formatTime(session.ExpiresAt)))
	}
	for _, line := range lines {
		if err := cliWriteLine(out, line); err != nil {
			return err
		}
	}
	return nil
}
