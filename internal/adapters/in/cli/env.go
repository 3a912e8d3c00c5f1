package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bnema/dockhand/internal/app"
	"github.com/bnema/dockhand/internal/boundaries/in"
	"github.com/bnema/dockhand/internal/domain"
)

// consoleOpener builds the console for one command run. The returned
// function releases it.
type consoleOpener func(ctx context.Context, opts app.Options, stderr io.Writer) (in.ConsoleService, func(), error)

func defaultConsoleOpener(ctx context.Context, opts app.Options, stderr io.Writer) (in.ConsoleService, func(), error) {
	kernel, err := app.NewKernel(ctx, opts, stderr)
	if err != nil {
		return nil, nil, err
	}
	return kernel.Console(), kernel.Close, nil
}

// cmdEnv is shared by every command of one root.
type cmdEnv struct {
	flags *rootFlags
	open  consoleOpener
}

func (e *cmdEnv) options() app.Options {
	level := e.flags.logLevel
	if e.flags.verbose {
		level = "debug"
	}
	return app.Options{
		ConfigPath: e.flags.configPath,
		ServerURL:  e.flags.serverURL,
		LogLevel:   level,
		Version:    Version,
	}
}

// console opens the console without touching the stored session.
func (e *cmdEnv) console(cmd *cobra.Command) (in.ConsoleService, func(), error) {
	svc, release, err := e.open(cmd.Context(), e.options(), cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, err
	}
	if release == nil {
		release = func() {}
	}
	return svc, release, nil
}

// authed opens the console and restores the stored session.
func (e *cmdEnv) authed(cmd *cobra.Command) (in.ConsoleService, domain.Session, func(), error) {
	svc, release, err := e.console(cmd)
	if err != nil {
		return nil, domain.Session{}, nil, err
	}
	session, err := svc.Restore(cmd.Context())
	if err != nil {
		release()
		return nil, domain.Session{}, nil, err
	}
	return svc, session, release, nil
}

func (e *cmdEnv) output() string {
	return e.flags.output
}

// prompter reads answers from the command input. Passwords are read without
// echo when the input is a terminal.
type prompter struct {
	in     io.Reader
	out    io.Writer
	reader *bufio.Reader
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{in: cmd.InOrStdin(), out: cmd.ErrOrStderr()}
}

func (p *prompter) terminalFd() (int, bool) {
	f, ok := p.in.(*os.File)
	if !ok {
		return 0, false
	}
	fd := int(f.Fd())
	return fd, term.IsTerminal(fd)
}

// interactive reports whether the input is a terminal.
func (p *prompter) interactive() bool {
	_, ok := p.terminalFd()
	return ok
}

func (p *prompter) line(label string) (string, error) {
	if label != "" {
		if err := cliWritef(p.out, "%s: ", label); err != nil {
			return "", err
		}
	}
	if p.reader == nil {
		p.reader = bufio.NewReader(p.in)
	}
	text, err := p.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && text != "") {
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("no input for %s", strings.ToLower(label))
		}
		return "", err
	}
	return strings.TrimRight(text, "\r\n"), nil
}

func (p *prompter) password(label string) (string, error) {
	fd, ok := p.terminalFd()
	if !ok {
		return p.line(label)
	}
	if err := cliWritef(p.out, "%s: ", label); err != nil {
		return "", err
	}
	b, err := term.ReadPassword(fd)
	_ = cliWriteLine(p.out, "")
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(b), nil
}
