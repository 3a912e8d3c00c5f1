package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bnema/dockhand/internal/adapters/in/cli/ui/components"
	"github.com/bnema/dockhand/internal/adapters/in/cli/ui/styles"
	"github.com/bnema/dockhand/internal/boundaries/in"
	"github.com/bnema/dockhand/internal/domain"
	"github.com/bnema/dockhand/internal/usecase/telemetry"
)

type dashboardClient interface {
	viewOpener
	resourceLister
	actionRunner
	InProgress(resourceID string) (domain.ActionKind, bool)
}

const dashboardLogsHeight = 12

type dashboardKeys struct {
	Up      key.Binding
	Down    key.Binding
	Start   key.Binding
	Stop    key.Binding
	Restart key.Binding
	Delete  key.Binding
	Stats   key.Binding
	Logs    key.Binding
	Refresh key.Binding
	Dismiss key.Binding
	Quit    key.Binding
}

var defaultDashboardKeys = dashboardKeys{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Start:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start")),
	Stop:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop")),
	Restart: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
	Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Stats:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "stats")),
	Logs:    key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "logs")),
	Refresh: key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "refresh")),
	Dismiss: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k dashboardKeys) help() []key.Binding {
	return []key.Binding{k.Start, k.Stop, k.Restart, k.Delete, k.Stats, k.Logs, k.Refresh, k.Dismiss, k.Quit}
}

func newDashboardCmd(env *cmdEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Open the interactive container dashboard",
		Long: `Open a full screen view of your containers with live stats rows and a
logs panel. Actions run in the background; a row shows the action in flight
until the list has been reloaded.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := newPrompter(cmd)
			if !p.interactive() {
				return errors.New("dashboard requires a terminal")
			}

			svc, session, release, err := env.authed(cmd)
			if err != nil {
				return err
			}
			defer release()

			return runDashboard(cmd.Context(), svc, session, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func runDashboard(ctx context.Context, client dashboardClient, session domain.Session, input io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := newDashboardModel(ctx, client, session)
	defer m.view.Close()

	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithInput(input), tea.WithOutput(out), tea.WithAltScreen())
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("error running dashboard: %w", err)
	}
	return nil
}

type (
	resourcesLoadedMsg struct {
		list []domain.Resource
		err  error
	}
	actionDoneMsg struct {
		id   string
		kind domain.ActionKind
		err  error
	}
	liveUpdateMsg struct{}
)

type dashboardModel struct {
	ctx     context.Context
	client  dashboardClient
	session domain.Session
	view    in.LiveView
	updates chan tea.Msg
	keys    dashboardKeys

	rows    []domain.Resource
	cursor  int
	loading bool
	loadErr error

	confirm   *components.ConfirmModel
	confirmID string

	spinner components.SpinnerModel
	logs    viewport.Model
	width   int
}

func newDashboardModel(ctx context.Context, client dashboardClient, session domain.Session) *dashboardModel {
	m := &dashboardModel{
		ctx:     ctx,
		client:  client,
		session: session,
		updates: make(chan tea.Msg, 1),
		keys:    defaultDashboardKeys,
		loading: true,
		spinner: components.NewSpinner(components.WithMessage("Loading containers...")),
		logs:    viewport.New(80, dashboardLogsHeight),
	}

	notify := func() {
		select {
		case m.updates <- liveUpdateMsg{}:
		default:
		}
	}
	m.view = client.NewView(ctx, in.ViewHooks{
		OnLog:    func(string, string) { notify() },
		OnStats:  func(string, domain.StatsSample) { notify() },
		OnBanner: func(domain.ClassifiedError) { notify() },
		OnEnded:  func(domain.StreamKey, domain.ConnectionState) { notify() },
	})
	return m
}

func (m *dashboardModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Init(), m.load(false), m.listen())
}

func (m *dashboardModel) listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-m.updates:
			return msg
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *dashboardModel) load(refresh bool) tea.Cmd {
	return func() tea.Msg {
		list, err := m.client.Resources(m.ctx, "", refresh)
		return resourcesLoadedMsg{list: list, err: err}
	}
}

func (m *dashboardModel) run(id string, kind domain.ActionKind) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{id: id, kind: kind, err: m.client.RunAction(m.ctx, domain.ScopeKey{}, id, kind)}
	}
}

func (m *dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.logs.Width = msg.Width
		return m, nil

	case resourcesLoadedMsg:
		m.loading = false
		m.loadErr = msg.err
		if msg.err == nil {
			m.rows = msg.list
			m.clampCursor()
		}
		return m, nil

	case actionDoneMsg:
		// Failures reach the view banner through the console events.
		return m, m.load(false)

	case liveUpdateMsg:
		m.syncLogs()
		return m, m.listen()

	case tea.KeyMsg:
		if m.confirm != nil {
			return m, m.updateConfirm(msg)
		}
		return m, m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m *dashboardModel) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	next, _ := m.confirm.Update(msg)
	c := next.(components.ConfirmModel)
	m.confirm = &c

	switch c.Result() {
	case components.ConfirmPending:
		return nil
	case components.ConfirmYes:
		id := m.confirmID
		m.confirm, m.confirmID = nil, ""
		return m.run(id, domain.ActionDelete)
	default:
		m.confirm, m.confirmID = nil, ""
		return nil
	}
}

func (m *dashboardModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		return m.load(true)
	case key.Matches(msg, m.keys.Dismiss):
		m.view.DismissBanner()
		m.loadErr = nil
	case key.Matches(msg, m.keys.Start):
		return m.act(domain.ActionStart)
	case key.Matches(msg, m.keys.Stop):
		return m.act(domain.ActionStop)
	case key.Matches(msg, m.keys.Restart):
		return m.act(domain.ActionRestart)
	case key.Matches(msg, m.keys.Delete):
		r, ok := m.selected()
		if !ok || m.busy(r.ID) {
			return nil
		}
		c := components.NewConfirm("Delete container "+r.Name+"?", components.WithDescription("This cannot be undone."))
		m.confirm, m.confirmID = &c, r.ID
	case key.Matches(msg, m.keys.Stats):
		if r, ok := m.selected(); ok {
			if _, err := m.view.ToggleStats(m.ctx, r.ID); err != nil {
				m.loadErr = err
			}
		}
	case key.Matches(msg, m.keys.Logs):
		return m.toggleLogs()
	}
	return nil
}

func (m *dashboardModel) act(kind domain.ActionKind) tea.Cmd {
	r, ok := m.selected()
	if !ok || m.busy(r.ID) {
		return nil
	}
	return m.run(r.ID, kind)
}

func (m *dashboardModel) toggleLogs() tea.Cmd {
	r, ok := m.selected()
	if !ok {
		return nil
	}
	if id, _, _ := m.view.Logs(); id == r.ID {
		m.view.CloseLogs()
		m.logs.SetContent("")
		return nil
	}
	if err := m.view.OpenLogs(m.ctx, r.ID); err != nil {
		m.loadErr = err
	}
	m.syncLogs()
	return nil
}

func (m *dashboardModel) syncLogs() {
	id, chunk, _ := m.view.Logs()
	if id == "" {
		return
	}
	atBottom := m.logs.AtBottom()
	m.logs.SetContent(chunk.Text())
	if atBottom {
		m.logs.GotoBottom()
	}
}

func (m *dashboardModel) selected() (domain.Resource, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return domain.Resource{}, false
	}
	return m.rows[m.cursor], true
}

// busy reports whether an action is in flight on id. Controls stay
// disabled until the lock is released.
func (m *dashboardModel) busy(id string) bool {
	_, locked := m.client.InProgress(id)
	return locked
}

func (m *dashboardModel) clampCursor() {
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *dashboardModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Theme.Title.Render(styles.IconContainer + " dockhand"))
	b.WriteString("  ")
	b.WriteString(styles.Theme.Muted.Render(styles.IconUser + " " + m.session.Email + " (" + string(m.session.Role) + ")"))
	b.WriteString("\n\n")

	if banner := m.banner(); banner != "" {
		b.WriteString(styles.Theme.BoxError.Render(banner))
		b.WriteString("\n\n")
	}

	if m.confirm != nil {
		b.WriteString(m.confirm.View())
		return b.String()
	}

	switch {
	case m.loading && len(m.rows) == 0:
		b.WriteString(m.spinner.View())
		b.WriteString("\n")
	case len(m.rows) == 0:
		b.WriteString(styles.Theme.Muted.Render("No containers found"))
		b.WriteString("\n")
	default:
		for i, r := range m.rows {
			b.WriteString(m.renderRow(i, r))
			b.WriteString("\n")
		}
	}

	if id, _, state := m.view.Logs(); id != "" {
		b.WriteString("\n")
		title := styles.Theme.Subtitle.Render("Logs " + domain.ShortID(id) + " [" + string(state) + "]")
		b.WriteString(title)
		b.WriteString("\n")
		b.WriteString(styles.Theme.Box.Render(m.logs.View()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	help := make([]string, 0, len(m.keys.help()))
	for _, k := range m.keys.help() {
		help = append(help, styles.RenderKeyHelp(k.Help().Key, k.Help().Desc))
	}
	b.WriteString(strings.Join(help, "  "))
	b.WriteString("\n")

	return b.String()
}

func (m *dashboardModel) banner() string {
	if banner, ok := m.view.Banner(); ok {
		return styles.IconError + " " + banner.UserMessage
	}
	if m.loadErr != nil {
		return styles.IconError + " " + errorMessage(m.loadErr)
	}
	return ""
}

func (m *dashboardModel) renderRow(i int, r domain.Resource) string {
	marker := styles.IconCollapsed
	if m.view.StatsExpanded(r.ID) {
		marker = styles.IconExpanded
	}

	status := components.ResourceStatus(r)
	if kind, ok := m.client.InProgress(r.ID); ok {
		status = m.spinner.Frame() + " " + components.LockBadge(kind)
	}

	line := fmt.Sprintf("%s %-12s  %-24s  %-28s  %s",
		marker, r.ShortID(), truncate(r.Name, 24), truncate(r.Image, 28), status)

	style := styles.Theme.Row
	if i == m.cursor {
		style = styles.Theme.RowSelected
	}
	out := style.Render(line)

	if m.view.StatsExpanded(r.ID) {
		detail := styles.IconPending + " waiting for stats"
		if s, ok := m.view.Stats(r.ID); ok {
			detail = "CPU " + telemetry.FormatCPU(s.CPUPercent) +
				"  MEM " + telemetry.FormatMemory(s) + " (" + telemetry.FormatMemPercent(s) + ")" +
				"  NET I/O " + telemetry.FormatNetwork(s)
		}
		out += "\n" + styles.Theme.RowDetail.Render(detail)
	}
	return out
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}
