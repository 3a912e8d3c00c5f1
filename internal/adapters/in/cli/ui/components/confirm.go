package components

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/dockhand/internal/adapters/in/cli/ui/styles"
)

// ConfirmResult is the answer given to a ConfirmModel.
type ConfirmResult int

const (
	ConfirmPending ConfirmResult = iota
	ConfirmYes
	ConfirmNo
	ConfirmCancelled
)

type confirmKeys struct {
	Toggle, Yes, No, Submit, Cancel key.Binding
}

var defaultConfirmKeys = confirmKeys{
	Toggle: key.NewBinding(key.WithKeys("left", "right", "h", "l", "tab", "shift+tab")),
	Yes:    key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y/n", "answer")),
	No:     key.NewBinding(key.WithKeys("n", "N")),
	Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
	Cancel: key.NewBinding(key.WithKeys("esc", "ctrl+c", "q"), key.WithHelp("esc", "cancel")),
}

// ConfirmModel asks a destructive yes/no question. No has the focus until
// the user moves it, so a stray enter never confirms.
type ConfirmModel struct {
	question    string
	description string
	yesFocused  bool
	result      ConfirmResult
	keys        confirmKeys
}

// ConfirmOption configures a ConfirmModel.
type ConfirmOption func(*ConfirmModel)

// WithDescription adds a muted line under the question.
func WithDescription(desc string) ConfirmOption {
	return func(m *ConfirmModel) { m.description = desc }
}

// NewConfirm creates a pending confirmation.
func NewConfirm(question string, opts ...ConfirmOption) ConfirmModel {
	m := ConfirmModel{question: question, keys: defaultConfirmKeys}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func (m ConfirmModel) Init() tea.Cmd { return nil }

// Update records an answer and quits, or moves the focus.
func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.result != ConfirmPending {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Toggle):
		m.yesFocused = !m.yesFocused
		return m, nil
	case key.Matches(keyMsg, m.keys.Yes):
		m.result = ConfirmYes
	case key.Matches(keyMsg, m.keys.No):
		m.result = ConfirmNo
	case key.Matches(keyMsg, m.keys.Submit):
		m.result = ConfirmNo
		if m.yesFocused {
			m.result = ConfirmYes
		}
	case key.Matches(keyMsg, m.keys.Cancel):
		m.result = ConfirmCancelled
	default:
		return m, nil
	}
	return m, tea.Quit
}

// View renders the dialog while no answer has been given.
func (m ConfirmModel) View() string {
	if m.result != ConfirmPending {
		return ""
	}

	idle := lipgloss.NewStyle().Padding(0, 2).Foreground(styles.ColorText)
	focus := lipgloss.NewStyle().Padding(0, 2).Bold(true).
		Foreground(styles.ColorBg).Background(styles.ColorError)
	yes, no := idle, focus
	if m.yesFocused {
		yes, no = focus, idle
	}

	lines := []string{styles.Theme.Bold.Render(m.question)}
	if m.description != "" {
		lines = append(lines, styles.Theme.Muted.Render(m.description))
	}
	lines = append(lines,
		"",
		lipgloss.JoinHorizontal(lipgloss.Center, yes.Render("Yes"), "  ", no.Render("No")),
		"",
		m.helpLine(),
	)
	return strings.Join(lines, "\n") + "\n"
}

func (m ConfirmModel) helpLine() string {
	parts := make([]string, 0, 3)
	for _, b := range []key.Binding{m.keys.Yes, m.keys.Submit, m.keys.Cancel} {
		h := b.Help()
		parts = append(parts, styles.RenderKeyHelp(h.Key, h.Desc))
	}
	return strings.Join(parts, "  ")
}

// Result returns the answer, ConfirmPending until one is given.
func (m ConfirmModel) Result() ConfirmResult {
	return m.result
}

// RunConfirm shows a dialog on the given terminal and reports a yes.
// Cancelling counts as no.
func RunConfirm(in io.Reader, out io.Writer, question string, opts ...ConfirmOption) (bool, error) {
	final, err := tea.NewProgram(NewConfirm(question, opts...), tea.WithInput(in), tea.WithOutput(out)).Run()
	if err != nil {
		return false, fmt.Errorf("confirmation failed: %w", err)
	}
	answer, ok := final.(ConfirmModel)
	return ok && answer.Result() == ConfirmYes, nil
}
