package components

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/dockhand/internal/adapters/in/cli/ui/styles"
)

// SpinnerModel is a bubbles spinner with an optional caption.
// Its frame is also drawn next to rows that hold an action lock.
type SpinnerModel struct {
	inner   spinner.Model
	caption string
}

// SpinnerOption configures a SpinnerModel.
type SpinnerOption func(*SpinnerModel)

// WithMessage sets the caption shown after the frame.
func WithMessage(msg string) SpinnerOption {
	return func(m *SpinnerModel) { m.caption = msg }
}

func NewSpinner(opts ...SpinnerOption) SpinnerModel {
	m := SpinnerModel{
		inner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(styles.ColorAccent)),
		),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func (m SpinnerModel) Init() tea.Cmd { return m.inner.Tick }

// Update advances the frame on spinner ticks and ignores other messages.
func (m SpinnerModel) Update(msg tea.Msg) (SpinnerModel, tea.Cmd) {
	var cmd tea.Cmd
	m.inner, cmd = m.inner.Update(msg)
	return m, cmd
}

func (m SpinnerModel) View() string {
	if m.caption == "" {
		return m.Frame()
	}
	return m.Frame() + " " + styles.Theme.Muted.Render(m.caption)
}

// Frame returns the current frame without caption.
func (m SpinnerModel) Frame() string { return m.inner.View() }
