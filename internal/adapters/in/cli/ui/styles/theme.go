package styles

import "github.com/charmbracelet/lipgloss"

// ThemeStyles groups the composed styles of the console.
type ThemeStyles struct {
	Title, Subtitle, Muted, Bold lipgloss.Style

	Success, Error, Warning lipgloss.Style

	BadgeSuccess, BadgeError, BadgeWarning, BadgeInfo, BadgePending lipgloss.Style

	// Dashboard rows.
	Row, RowSelected, RowDetail lipgloss.Style

	Box, BoxError lipgloss.Style

	HelpKey, HelpDesc lipgloss.Style
}

// Theme is the theme built from the default palette.
var Theme = buildTheme()

func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func badge(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorBg).Background(c).Padding(0, 1)
}

func framed(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(c).Padding(0, 1)
}

func buildTheme() ThemeStyles {
	return ThemeStyles{
		Title:    fg(ColorPrimary).Bold(true),
		Subtitle: fg(ColorTextMuted),
		Muted:    fg(ColorTextMuted),
		Bold:     fg(ColorText).Bold(true),

		Success: fg(ColorSuccess),
		Error:   fg(ColorError),
		Warning: fg(ColorWarning),

		BadgeSuccess: badge(ColorSuccess),
		BadgeError:   badge(ColorError),
		BadgeWarning: badge(ColorWarning),
		BadgeInfo:    badge(ColorInfo),
		BadgePending: badge(ColorTextMuted),

		Row:         fg(ColorText),
		RowSelected: fg(ColorPrimary).Bold(true).Background(ColorBgMuted),
		RowDetail:   fg(ColorTextMuted).PaddingLeft(4),

		Box:      framed(ColorBorder),
		BoxError: framed(ColorError).Foreground(ColorError),

		HelpKey:  fg(ColorAccent),
		HelpDesc: fg(ColorTextMuted),
	}
}

// RenderKeyHelp renders one "key description" pair of a help line.
func RenderKeyHelp(key, desc string) string {
	return Theme.HelpKey.Render(key) + " " + Theme.HelpDesc.Render(desc)
}

func RenderError(msg string) string   { return Theme.Error.Render(IconError + " " + msg) }
func RenderSuccess(msg string) string { return Theme.Success.Render(IconSuccess + " " + msg) }
func RenderWarning(msg string) string { return Theme.Warning.Render(IconWarning + " " + msg) }
