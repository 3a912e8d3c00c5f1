// Package styles provides the styling system of the dockhand terminal UI.
package styles

import "github.com/charmbracelet/lipgloss"

// Palette. Shades are chosen to stay readable on dark and light terminals.
var (
	// Primary colors - Harbor blue
	Blue300 = lipgloss.Color("#7cc4fa")
	Blue400 = lipgloss.Color("#47a3f3")
	Blue500 = lipgloss.Color("#2186eb")
	Blue700 = lipgloss.Color("#0b69c7")

	// Accent colors - Signal orange
	Orange400 = lipgloss.Color("#f9a03f")
	Orange600 = lipgloss.Color("#de7c1a")

	// Neutral colors - for text and backgrounds
	Slate200 = lipgloss.Color("#e2e8f0")
	Slate400 = lipgloss.Color("#94a3b8")
	Slate500 = lipgloss.Color("#64748b")
	Slate700 = lipgloss.Color("#334155")
	Slate800 = lipgloss.Color("#1e293b")
	Slate950 = lipgloss.Color("#020617")

	// Status colors
	Emerald400 = lipgloss.Color("#34d399")
	Rose500    = lipgloss.Color("#f43f5e")
	Amber400   = lipgloss.Color("#fbbf24")

	// Semantic colors
	ColorPrimary = Blue400
	ColorAccent  = Orange400
	ColorSuccess = Emerald400
	ColorWarning = Amber400
	ColorError   = Rose500
	ColorInfo    = Blue300

	// Text colors
	ColorText      = Slate200
	ColorTextMuted = Slate500

	// Background colors
	ColorBg      = Slate950
	ColorBgMuted = Slate800

	// Border colors
	ColorBorder = Slate700
)
