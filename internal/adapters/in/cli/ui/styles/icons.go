package styles

// Icons are plain Unicode so they render without a patched font.
const (
	// Status indicators
	IconSuccess = "✓"
	IconError   = "✗"
	IconWarning = "!"
	IconPending = "…"

	// Objects
	IconContainer = "▣"
	IconUser      = "◉"
	IconServer    = "▤"
	IconLock      = "⧗"

	// Tree rows
	IconExpanded  = "▾"
	IconCollapsed = "▸"

	// Dots
	IconDot      = "●"
	IconDotEmpty = "○"
)
