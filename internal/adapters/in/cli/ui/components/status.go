package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/dockhand/internal/adapters/in/cli/ui/styles"
	"github.com/bnema/dockhand/internal/domain"
)

// severityStyle holds the icon and styles of one display severity.
type severityStyle struct {
	icon  string
	text  lipgloss.Style
	badge lipgloss.Style
}

var severityStyles = map[domain.Severity]severityStyle{
	domain.SeveritySuccess: {icon: styles.IconDot, text: styles.Theme.Success, badge: styles.Theme.BadgeSuccess},
	domain.SeverityError:   {icon: styles.IconDotEmpty, text: styles.Theme.Error, badge: styles.Theme.BadgeError},
	domain.SeverityWarning: {icon: styles.IconDot, text: styles.Theme.Warning, badge: styles.Theme.BadgeWarning},
	domain.SeverityDefault: {icon: styles.IconDotEmpty, text: styles.Theme.Muted, badge: styles.Theme.BadgeInfo},
}

func styleFor(s domain.Severity) severityStyle {
	if st, ok := severityStyles[s]; ok {
		return st
	}
	return severityStyles[domain.SeverityDefault]
}

// RenderSeverity renders label with the icon and color of a severity.
func RenderSeverity(s domain.Severity, label string) string {
	st := styleFor(s)
	if label == "" {
		return st.text.Render(st.icon)
	}
	return st.text.Render(st.icon + " " + label)
}

// RenderSeverityBadge renders label as a badge colored by severity.
func RenderSeverityBadge(s domain.Severity, label string) string {
	return styleFor(s).badge.Render(label)
}

// ResourceStatus renders the status column of a container: the free text
// status when the backend sent one, the normalized state otherwise.
func ResourceStatus(r domain.Resource) string {
	label := r.Status
	if label == "" {
		label = string(r.State)
	}
	return RenderSeverity(r.Severity(), label)
}

// ResourceBadge renders the state of a container as a badge.
func ResourceBadge(r domain.Resource) string {
	return RenderSeverityBadge(r.Severity(), string(r.State))
}

// LockBadge renders the action in flight on a row.
func LockBadge(kind domain.ActionKind) string {
	return styles.Theme.BadgePending.Render(styles.IconLock + " " + kind.Verb())
}
