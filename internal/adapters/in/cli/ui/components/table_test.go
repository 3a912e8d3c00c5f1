package components

import (
	"regexp"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/dockhand/internal/domain"
)

func TestTableRender_AppliesConfiguredColumnWidth(t *testing.T) {
	tbl := Table{Columns: []TableColumn{{Title: "ID", Width: 8}}, Rows: [][]string{{"abc"}}, Plain: true}

	rendered := stripANSI(tbl.Render())

	var rowLine string
	for _, line := range strings.Split(rendered, "\n") {
		if strings.Contains(line, "abc") {
			rowLine = line
			break
		}
	}

	require.NotEmpty(t, rowLine)
	assert.Contains(t, rowLine, "abc  ")
}

func TestTableRender_TruncatesLongCellTextWithEllipsis(t *testing.T) {
	tbl := Table{Columns: []TableColumn{{Title: "NAME", Width: 6}}, Rows: [][]string{{"postgres-primary"}}}

	rendered := stripANSI(tbl.Render())
	assert.Contains(t, rendered, "pos...")
	assert.NotContains(t, rendered, "postgres-primary")
}

func TestTableRender_TruncatedCellStaysOnOneLine(t *testing.T) {
	tbl := Table{Columns: []TableColumn{{Title: "NAME", Width: 6}}, Rows: [][]string{{"postgres-primary"}}, Plain: true}

	lines := strings.Split(strings.TrimRight(stripANSI(tbl.Render()), "\n"), "\n")

	// top border, header, separator, row, bottom border
	require.Len(t, lines, 5)
	assert.Contains(t, lines[1], "│ NAME   │")
	assert.Contains(t, lines[3], "│ pos... │")
	for _, line := range lines {
		assert.Equal(t, runewidth.StringWidth(lines[0]), runewidth.StringWidth(line))
	}
}

func TestTableRender_NoColumns(t *testing.T) {
	assert.Empty(t, Table{Rows: [][]string{{"x"}}}.Render())
}

func TestSimpleTable(t *testing.T) {
	rendered := stripANSI(SimpleTable([]string{"ID", "NAME"}, [][]string{{"c1", "web"}, {"c2", "db"}}))
	for _, want := range []string{"ID", "NAME", "c1", "web", "c2", "db"} {
		assert.Contains(t, rendered, want)
	}
}

func TestKeyValueTable(t *testing.T) {
	rendered := stripANSI(KeyValueTable([][2]string{{"Image", "nginx:1.27"}, {"State", "running"}}))
	assert.Contains(t, rendered, "Image")
	assert.Contains(t, rendered, "nginx:1.27")
	assert.Contains(t, rendered, "running")
}

func TestFitCell(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		maxWidth int
		expected string
	}{
		{name: "zero width passthrough", value: "abcdef", maxWidth: 0, expected: "abcdef"},
		{name: "short text unchanged", value: "abc", maxWidth: 5, expected: "abc"},
		{name: "width three all dots", value: "abcdef", maxWidth: 3, expected: "..."},
		{name: "ascii truncates", value: "abcdef", maxWidth: 5, expected: "ab..."},
		{name: "wide runes truncate by display width", value: "你好世界", maxWidth: 5, expected: "你..."},
		{name: "combining marks stay whole", value: "e\u0301e\u0301e\u0301e\u0301e\u0301", maxWidth: 4, expected: "e\u0301..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fitCell(tt.value, tt.maxWidth)
			assert.Equal(t, tt.expected, got)
			if tt.maxWidth > 0 {
				assert.LessOrEqual(t, runewidth.StringWidth(got), tt.maxWidth)
			}
		})
	}
}

func TestFitCell_AnsiInputPassthrough(t *testing.T) {
	styled := "\x1b[32mrunning\x1b[0m"
	assert.Equal(t, styled, fitCell(styled, 3))
}

func TestResourceStatus(t *testing.T) {
	tests := []struct {
		name     string
		resource domain.Resource
		want     string
	}{
		{name: "free text status wins", resource: domain.Resource{State: domain.ResourceStateRunning, Status: "Up 3 minutes"}, want: "Up 3 minutes"},
		{name: "state when no status", resource: domain.Resource{State: domain.ResourceStateExited}, want: "exited"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, stripANSI(ResourceStatus(tt.resource)), tt.want)
		})
	}
}

func TestLockBadge(t *testing.T) {
	assert.Contains(t, stripANSI(LockBadge(domain.ActionLoadChildren)), "load")
	assert.Contains(t, stripANSI(LockBadge(domain.ActionRestart)), "restart")
}

func stripANSI(input string) string {
	ansiPattern := regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)
	return ansiPattern.ReplaceAllString(input, "")
}
