// Package components provides the rendering components of the dockhand console.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/bnema/dockhand/internal/adapters/in/cli/ui/styles"
)

const ellipsis = "..."

// TableColumn is one column of a Table. Width is the text width of its
// cells, padding excluded. A zero Width lets the column grow.
type TableColumn struct {
	Title string
	Width int
}

// Table renders rows under fixed or growing columns.
// Cells wider than their column are cut at a grapheme boundary.
type Table struct {
	Columns []TableColumn
	Rows    [][]string
	// Plain drops the palette, keeping bold headers only.
	Plain bool
}

// Render returns the table with a rounded border, or "" without columns.
func (t Table) Render() string {
	if len(t.Columns) == 0 {
		return ""
	}

	header, cell, border := t.palette()
	headers := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		headers[i] = fitCell(col.Title, col.Width)
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(border).
		Headers(headers...).
		Rows(t.fittedRows()...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := cell
			if row == table.HeaderRow {
				style = header
			}
			if w := t.width(col); w > 0 {
				// Width counts the horizontal padding; the cell keeps w for text.
				w += style.GetHorizontalPadding()
				style = style.Width(w).MaxWidth(w)
			}
			return style
		}).
		String()
}

func (t Table) palette() (header, cell, border lipgloss.Style) {
	pad := lipgloss.NewStyle().Padding(0, 1)
	if t.Plain {
		return pad.Bold(true), pad, lipgloss.NewStyle()
	}
	return pad.Bold(true).Foreground(styles.ColorPrimary),
		pad.Foreground(styles.ColorText),
		lipgloss.NewStyle().Foreground(styles.ColorBorder)
}

func (t Table) fittedRows() [][]string {
	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		fitted := make([]string, len(row))
		for j, value := range row {
			fitted[j] = fitCell(value, t.width(j))
		}
		rows[i] = fitted
	}
	return rows
}

func (t Table) width(col int) int {
	if col < 0 || col >= len(t.Columns) {
		return 0
	}
	return t.Columns[col].Width
}

// fitCell cuts value to width display cells, ending with an ellipsis.
// Values carrying ANSI sequences are already styled and pass through.
func fitCell(value string, width int) string {
	if width <= 0 || strings.Contains(value, "\x1b[") || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= len(ellipsis) {
		return strings.Repeat(".", width)
	}

	budget := width - len(ellipsis)
	var kept strings.Builder
	state := -1
	rest := value
	for rest != "" {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		w := runewidth.StringWidth(cluster)
		if w > budget {
			break
		}
		budget -= w
		kept.WriteString(cluster)
	}
	if kept.Len() == 0 {
		return strings.Repeat(".", width)
	}
	return kept.String() + ellipsis
}

// SimpleTable renders headers and rows with growing columns.
func SimpleTable(headers []string, rows [][]string) string {
	cols := make([]TableColumn, 0, len(headers))
	for _, h := range headers {
		cols = append(cols, TableColumn{Title: h})
	}
	return Table{Columns: cols, Rows: rows}.Render()
}

// KeyValueTable renders label/value pairs without header nor border.
func KeyValueTable(pairs [][2]string) string {
	rows := make([][]string, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, []string{styles.Theme.Bold.Render(p[0]), p[1]})
	}
	gap := lipgloss.NewStyle().PaddingRight(2)
	return table.New().
		Border(lipgloss.HiddenBorder()).
		Rows(rows...).
		StyleFunc(func(int, int) lipgloss.Style { return gap }).
		String()
}
