package tui

import (
	"fmt"
	"strings"

	"github.com/Iron-Ham/taskboard/internal/board"
	"github.com/Iron-Ham/taskboard/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Layout constants
const (
	DefaultColumnWidth = 28
	MinColumnWidth     = 16
	columnGap          = 1
	columnChrome       = 4 // border (2) + padding (2)
)

// RenderOptions controls how RenderBoard lays out a board.
type RenderOptions struct {
	// Width is the available terminal width. Zero means unlimited.
	Width int
	// ColumnWidth is the outer width of each column.
	ColumnWidth int
	// ShowDescription renders descriptions under task titles.
	ShowDescription bool
	// Styles defaults to the default theme.
	Styles *styles.Styles

	// Focus is the index of the focused column, or -1.
	Focus int
	// Selected is the index of the selected task in the focused column,
	// or -1.
	Selected int
	// DropTarget is the column a drag is hovering over, or -1.
	DropTarget int
}

// DefaultRenderOptions returns options with nothing focused.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		ColumnWidth:     DefaultColumnWidth,
		ShowDescription: true,
		Focus:           -1,
		Selected:        -1,
		DropTarget:      -1,
	}
}

// RenderBoard renders every column side by side. When Width is set and the
// columns do not fit, they wrap onto further rows.
func RenderBoard(views []board.ColumnView, opts RenderOptions) string {
	opts = normalize(opts)
	if len(views) == 0 {
		return opts.Styles.EmptyColumn.Render("No columns")
	}

	perRow := len(views)
	if opts.Width > 0 {
		perRow = max(1, (opts.Width+columnGap)/(opts.ColumnWidth+columnGap))
	}

	var rows []string
	for start := 0; start < len(views); start += perRow {
		end := min(start+perRow, len(views))
		rows = append(rows, renderRow(views, start, end, opts))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderRow renders views[start:end] joined horizontally. Indices in opts
// refer to positions in views.
func renderRow(views []board.ColumnView, start, end int, opts RenderOptions) string {
	cols := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		if i > start {
			cols = append(cols, strings.Repeat(" ", columnGap))
		}
		cols = append(cols, renderColumn(views[i], i, opts))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func renderColumn(v board.ColumnView, index int, opts RenderOptions) string {
	st := opts.Styles
	inner := opts.ColumnWidth - columnChrome

	box := st.Column
	switch {
	case index == opts.DropTarget:
		box = st.ColumnDropTarget
	case index == opts.Focus:
		box = st.ColumnFocused
	}

	var b strings.Builder
	title := truncate(v.Title, inner-countWidth(len(v.Tasks)))
	if title == "" {
		title = "(untitled)"
	}
	b.WriteString(st.ColumnTitle.Render(title))
	b.WriteString(st.ColumnCount.Render(fmt.Sprintf(" (%d)", len(v.Tasks))))
	b.WriteString("\n")
	b.WriteString(st.Muted.Render(strings.Repeat("─", inner)))

	for i, t := range v.Tasks {
		selected := index == opts.Focus && i == opts.Selected
		b.WriteString("\n")
		b.WriteString(renderCard(t, inner, selected, opts))
	}
	if len(v.Tasks) == 0 {
		b.WriteString("\n")
		b.WriteString(st.EmptyColumn.Render("No tasks"))
	}

	return box.Width(opts.ColumnWidth - 2).Render(b.String())
}

func renderCard(t board.Task, width int, selected bool, opts RenderOptions) string {
	st := opts.Styles
	icon := lipgloss.NewStyle().Foreground(st.PriorityColor(string(t.Priority))).Render(styles.PriorityIcon(string(t.Priority)))
	id := fmt.Sprintf("#%d ", t.ID)
	title := truncate(t.Title, width-2-runewidth.StringWidth(id))

	line := id + title
	if selected {
		line = st.CardSelected.Render(line)
	} else {
		line = st.Card.Render(line)
	}
	out := icon + " " + line

	if hasDescriptionLine(t, opts.ShowDescription) {
		desc := truncate(firstLine(t.Description), width-2)
		out += "\n  " + st.Description.Render(desc)
	}
	return out
}

func normalize(opts RenderOptions) RenderOptions {
	if opts.Styles == nil {
		opts.Styles = styles.ForTheme(string(styles.ThemeDefault))
	}
	if opts.ColumnWidth < MinColumnWidth {
		opts.ColumnWidth = DefaultColumnWidth
	}
	return opts
}

// truncate shortens s to at most width cells, marking the cut with an
// ellipsis.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + "…"
	}
	return s
}

func countWidth(n int) int {
	return len(fmt.Sprintf(" (%d)", n))
}

// cardHeight is the number of lines renderCard produces for t.
func cardHeight(t board.Task, showDescription bool) int {
	if hasDescriptionLine(t, showDescription) {
		return 2
	}
	return 1
}

func hasDescriptionLine(t board.Task, showDescription bool) bool {
	return showDescription && t.Description != ""
}
