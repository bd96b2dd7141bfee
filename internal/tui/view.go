package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderBoard())

	if panel := m.renderPanel(); panel != "" {
		b.WriteString("\n")
		b.WriteString(panel)
	}

	switch {
	case m.errorMsg != "":
		b.WriteString("\n")
		b.WriteString(m.styles.ErrorMsg.Render(m.errorMsg))
	case m.infoMsg != "":
		b.WriteString("\n")
		b.WriteString(m.styles.SuccessMsg.Render(m.infoMsg))
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())
	return m.clip(b.String())
}

// clip cuts every line to the terminal width so long messages never wrap
// and shift the board under the mouse.
func (m Model) clip(s string) string {
	if m.width <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if lipgloss.Width(line) > m.width {
			lines[i] = ansi.Truncate(line, m.width, "…")
		}
	}
	return strings.Join(lines, "\n")
}

// renderHeader renders the title and the board counts. It always takes
// headerHeight lines so mouse hit-testing can find the board below it.
func (m Model) renderHeader() string {
	text := fmt.Sprintf("Task Board  %d to do · %d in progress · %d done · %d total",
		m.stats.Todo, m.stats.InProgress, m.stats.Done, m.stats.Total)
	if m.width > 0 {
		text = truncate(text, m.width)
	}
	return m.styles.Header.Render(text)
}

func (m Model) renderBoard() string {
	if len(m.views) == 0 {
		return m.styles.EmptyColumn.Render("No columns")
	}

	opts := RenderOptions{
		ColumnWidth:     m.opts.ColumnWidth,
		ShowDescription: m.opts.ShowDescription,
		Styles:          m.styles,
		Focus:           m.col,
		Selected:        m.row,
		DropTarget:      -1,
	}
	if m.drag != nil {
		opts.DropTarget = m.drag.over
	}

	end := min(m.offset+m.visibleColumns(), len(m.views))
	out := renderRow(m.views, m.offset, end, opts)
	if m.offset > 0 || end < len(m.views) {
		out += "\n" + m.styles.Muted.Render(fmt.Sprintf("columns %d-%d of %d", m.offset+1, end, len(m.views)))
	}
	return out
}

// renderPanel renders the text input or confirmation prompt for the
// current mode.
func (m Model) renderPanel() string {
	var label string
	switch m.mode {
	case modeNormal:
		return ""
	case modeConfirmDelete:
		t, _ := m.selectedTask()
		return m.styles.Warning.Render(fmt.Sprintf("Delete task #%d %q? (y/n)", t.ID, t.Title))
	case modeConfirmRemoveColumn:
		v, _ := m.focusedColumn()
		return m.styles.Warning.Render(fmt.Sprintf("Remove column %q and move its tasks? (y/n)", v.Title))
	case modeAddTitle:
		label = "New task"
	case modeAddDescription:
		label = fmt.Sprintf("Description for %q", m.draft)
	case modeEditTitle:
		label = "Edit title"
	case modeEditDescription:
		label = "Edit description"
	case modeAddColumn:
		label = "New column"
	case modeRenameColumn:
		label = "Rename column"
	}
	return m.styles.InputBox.Render(m.styles.Title.UnsetMarginBottom().Render(label) + "\n" + m.input.View())
}

func (m Model) renderHelp() string {
	if m.mode == modeNormal {
		return m.styles.HelpBar.Render(m.help.View(m.keys))
	}
	var bindings []key.Binding
	switch m.mode {
	case modeConfirmDelete, modeConfirmRemoveColumn:
		bindings = []key.Binding{m.keys.ConfirmYes, m.keys.Cancel}
	default:
		bindings = []key.Binding{m.keys.Confirm, m.keys.Cancel}
	}
	return m.styles.HelpBar.Render(m.help.ShortHelpView(bindings))
}

var _ help.KeyMap = KeyMap{}
