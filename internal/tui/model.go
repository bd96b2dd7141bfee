package tui

import (
	"fmt"
	"strings"

	"github.com/Iron-Ham/taskboard/internal/board"
	"github.com/Iron-Ham/taskboard/internal/tui/styles"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// mode is what key presses currently drive.
type mode int

const (
	modeNormal mode = iota
	modeAddTitle
	modeAddDescription
	modeEditTitle
	modeEditDescription
	modeAddColumn
	modeRenameColumn
	modeConfirmDelete
	modeConfirmRemoveColumn
)

// headerHeight is the number of lines above the board: the header text,
// its bottom border and a margin line.
const headerHeight = 3

// Options are the display settings the model can change at runtime.
type Options struct {
	ColumnWidth     int
	ShowDescription bool
	Theme           string
}

// dragState is a mouse drag in progress.
type dragState struct {
	payload board.DragPayload
	// over is the column under the pointer, or -1.
	over int
}

// Model is the bubbletea model for the interactive board. It never edits
// board state itself: every change goes through the manager, and the view
// is rebuilt from TasksByColumns whenever the board publishes a change.
type Model struct {
	mgr     *board.Manager
	changes <-chan struct{}

	keys   KeyMap
	help   help.Model
	styles *styles.Styles
	opts   Options

	views []board.ColumnView
	stats board.Stats

	col    int // focused column
	row    int // selected task within the focused column
	offset int // first visible column

	mode  mode
	input textinput.Model
	// draft holds the title while the description of a new task is typed.
	draft string
	drag  *dragState

	width    int
	height   int
	errorMsg string
	infoMsg  string
	quitting bool
}

// boardChangedMsg reports that the manager published a new snapshot.
type boardChangedMsg struct{}

// optionsMsg replaces the display options, e.g. after a config reload.
type optionsMsg Options

// NewModel creates a model over mgr. changes delivers a value whenever the
// board changes; it may be nil when nothing outside the model mutates the
// board.
func NewModel(mgr *board.Manager, changes <-chan struct{}, opts Options) Model {
	ti := textinput.New()
	ti.CharLimit = 200
	ti.Width = 50

	m := Model{
		mgr:     mgr,
		changes: changes,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		input:   ti,
	}
	m.applyOptions(opts)
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return m.waitForChange()
}

// waitForChange blocks until the board reports a change.
func (m Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	ch := m.changes
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return boardChangedMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.focusColumn(m.col)
		return m, nil

	case boardChangedMsg:
		m.refresh()
		return m, m.waitForChange()

	case optionsMsg:
		m.applyOptions(Options(msg))
		m.focusColumn(m.col)
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg), nil

	case tea.KeyMsg:
		m.errorMsg = ""
		m.infoMsg = ""
		switch m.mode {
		case modeNormal:
			return m.handleNormalKey(msg)
		case modeConfirmDelete, modeConfirmRemoveColumn:
			return m.handleConfirmKey(msg), nil
		default:
			return m.handleInputKey(msg)
		}
	}
	return m, nil
}

// -----------------------------------------------------------------------------
// Normal mode
// -----------------------------------------------------------------------------

func (m Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, k.ToggleHelp):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, k.Left):
		m.focusColumn(m.col - 1)
	case key.Matches(msg, k.Right):
		m.focusColumn(m.col + 1)
	case key.Matches(msg, k.Up):
		m.row = max(0, m.row-1)
	case key.Matches(msg, k.Down):
		m.row = min(m.row+1, max(0, len(m.focusedTasks())-1))

	case key.Matches(msg, k.MoveLeft):
		m.moveTaskToColumn(m.col - 1)
	case key.Matches(msg, k.MoveRight):
		m.moveTaskToColumn(m.col + 1)
	case key.Matches(msg, k.MoveUp):
		m.reorderTask(-1)
	case key.Matches(msg, k.MoveDown):
		m.reorderTask(+1)

	case key.Matches(msg, k.AddTask):
		if len(m.views) > 0 {
			return m, m.startInput(modeAddTitle, "", "Task title")
		}
	case key.Matches(msg, k.EditTitle):
		if t, ok := m.selectedTask(); ok {
			return m, m.startInput(modeEditTitle, t.Title, "Task title")
		}
	case key.Matches(msg, k.EditDesc):
		if t, ok := m.selectedTask(); ok {
			return m, m.startInput(modeEditDescription, t.Description, "Description")
		}
	case key.Matches(msg, k.DeleteTask):
		if _, ok := m.selectedTask(); ok {
			m.mode = modeConfirmDelete
		}
	case key.Matches(msg, k.CyclePriority):
		if t, ok := m.selectedTask(); ok {
			next := t.Priority.Next()
			if m.mgr.UpdateTask(t.ID, board.TaskUpdate{Priority: &next}) {
				m.afterMutation()
			}
		}

	case key.Matches(msg, k.AddColumn):
		return m, m.startInput(modeAddColumn, "", "Column title")
	case key.Matches(msg, k.RenameColumn):
		if v, ok := m.focusedColumn(); ok {
			return m, m.startInput(modeRenameColumn, v.Title, "Column title")
		}
	case key.Matches(msg, k.RemoveColumn):
		if v, ok := m.focusedColumn(); ok {
			if board.IsDefaultColumn(v.ID) {
				m.errorMsg = fmt.Sprintf("%q is a default column and cannot be removed", v.Title)
			} else {
				m.mode = modeConfirmRemoveColumn
			}
		}
	case key.Matches(msg, k.ColumnLeft):
		m.shiftColumn(-1)
	case key.Matches(msg, k.ColumnRight):
		m.shiftColumn(+1)
	}
	return m, nil
}

// moveTaskToColumn drops the selected task on the column at index.
func (m *Model) moveTaskToColumn(index int) {
	t, ok := m.selectedTask()
	if !ok || index < 0 || index >= len(m.views) {
		return
	}
	if m.mgr.DropOnColumn(board.TaskPayload(t.ID), m.views[index].ID, index) {
		m.afterMutation()
		m.focusColumn(index)
		m.selectTask(t.ID)
	}
}

// reorderTask moves the selected task one place up (-1) or down (+1) in
// its column.
func (m *Model) reorderTask(delta int) {
	t, ok := m.selectedTask()
	if !ok {
		return
	}
	target := m.row + delta
	if target < 0 || target >= len(m.focusedTasks()) {
		return
	}
	if m.mgr.ReorderTasksInColumn(m.views[m.col].ID, t.ID, target) {
		m.afterMutation()
		m.selectTask(t.ID)
	}
}

// shiftColumn moves the focused column one place left (-1) or right (+1).
func (m *Model) shiftColumn(delta int) {
	target := m.col + delta
	if target < 0 || target >= len(m.views) {
		return
	}
	if m.mgr.ReorderColumns(m.col, target) {
		m.afterMutation()
		m.focusColumn(target)
	}
}

// -----------------------------------------------------------------------------
// Mouse drag and drop
// -----------------------------------------------------------------------------

// hit is what lies under a screen cell.
type hit struct {
	ok  bool
	col int
	// header is set for the column's border, title and rule rows.
	header bool
	// task is the index of the card under the pointer, or -1 for the
	// column body below the cards.
	task int
}

func (m Model) hitTest(x, y int) hit {
	stride := m.opts.ColumnWidth + columnGap
	if x < 0 || y < headerHeight || x%stride >= m.opts.ColumnWidth {
		return hit{}
	}
	col := m.offset + x/stride
	if col >= m.offset+m.visibleColumns() || col >= len(m.views) {
		return hit{}
	}

	h := hit{ok: true, col: col, task: -1}
	row := y - headerHeight
	if row <= 2 {
		h.header = true
		return h
	}
	line := row - 3
	for i, t := range m.views[col].Tasks {
		height := cardHeight(t, m.opts.ShowDescription)
		if line < height {
			h.task = i
			return h
		}
		line -= height
	}
	return h
}

func (m Model) handleMouse(msg tea.MouseMsg) Model {
	if m.mode != modeNormal {
		return m
	}
	h := m.hitTest(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !h.ok {
			return m
		}
		m.focusColumn(h.col)
		switch {
		case h.header:
			m.drag = &dragState{payload: board.ColumnPayload(h.col), over: h.col}
		case h.task >= 0:
			m.row = h.task
			m.drag = &dragState{payload: board.TaskPayload(m.views[h.col].Tasks[h.task].ID), over: h.col}
		}

	case tea.MouseActionMotion:
		if m.drag != nil {
			m.drag.over = -1
			if h.ok {
				m.drag.over = h.col
			}
		}

	case tea.MouseActionRelease:
		if m.drag == nil {
			return m
		}
		p := m.drag.payload
		m.drag = nil
		if h.ok {
			m.drop(p, h)
		}
	}
	return m
}

// drop applies a finished drag. Task payloads released on a card land in
// that card's slot; anything else is a drop on the column itself.
func (m *Model) drop(p board.DragPayload, h hit) {
	target := m.views[h.col]

	var applied bool
	if p.Channel == board.ChannelTask && h.task >= 0 {
		applied = m.mgr.DropOnSlot(p, target.ID, h.task)
	} else {
		applied = m.mgr.DropOnColumn(p, target.ID, h.col)
	}
	if !applied {
		return
	}

	m.afterMutation()
	m.focusColumn(h.col)
	if p.Channel == board.ChannelTask {
		m.selectTask(p.Value)
	}
}

// -----------------------------------------------------------------------------
// Confirmation and text input
// -----------------------------------------------------------------------------

func (m Model) handleConfirmKey(msg tea.KeyMsg) Model {
	confirmed := key.Matches(msg, m.keys.ConfirmYes)
	current := m.mode
	m.mode = modeNormal
	if !confirmed {
		return m
	}

	switch current {
	case modeConfirmDelete:
		if t, ok := m.selectedTask(); ok && m.mgr.DeleteTask(t.ID) {
			m.afterMutation()
			m.infoMsg = fmt.Sprintf("Deleted task #%d", t.ID)
		}
	case modeConfirmRemoveColumn:
		if v, ok := m.focusedColumn(); ok {
			if m.mgr.RemoveColumn(v.ID) {
				m.afterMutation()
				m.infoMsg = fmt.Sprintf("Removed column %q", v.Title)
			} else {
				m.errorMsg = fmt.Sprintf("Column %q cannot be removed", v.Title)
			}
		}
	}
	return m
}

func (m *Model) startInput(md mode, value, placeholder string) tea.Cmd {
	m.mode = md
	m.input.Reset()
	m.input.SetValue(value)
	m.input.Placeholder = placeholder
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.mode = modeNormal
		m.draft = ""
		m.input.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		return m.submitInput()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submitInput() (tea.Model, tea.Cmd) {
	value := m.input.Value()
	current := m.mode
	m.mode = modeNormal
	m.input.Blur()

	switch current {
	case modeAddTitle:
		if strings.TrimSpace(value) == "" {
			m.errorMsg = "Title must not be empty"
			return m, nil
		}
		m.draft = value
		return m, m.startInput(modeAddDescription, "", "Description (optional)")

	case modeAddDescription:
		v, ok := m.focusedColumn()
		if !ok {
			return m, nil
		}
		t, added := m.mgr.AddTask(m.draft, value, board.DefaultPriority, v.ID)
		m.draft = ""
		if added {
			m.afterMutation()
			m.selectTask(t.ID)
			m.infoMsg = fmt.Sprintf("Added task #%d", t.ID)
		}

	case modeEditTitle:
		if t, ok := m.selectedTask(); ok {
			if !m.mgr.UpdateTask(t.ID, board.TaskUpdate{Title: &value}) {
				m.errorMsg = "Title must not be empty"
				return m, nil
			}
			m.afterMutation()
		}

	case modeEditDescription:
		if t, ok := m.selectedTask(); ok && m.mgr.UpdateTask(t.ID, board.TaskUpdate{Description: &value}) {
			m.afterMutation()
		}

	case modeAddColumn:
		after := ""
		if v, ok := m.focusedColumn(); ok {
			after = v.ID
		}
		c, added := m.mgr.AddColumn(value, after)
		if !added {
			m.errorMsg = "Column title must not be empty"
			return m, nil
		}
		m.afterMutation()
		if i, ok := m.mgr.ColumnIndex(c.ID); ok {
			m.focusColumn(i)
		}

	case modeRenameColumn:
		// The manager stores empty titles; the form refuses them.
		if strings.TrimSpace(value) == "" {
			m.errorMsg = "Column title must not be empty"
			return m, nil
		}
		if v, ok := m.focusedColumn(); ok && m.mgr.UpdateColumnTitle(v.ID, value) {
			m.afterMutation()
		}
	}
	return m, nil
}

// -----------------------------------------------------------------------------
// State helpers
// -----------------------------------------------------------------------------

// refresh rebuilds the read model and keeps the cursor in range.
func (m *Model) refresh() {
	m.views = m.mgr.TasksByColumns()
	m.stats = m.mgr.Stats()
	m.focusColumn(m.col)
}

// afterMutation refreshes immediately rather than waiting for the change
// notification, so the cursor can follow the item that moved.
func (m *Model) afterMutation() {
	m.refresh()
	if err := m.mgr.PersistErr(); err != nil {
		m.errorMsg = "Could not save board: " + err.Error()
	}
}

func (m *Model) applyOptions(opts Options) {
	if opts.ColumnWidth < MinColumnWidth {
		opts.ColumnWidth = DefaultColumnWidth
	}
	m.opts = opts
	m.styles = styles.ForTheme(opts.Theme)
	m.input.PromptStyle = m.styles.Primary
	m.help.Styles.ShortKey = m.styles.HelpKey
	m.help.Styles.FullKey = m.styles.HelpKey
	m.help.Styles.ShortDesc = m.styles.Muted
	m.help.Styles.FullDesc = m.styles.Muted
}

// visibleColumns is how many columns fit the terminal width.
func (m Model) visibleColumns() int {
	if m.width <= 0 {
		return max(1, len(m.views))
	}
	return max(1, (m.width+columnGap)/(m.opts.ColumnWidth+columnGap))
}

// focusColumn focuses column i, clamped into range, and scrolls it into
// view.
func (m *Model) focusColumn(i int) {
	if len(m.views) == 0 {
		m.col, m.row, m.offset = 0, 0, 0
		return
	}
	m.col = min(max(i, 0), len(m.views)-1)
	m.row = min(m.row, max(0, len(m.views[m.col].Tasks)-1))

	visible := m.visibleColumns()
	if m.col < m.offset {
		m.offset = m.col
	}
	if m.col >= m.offset+visible {
		m.offset = m.col - visible + 1
	}
	m.offset = max(0, min(m.offset, len(m.views)-visible))
}

// selectTask moves the cursor to the task with id in the focused column.
func (m *Model) selectTask(id int) {
	for i, t := range m.focusedTasks() {
		if t.ID == id {
			m.row = i
			return
		}
	}
}

func (m Model) focusedColumn() (board.ColumnView, bool) {
	if m.col < 0 || m.col >= len(m.views) {
		return board.ColumnView{}, false
	}
	return m.views[m.col], true
}

func (m Model) focusedTasks() []board.Task {
	v, ok := m.focusedColumn()
	if !ok {
		return nil
	}
	return v.Tasks
}

func (m Model) selectedTask() (board.Task, bool) {
	tasks := m.focusedTasks()
	if m.row < 0 || m.row >= len(tasks) {
		return board.Task{}, false
	}
	return tasks[m.row], true
}
