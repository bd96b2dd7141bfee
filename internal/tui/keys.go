package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the board's key bindings in normal mode.
type KeyMap struct {
	Left  key.Binding
	Right key.Binding
	Up    key.Binding
	Down  key.Binding

	MoveLeft  key.Binding
	MoveRight key.Binding
	MoveUp    key.Binding
	MoveDown  key.Binding

	AddTask       key.Binding
	EditTitle     key.Binding
	EditDesc      key.Binding
	DeleteTask    key.Binding
	CyclePriority key.Binding
	AddColumn     key.Binding
	RenameColumn  key.Binding
	RemoveColumn  key.Binding
	ColumnLeft    key.Binding
	ColumnRight   key.Binding
	ToggleHelp    key.Binding
	Quit          key.Binding

	Confirm    key.Binding
	Cancel     key.Binding
	ConfirmYes key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev column")),
		Right: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next column")),
		Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "prev task")),
		Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next task")),

		MoveLeft:  key.NewBinding(key.WithKeys("H", "shift+left"), key.WithHelp("H", "move task left")),
		MoveRight: key.NewBinding(key.WithKeys("L", "shift+right"), key.WithHelp("L", "move task right")),
		MoveUp:    key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "move task up")),
		MoveDown:  key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "move task down")),

		AddTask:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
		EditTitle:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit title")),
		EditDesc:      key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "edit description")),
		DeleteTask:    key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete task")),
		CyclePriority: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "cycle priority")),
		AddColumn:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new column")),
		RenameColumn:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename column")),
		RemoveColumn:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove column")),
		ColumnLeft:    key.NewBinding(key.WithKeys("<"), key.WithHelp("<", "column left")),
		ColumnRight:   key.NewBinding(key.WithKeys(">"), key.WithHelp(">", "column right")),
		ToggleHelp:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Confirm:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		ConfirmYes: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.AddTask, k.MoveRight, k.CyclePriority, k.DeleteTask, k.ToggleHelp, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.MoveLeft, k.MoveRight, k.MoveUp, k.MoveDown},
		{k.AddTask, k.EditTitle, k.EditDesc, k.CyclePriority, k.DeleteTask},
		{k.AddColumn, k.RenameColumn, k.RemoveColumn, k.ColumnLeft, k.ColumnRight},
		{k.ToggleHelp, k.Quit},
	}
}
