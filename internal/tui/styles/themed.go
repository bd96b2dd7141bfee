package styles

import "github.com/charmbracelet/lipgloss"

// Styles contains all the lipgloss styles built from a color palette.
// Rebuild it with New or ForTheme when the theme changes.
type Styles struct {
	Palette *ColorPalette

	// Convenience styles for colors
	Primary   lipgloss.Style
	Secondary lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Muted     lipgloss.Style
	Text      lipgloss.Style

	// Board header
	Header lipgloss.Style
	Stats  lipgloss.Style

	// Columns
	Column           lipgloss.Style
	ColumnFocused    lipgloss.Style
	ColumnDropTarget lipgloss.Style
	ColumnTitle      lipgloss.Style
	ColumnCount      lipgloss.Style
	EmptyColumn      lipgloss.Style

	// Cards
	Card         lipgloss.Style
	CardSelected lipgloss.Style
	Description  lipgloss.Style

	// Input and feedback
	InputBox   lipgloss.Style
	ErrorMsg   lipgloss.Style
	SuccessMsg lipgloss.Style

	// Help bar
	HelpBar lipgloss.Style
	HelpKey lipgloss.Style

	// Config editor
	Title                lipgloss.Style
	DropdownItem         lipgloss.Style
	DropdownItemSelected lipgloss.Style
}

// New builds the styles for a palette.
func New(p *ColorPalette) *Styles {
	s := &Styles{Palette: p}

	s.Primary = lipgloss.NewStyle().Foreground(p.Primary)
	s.Secondary = lipgloss.NewStyle().Foreground(p.Secondary)
	s.Warning = lipgloss.NewStyle().Foreground(p.Warning)
	s.Error = lipgloss.NewStyle().Foreground(p.Error)
	s.Muted = lipgloss.NewStyle().Foreground(p.Muted)
	s.Text = lipgloss.NewStyle().Foreground(p.Text)

	s.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Primary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(p.Border).
		MarginBottom(1)
	s.Stats = lipgloss.NewStyle().Foreground(p.Muted)

	column := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Padding(0, 1)
	s.Column = column
	s.ColumnFocused = column.BorderForeground(p.Primary)
	s.ColumnDropTarget = column.BorderForeground(p.Warning).BorderStyle(lipgloss.DoubleBorder())
	s.ColumnTitle = lipgloss.NewStyle().Bold(true).Foreground(p.Text)
	s.ColumnCount = lipgloss.NewStyle().Foreground(p.Muted)
	s.EmptyColumn = lipgloss.NewStyle().Foreground(p.Muted).Italic(true)

	s.Card = lipgloss.NewStyle().Foreground(p.Text)
	s.CardSelected = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Surface).
		Background(p.Primary)
	s.Description = lipgloss.NewStyle().Foreground(p.Muted)

	s.InputBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Primary).
		Padding(0, 1).
		MarginTop(1)
	s.ErrorMsg = lipgloss.NewStyle().Foreground(p.Error).Bold(true)
	s.SuccessMsg = lipgloss.NewStyle().Foreground(p.Secondary).Bold(true)

	s.HelpBar = lipgloss.NewStyle().Foreground(p.Muted).MarginTop(1)
	s.HelpKey = lipgloss.NewStyle().Bold(true).Foreground(p.Secondary)

	s.Title = lipgloss.NewStyle().Bold(true).Foreground(p.Primary).MarginBottom(1)
	s.DropdownItem = lipgloss.NewStyle().Foreground(p.Text).Padding(0, 1)
	s.DropdownItemSelected = lipgloss.NewStyle().
		Foreground(p.Text).
		Background(p.Primary).
		Bold(true).
		Padding(0, 1)

	return s
}

// ForTheme builds the styles for a named theme.
func ForTheme(name string) *Styles {
	return New(GetPalette(ThemeName(name)))
}

// Plain returns styles that add no color or decoration, for output that is
// not going to a terminal.
func Plain() *Styles {
	plain := lipgloss.NewStyle()
	column := plain.Border(lipgloss.NormalBorder()).Padding(0, 1)
	return &Styles{
		Palette:              DefaultPalette(),
		Primary:              plain,
		Secondary:            plain,
		Warning:              plain,
		Error:                plain,
		Muted:                plain,
		Text:                 plain,
		Header:               plain.MarginBottom(1),
		Stats:                plain,
		Column:               column,
		ColumnFocused:        column,
		ColumnDropTarget:     column,
		ColumnTitle:          plain,
		ColumnCount:          plain,
		EmptyColumn:          plain,
		Card:                 plain,
		CardSelected:         plain,
		Description:          plain,
		InputBox:             plain.Border(lipgloss.NormalBorder()),
		ErrorMsg:             plain,
		SuccessMsg:           plain,
		HelpBar:              plain.MarginTop(1),
		HelpKey:              plain,
		Title:                plain.MarginBottom(1),
		DropdownItem:         plain,
		DropdownItemSelected: plain,
	}
}

// PriorityColor returns the badge color for a priority name.
func (s *Styles) PriorityColor(priority string) lipgloss.Color {
	switch priority {
	case "Low":
		return s.Palette.PriorityLow
	case "Medium":
		return s.Palette.PriorityMedium
	case "High":
		return s.Palette.PriorityHigh
	default:
		return s.Palette.Muted
	}
}

// PriorityIcon returns a one-cell marker for a priority name.
func PriorityIcon(priority string) string {
	switch priority {
	case "Low":
		return "▽"
	case "Medium":
		return "◆"
	case "High":
		return "▲"
	default:
		return "·"
	}
}
