package styles

import (
	"slices"

	"github.com/charmbracelet/lipgloss"
)

// ThemeName represents a named color theme.
type ThemeName string

// Available theme names.
const (
	ThemeDefault ThemeName = "default" // Purple/green dark theme
	ThemeNord    ThemeName = "nord"    // Nord theme - cool blue-gray
	ThemeDracula ThemeName = "dracula" // Dracula theme colors
	ThemeGruvbox ThemeName = "gruvbox" // Gruvbox retro groove
)

// ThemeNames returns all built-in theme names.
func ThemeNames() []string {
	return []string{
		string(ThemeDefault),
		string(ThemeNord),
		string(ThemeDracula),
		string(ThemeGruvbox),
	}
}

// IsValidTheme checks if a theme name is built in.
func IsValidTheme(name string) bool {
	return slices.Contains(ThemeNames(), name)
}

// ColorPalette defines the color scheme for a theme.
type ColorPalette struct {
	// Primary accent color (focused column, selected card)
	Primary lipgloss.Color
	// Secondary accent color (help keys, success messages)
	Secondary lipgloss.Color
	// Warning color (grabbed cards, confirmations)
	Warning lipgloss.Color
	// Error color
	Error lipgloss.Color
	// Muted color (descriptions, empty columns)
	Muted lipgloss.Color
	// Surface color (status bar background)
	Surface lipgloss.Color
	// Text color
	Text lipgloss.Color
	// Border color (unfocused columns)
	Border lipgloss.Color

	// Priority badges
	PriorityLow    lipgloss.Color
	PriorityMedium lipgloss.Color
	PriorityHigh   lipgloss.Color
}

// DefaultPalette returns the default purple/green dark theme palette.
func DefaultPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#A78BFA"), // Purple (violet-400)
		Secondary: lipgloss.Color("#10B981"), // Green
		Warning:   lipgloss.Color("#F59E0B"), // Amber
		Error:     lipgloss.Color("#F87171"), // Red (red-400)
		Muted:     lipgloss.Color("#9CA3AF"), // Gray
		Surface:   lipgloss.Color("#1F2937"), // Dark surface
		Text:      lipgloss.Color("#F9FAFB"), // Light text
		Border:    lipgloss.Color("#6B7280"), // Gray-500

		PriorityLow:    lipgloss.Color("#60A5FA"), // Blue
		PriorityMedium: lipgloss.Color("#FBBF24"), // Yellow
		PriorityHigh:   lipgloss.Color("#F87171"), // Red
	}
}

// NordPalette returns the Nord palette.
func NordPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#88C0D0"), // Nord frost (cyan)
		Secondary: lipgloss.Color("#A3BE8C"), // Nord aurora green
		Warning:   lipgloss.Color("#EBCB8B"), // Nord aurora yellow
		Error:     lipgloss.Color("#BF616A"), // Nord aurora red
		Muted:     lipgloss.Color("#4C566A"), // Nord polar night 3
		Surface:   lipgloss.Color("#2E3440"), // Nord polar night 0
		Text:      lipgloss.Color("#ECEFF4"), // Nord snow storm 2
		Border:    lipgloss.Color("#3B4252"), // Nord polar night 1

		PriorityLow:    lipgloss.Color("#81A1C1"), // Frost blue
		PriorityMedium: lipgloss.Color("#EBCB8B"), // Aurora yellow
		PriorityHigh:   lipgloss.Color("#BF616A"), // Aurora red
	}
}

// DraculaPalette returns the Dracula palette.
func DraculaPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#BD93F9"), // Dracula purple
		Secondary: lipgloss.Color("#50FA7B"), // Dracula green
		Warning:   lipgloss.Color("#F1FA8C"), // Dracula yellow
		Error:     lipgloss.Color("#FF5555"), // Dracula red
		Muted:     lipgloss.Color("#6272A4"), // Dracula comment
		Surface:   lipgloss.Color("#282A36"), // Dracula background
		Text:      lipgloss.Color("#F8F8F2"), // Dracula foreground
		Border:    lipgloss.Color("#44475A"), // Dracula selection

		PriorityLow:    lipgloss.Color("#8BE9FD"), // Cyan
		PriorityMedium: lipgloss.Color("#FFB86C"), // Orange
		PriorityHigh:   lipgloss.Color("#FF5555"), // Red
	}
}

// GruvboxPalette returns the Gruvbox dark palette.
func GruvboxPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#83A598"), // Gruvbox aqua
		Secondary: lipgloss.Color("#B8BB26"), // Gruvbox green
		Warning:   lipgloss.Color("#FABD2F"), // Gruvbox yellow
		Error:     lipgloss.Color("#FB4934"), // Gruvbox red
		Muted:     lipgloss.Color("#928374"), // Gruvbox gray
		Surface:   lipgloss.Color("#282828"), // Gruvbox bg0
		Text:      lipgloss.Color("#EBDBB2"), // Gruvbox fg
		Border:    lipgloss.Color("#3C3836"), // Gruvbox bg1

		PriorityLow:    lipgloss.Color("#83A598"), // Aqua
		PriorityMedium: lipgloss.Color("#FE8019"), // Orange
		PriorityHigh:   lipgloss.Color("#FB4934"), // Red
	}
}

// GetPalette returns the palette for name, falling back to the default
// palette for unknown names.
func GetPalette(name ThemeName) *ColorPalette {
	switch name {
	case ThemeNord:
		return NordPalette()
	case ThemeDracula:
		return DraculaPalette()
	case ThemeGruvbox:
		return GruvboxPalette()
	default:
		return DefaultPalette()
	}
}
