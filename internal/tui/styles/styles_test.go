package styles

import (
	"slices"
	"testing"

	"github.com/Iron-Ham/taskboard/internal/config"
)

func TestThemeNamesMatchConfig(t *testing.T) {
	if !slices.Equal(ThemeNames(), config.ValidThemes()) {
		t.Errorf("ThemeNames() = %v, config accepts %v", ThemeNames(), config.ValidThemes())
	}
}

func TestIsValidTheme(t *testing.T) {
	for _, name := range ThemeNames() {
		if !IsValidTheme(name) {
			t.Errorf("IsValidTheme(%q) = false", name)
		}
	}
	if IsValidTheme("Nord") {
		t.Error("theme names are case-sensitive")
	}
}

func TestGetPalette(t *testing.T) {
	tests := []struct {
		name    ThemeName
		primary string
	}{
		{ThemeDefault, "#A78BFA"},
		{ThemeNord, "#88C0D0"},
		{ThemeDracula, "#BD93F9"},
		{ThemeGruvbox, "#83A598"},
		{"unknown", "#A78BFA"},
	}

	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			got := GetPalette(tt.name)
			if string(got.Primary) != tt.primary {
				t.Errorf("GetPalette(%q).Primary = %q, want %q", tt.name, got.Primary, tt.primary)
			}
		})
	}
}

func TestPalettesComplete(t *testing.T) {
	for _, name := range ThemeNames() {
		p := GetPalette(ThemeName(name))
		colors := map[string]string{
			"Primary":        string(p.Primary),
			"Secondary":      string(p.Secondary),
			"Warning":        string(p.Warning),
			"Error":          string(p.Error),
			"Muted":          string(p.Muted),
			"Surface":        string(p.Surface),
			"Text":           string(p.Text),
			"Border":         string(p.Border),
			"PriorityLow":    string(p.PriorityLow),
			"PriorityMedium": string(p.PriorityMedium),
			"PriorityHigh":   string(p.PriorityHigh),
		}
		for field, c := range colors {
			if c == "" {
				t.Errorf("%s palette has no %s color", name, field)
			}
		}
	}
}

func TestPriorityColor(t *testing.T) {
	s := ForTheme("default")
	tests := []struct {
		priority string
		expected string
	}{
		{"Low", "#60A5FA"},
		{"Medium", "#FBBF24"},
		{"High", "#F87171"},
		{"Urgent", "#9CA3AF"}, // Falls back to muted
	}

	for _, tt := range tests {
		t.Run(tt.priority, func(t *testing.T) {
			if got := s.PriorityColor(tt.priority); string(got) != tt.expected {
				t.Errorf("PriorityColor(%q) = %q, want %q", tt.priority, got, tt.expected)
			}
		})
	}
}

func TestPriorityIcon(t *testing.T) {
	seen := map[string]bool{}
	for _, p := range []string{"Low", "Medium", "High"} {
		icon := PriorityIcon(p)
		if icon == "" || seen[icon] {
			t.Errorf("PriorityIcon(%q) = %q, want a distinct marker", p, icon)
		}
		seen[icon] = true
	}
	if PriorityIcon("") != "·" {
		t.Errorf("PriorityIcon(\"\") = %q, want fallback", PriorityIcon(""))
	}
}

func TestPlainRendersWithoutEscapes(t *testing.T) {
	s := Plain()
	if got := s.CardSelected.Render("task"); got != "task" {
		t.Errorf("Plain().CardSelected.Render() = %q, want %q", got, "task")
	}
}
