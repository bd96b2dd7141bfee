package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Iron-Ham/taskboard/internal/config"
	"github.com/Iron-Ham/taskboard/internal/tui/styles"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/viper"
)

// ConfigItem represents a single configuration item
type ConfigItem struct {
	Key         string
	Label       string
	Description string
	Type        string   // "string", "secret", "bool", "int", "select"
	Options     []string // For select type
	Category    string
}

// Category represents a group of config items
type Category struct {
	Name  string
	Items []ConfigItem
}

// Model is the Bubbletea model for the interactive config UI
type Model struct {
	categories     []Category
	categoryIndex  int
	itemIndex      int
	scrollOffset   int
	width          int
	height         int
	editing        bool
	textInput      textinput.Model
	selectIndex    int // For select-type options
	errorMsg       string
	infoMsg        string
	quitting       bool
	configModified bool
	configFile     string
	styles         *styles.Styles
}

// New creates a new config model that saves to configFile, or to the
// default config file when configFile is empty.
func New(configFile string) Model {
	if configFile == "" {
		configFile = config.ConfigFile()
	}

	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 40

	categories := []Category{
		{
			Name: "Store",
			Items: []ConfigItem{
				{
					Key:         "store.backend",
					Label:       "Backend",
					Description: "Where the board is persisted",
					Type:        "select",
					Options:     config.ValidStoreBackends(),
					Category:    "store",
				},
				{
					Key:         "store.dir",
					Label:       "Data Directory",
					Description: "Directory for the file backend and the log file (empty = default data dir)",
					Type:        "string",
					Category:    "store",
				},
				{
					Key:         "store.tasks_key",
					Label:       "Tasks Key",
					Description: "Key the task list is stored under",
					Type:        "string",
					Category:    "store",
				},
				{
					Key:         "store.columns_key",
					Label:       "Columns Key",
					Description: "Key the column list is stored under",
					Type:        "string",
					Category:    "store",
				},
				{
					Key:         "store.timeout_ms",
					Label:       "Timeout (ms)",
					Description: "Bound on every store read or write",
					Type:        "int",
					Category:    "store",
				},
			},
		},
		{
			Name: "Redis",
			Items: []ConfigItem{
				{
					Key:         "redis.addr",
					Label:       "Address",
					Description: "host:port of the redis server",
					Type:        "string",
					Category:    "redis",
				},
				{
					Key:         "redis.password",
					Label:       "Password",
					Description: "Redis AUTH password (leave empty for none)",
					Type:        "secret",
					Category:    "redis",
				},
				{
					Key:         "redis.db",
					Label:       "Database",
					Description: "Redis logical database number",
					Type:        "int",
					Category:    "redis",
				},
				{
					Key:         "redis.key_prefix",
					Label:       "Key Prefix",
					Description: "Prefix prepended to the store keys",
					Type:        "string",
					Category:    "redis",
				},
			},
		},
		{
			Name: "MySQL",
			Items: []ConfigItem{
				{
					Key:         "mysql.dsn",
					Label:       "DSN",
					Description: "Data source name, e.g. user:pass@tcp(host:3306)/db",
					Type:        "secret",
					Category:    "mysql",
				},
				{
					Key:         "mysql.table",
					Label:       "Table",
					Description: "Key/value table, created if missing",
					Type:        "string",
					Category:    "mysql",
				},
			},
		},
		{
			Name: "Logging",
			Items: []ConfigItem{
				{
					Key:         "logging.enabled",
					Label:       "Enabled",
					Description: "Write a JSON log file into the data directory",
					Type:        "bool",
					Category:    "logging",
				},
				{
					Key:         "logging.level",
					Label:       "Level",
					Description: "Minimum level written to the log",
					Type:        "select",
					Options:     config.ValidLogLevels(),
					Category:    "logging",
				},
				{
					Key:         "logging.max_size_mb",
					Label:       "Max Size (MB)",
					Description: "Size at which the log file is rotated",
					Type:        "int",
					Category:    "logging",
				},
				{
					Key:         "logging.max_backups",
					Label:       "Max Backups",
					Description: "Number of rotated log files to keep",
					Type:        "int",
					Category:    "logging",
				},
				{
					Key:         "logging.compress",
					Label:       "Compress",
					Description: "Gzip rotated log files",
					Type:        "bool",
					Category:    "logging",
				},
			},
		},
		{
			Name: "TUI",
			Items: []ConfigItem{
				{
					Key:         "tui.column_width",
					Label:       "Column Width",
					Description: "Width of each board column (16-80)",
					Type:        "int",
					Category:    "tui",
				},
				{
					Key:         "tui.show_description",
					Label:       "Show Descriptions",
					Description: "Render task descriptions under their titles",
					Type:        "bool",
					Category:    "tui",
				},
				{
					Key:         "tui.theme",
					Label:       "Theme",
					Description: "Color theme for the board",
					Type:        "select",
					Options:     config.ValidThemes(),
					Category:    "tui",
				},
			},
		},
		{
			Name: "Export",
			Items: []ConfigItem{
				{
					Key:         "export.default_format",
					Label:       "Default Format",
					Description: "Format used when 'board export' gets no --format",
					Type:        "select",
					Options:     config.ValidExportFormats(),
					Category:    "export",
				},
			},
		},
	}

	return Model{
		categories: categories,
		textInput:  ti,
		configFile: configFile,
		styles:     styles.ForTheme(viper.GetString("tui.theme")),
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureSelectionVisible(m.availableLines())
		return m, nil

	case tea.KeyMsg:
		// Clear messages on any key
		m.errorMsg = ""
		m.infoMsg = ""

		if m.editing {
			return m.handleEditingKeypress(msg)
		}

		switch msg.String() {
		case "q", "ctrl+c":
			if m.configModified {
				m.infoMsg = "Changes saved!"
			}
			m.quitting = true
			return m, tea.Quit

		case "up", "k":
			m.moveSelection(-1)

		case "down", "j":
			m.moveSelection(1)

		case "ctrl+u", "pgup":
			m.moveSelection(-max(1, m.availableLines()/2))

		case "ctrl+d", "pgdown":
			m.moveSelection(max(1, m.availableLines()/2))

		case "g", "home":
			m.categoryIndex, m.itemIndex = 0, 0

		case "G", "end":
			m.categoryIndex = len(m.categories) - 1
			m.itemIndex = len(m.categories[m.categoryIndex].Items) - 1

		case "tab":
			// Move to next category
			m.categoryIndex++
			if m.categoryIndex >= len(m.categories) {
				m.categoryIndex = 0
			}
			m.itemIndex = 0

		case "shift+tab":
			// Move to previous category
			m.categoryIndex--
			if m.categoryIndex < 0 {
				m.categoryIndex = len(m.categories) - 1
			}
			m.itemIndex = 0

		case "enter", " ":
			item := m.currentItem()
			switch item.Type {
			case "bool":
				// Toggle boolean directly
				m.apply(item, !viper.GetBool(item.Key))
			case "select":
				// Enter selection mode
				m.editing = true
				m.selectIndex = m.getCurrentSelectIndex()
			default:
				// Enter edit mode for int/string
				m.editing = true
				m.textInput.EchoMode = textinput.EchoNormal
				if item.Type == "secret" {
					m.textInput.EchoMode = textinput.EchoPassword
				}
				m.textInput.SetValue(m.getCurrentValue())
				m.textInput.CursorEnd()
				cmd = m.textInput.Focus()
			}

		case "r":
			// Reset current item to default
			m.resetCurrentToDefault()
		}
		m.ensureSelectionVisible(m.availableLines())
	}

	return m, cmd
}

func (m Model) handleEditingKeypress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	item := m.currentItem()

	switch msg.String() {
	case "esc":
		m.editing = false
		m.textInput.SetValue("")
		return m, nil

	case "enter":
		if item.Type == "select" {
			// Apply selected option
			if m.apply(item, item.Options[m.selectIndex]) {
				m.editing = false
			}
		} else {
			// Validate and apply text input
			value, err := parseValue(item, m.textInput.Value())
			if err != nil {
				m.errorMsg = err.Error()
				return m, nil
			}
			if m.apply(item, value) {
				m.editing = false
				m.textInput.SetValue("")
			}
		}
		return m, nil

	case "up", "k":
		if item.Type == "select" {
			m.selectIndex--
			if m.selectIndex < 0 {
				m.selectIndex = len(item.Options) - 1
			}
			return m, nil
		}

	case "down", "j":
		if item.Type == "select" {
			m.selectIndex++
			if m.selectIndex >= len(item.Options) {
				m.selectIndex = 0
			}
			return m, nil
		}
	}

	// Handle text input
	if item.Type != "select" {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

// moveSelection moves the cursor delta items through the flattened list,
// crossing category boundaries and wrapping at either end.
func (m *Model) moveSelection(delta int) {
	total := 0
	flat := 0
	for ci, cat := range m.categories {
		if ci == m.categoryIndex {
			flat = total + m.itemIndex
		}
		total += len(cat.Items)
	}
	if total == 0 {
		return
	}

	switch {
	case delta == 1 || delta == -1:
		flat = ((flat+delta)%total + total) % total
	default:
		// Paging stops at the ends instead of wrapping.
		flat = min(max(flat+delta, 0), total-1)
	}

	for ci, cat := range m.categories {
		if flat < len(cat.Items) {
			m.categoryIndex, m.itemIndex = ci, flat
			return
		}
		flat -= len(cat.Items)
	}
}

// availableLines is the number of item lines that fit on screen once the
// header, description and help bar are drawn.
func (m Model) availableLines() int {
	return max(5, m.height-12)
}

// totalLines counts the lines of the category list: a header and a
// trailing blank line per category plus one line per item.
func (m Model) totalLines() int {
	n := 0
	for _, cat := range m.categories {
		n += len(cat.Items) + 2
	}
	return n
}

// currentSelectionLine is the line of the selected item within the
// category list.
func (m Model) currentSelectionLine() int {
	line := 0
	for ci, cat := range m.categories {
		if ci == m.categoryIndex {
			return line + 1 + m.itemIndex
		}
		line += len(cat.Items) + 2
	}
	return line
}

// ensureSelectionVisible adjusts scrollOffset so the selected line lies
// within a viewport of availableLines lines.
func (m *Model) ensureSelectionVisible(availableLines int) {
	line := m.currentSelectionLine()
	if line < m.scrollOffset {
		// Keep the category header in view when scrolling up to its first item.
		m.scrollOffset = line
		if m.itemIndex == 0 {
			m.scrollOffset = max(0, line-1)
		}
	}
	if line >= m.scrollOffset+availableLines {
		m.scrollOffset = line - availableLines + 1
	}
	m.scrollOffset = max(0, min(m.scrollOffset, m.totalLines()-availableLines))
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.width == 0 {
		return "Loading..."
	}

	st := m.styles
	var b strings.Builder

	// Header
	header := st.Header.Width(m.width - 4).Render("Taskboard Configuration")
	b.WriteString(header)
	b.WriteString("\n")

	// Config file path
	configPath := m.configFile
	if _, err := os.Stat(configPath); err != nil {
		configPath += " (not created)"
	}
	b.WriteString(st.Muted.Render(fmt.Sprintf("Config file: %s", configPath)))
	b.WriteString("\n\n")

	// Categories and items, windowed to the viewport
	var lines []string
	for ci, cat := range m.categories {
		isActiveCategory := ci == m.categoryIndex

		// Category header
		catStyle := st.Muted.Bold(true)
		if isActiveCategory {
			catStyle = st.Primary.Bold(true)
		}
		lines = append(lines, catStyle.Render(fmt.Sprintf("[ %s ]", cat.Name)))

		for ii, item := range cat.Items {
			isSelected := isActiveCategory && ii == m.itemIndex
			lines = append(lines, m.renderItem(item, isSelected))
		}
		lines = append(lines, "")
	}

	available := m.availableLines()
	start := min(m.scrollOffset, len(lines))
	end := min(start+available, len(lines))
	if start > 0 {
		b.WriteString(st.Muted.Render(fmt.Sprintf("  ▲ %d more", start)))
	}
	b.WriteString("\n")
	for _, line := range lines[start:end] {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if end < len(lines) {
		b.WriteString(st.Muted.Render(fmt.Sprintf("  ▼ %d more", len(lines)-end)))
	}
	b.WriteString("\n")

	// Edit overlay or description
	if m.editing {
		b.WriteString(m.renderEditOverlay())
	} else {
		// Show description for current item
		item := m.currentItem()
		b.WriteString(st.Muted.Render(item.Description))
		b.WriteString("\n")
	}

	// Error/Info messages
	if m.errorMsg != "" {
		b.WriteString("\n")
		b.WriteString(st.ErrorMsg.Render("Error: " + m.errorMsg))
	}
	if m.infoMsg != "" {
		b.WriteString("\n")
		b.WriteString(st.SuccessMsg.Render(m.infoMsg))
	}

	// Help bar
	b.WriteString("\n")
	b.WriteString(m.renderHelp())

	return b.String()
}

func (m Model) renderItem(item ConfigItem, selected bool) string {
	st := m.styles
	value := m.getDisplayValue(item)

	// Build the line
	label := item.Label
	if len(label) > 25 {
		label = label[:22] + "..."
	}

	// Pad label to align values
	paddedLabel := fmt.Sprintf("%-25s", label)

	if selected {
		cursor := st.Secondary.Render(">")
		labelStyled := st.Text.Bold(true).Render(paddedLabel)
		valueStyled := st.Primary.Render(value)
		return fmt.Sprintf("  %s %s  %s", cursor, labelStyled, valueStyled)
	}
	labelStyled := st.Muted.Render(paddedLabel)
	valueStyled := st.Text.Render(value)
	return fmt.Sprintf("    %s  %s", labelStyled, valueStyled)
}

func (m Model) renderEditOverlay() string {
	st := m.styles
	item := m.currentItem()

	var content strings.Builder
	if item.Type == "select" {
		fmt.Fprintf(&content, "Select %s:\n\n", item.Label)
		for i, opt := range item.Options {
			if i == m.selectIndex {
				content.WriteString(st.DropdownItemSelected.Render(fmt.Sprintf(" > %s ", opt)))
			} else {
				content.WriteString(st.DropdownItem.Render(fmt.Sprintf("   %s ", opt)))
			}
			content.WriteString("\n")
		}
		content.WriteString("\n" + st.Muted.Render("j/k or arrows to select, enter to confirm, esc to cancel"))
	} else {
		fmt.Fprintf(&content, "Edit %s:\n\n", item.Label)
		content.WriteString(m.textInput.View())
		content.WriteString("\n\n" + st.Muted.Render("enter to save, esc to cancel"))
	}

	return "\n" + st.InputBox.Padding(1, 2).Width(50).Render(content.String())
}

func (m Model) renderHelp() string {
	helpStyle := m.styles.HelpBar
	keyStyle := m.styles.HelpKey

	if m.editing {
		return helpStyle.Render(
			keyStyle.Render("enter") + " save  " +
				keyStyle.Render("esc") + " cancel",
		)
	}

	return helpStyle.Render(
		keyStyle.Render("j/k") + " navigate  " +
			keyStyle.Render("tab") + " next category  " +
			keyStyle.Render("enter/space") + " edit  " +
			keyStyle.Render("r") + " reset  " +
			keyStyle.Render("q") + " quit",
	)
}

func (m Model) currentItem() ConfigItem {
	return m.categories[m.categoryIndex].Items[m.itemIndex]
}

func (m Model) getCurrentValue() string {
	item := m.currentItem()
	switch item.Type {
	case "bool":
		return strconv.FormatBool(viper.GetBool(item.Key))
	case "int":
		return strconv.Itoa(viper.GetInt(item.Key))
	default:
		return viper.GetString(item.Key)
	}
}

func (m Model) getDisplayValue(item ConfigItem) string {
	switch item.Type {
	case "bool":
		return strconv.FormatBool(viper.GetBool(item.Key))
	case "int":
		return strconv.Itoa(viper.GetInt(item.Key))
	case "secret":
		if viper.GetString(item.Key) == "" {
			return "(not set)"
		}
		return "********"
	default:
		if v := viper.GetString(item.Key); v != "" {
			return v
		}
		return "(empty)"
	}
}

func (m Model) getCurrentSelectIndex() int {
	item := m.currentItem()
	current := viper.GetString(item.Key)
	for i, opt := range item.Options {
		if opt == current {
			return i
		}
	}
	return 0
}

// parseValue converts text typed into the editor to the item's type.
func parseValue(item ConfigItem, value string) (any, error) {
	switch item.Type {
	case "int":
		intVal, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("expected integer value")
		}
		if intVal < 0 {
			return nil, fmt.Errorf("value must be non-negative")
		}
		return intVal, nil
	case "bool":
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("expected true or false")
		}
		return b, nil
	default:
		return value, nil
	}
}

// apply sets item to value, validates the whole configuration and saves
// it. An invalid value is rolled back and reported.
func (m *Model) apply(item ConfigItem, value any) bool {
	previous := viper.Get(item.Key)
	viper.Set(item.Key, value)

	if _, err := config.Load(); err != nil {
		if msg, ok := validationErrorFor(err, item.Key); ok {
			viper.Set(item.Key, previous)
			m.errorMsg = msg
			return false
		}
	}

	m.saveConfig()
	if item.Key == "tui.theme" {
		m.styles = styles.ForTheme(viper.GetString("tui.theme"))
	}
	return true
}

// validationErrorFor returns the validation message for key. Errors in
// other fields do not block saving key.
func validationErrorFor(err error, key string) (string, bool) {
	var errs config.ValidationErrors
	if !errors.As(err, &errs) {
		return err.Error(), true
	}
	for _, e := range errs {
		if e.Field == key {
			return e.Message, true
		}
	}
	return "", false
}

func (m *Model) saveConfig() {
	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(m.configFile), 0755); err != nil {
		m.errorMsg = fmt.Sprintf("Failed to create config directory: %v", err)
		return
	}

	if err := viper.WriteConfigAs(m.configFile); err != nil {
		m.errorMsg = fmt.Sprintf("Failed to save config: %v", err)
		return
	}

	m.infoMsg = "Saved!"
	m.configModified = true
}

func (m *Model) resetCurrentToDefault() {
	item := m.currentItem()
	defaults := config.Default()

	// Map of keys to default values
	defaultValues := map[string]any{
		// Store
		"store.backend":     defaults.Store.Backend,
		"store.dir":         defaults.Store.Dir,
		"store.tasks_key":   defaults.Store.TasksKey,
		"store.columns_key": defaults.Store.ColumnsKey,
		"store.timeout_ms":  defaults.Store.TimeoutMs,
		// Redis
		"redis.addr":       defaults.Redis.Addr,
		"redis.password":   defaults.Redis.Password,
		"redis.db":         defaults.Redis.DB,
		"redis.key_prefix": defaults.Redis.KeyPrefix,
		// MySQL
		"mysql.dsn":   defaults.MySQL.DSN,
		"mysql.table": defaults.MySQL.Table,
		// Logging
		"logging.enabled":     defaults.Logging.Enabled,
		"logging.level":       defaults.Logging.Level,
		"logging.max_size_mb": defaults.Logging.MaxSizeMB,
		"logging.max_backups": defaults.Logging.MaxBackups,
		"logging.compress":    defaults.Logging.Compress,
		// TUI
		"tui.column_width":     defaults.TUI.ColumnWidth,
		"tui.show_description": defaults.TUI.ShowDescription,
		"tui.theme":            defaults.TUI.Theme,
		// Export
		"export.default_format": defaults.Export.DefaultFormat,
	}

	if defaultVal, ok := defaultValues[item.Key]; ok {
		if m.apply(item, defaultVal) {
			m.infoMsg = fmt.Sprintf("Reset %s to default", item.Label)
		}
	}
}

// Run starts the interactive config UI
func Run(configFile string) error {
	p := tea.NewProgram(New(configFile), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
