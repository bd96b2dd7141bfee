// Package config provides CLI commands for managing taskboard configuration.
package config

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	appconfig "github.com/Iron-Ham/taskboard/internal/config"
	apperrors "github.com/Iron-Ham/taskboard/internal/errors"
	tuiconfig "github.com/Iron-Ham/taskboard/internal/tui/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Wrapper functions for exec to allow testing
var execLookPath = exec.LookPath
var execCommand = exec.Command

// runEditor is swapped out in tests.
var runEditor = tuiconfig.Run

// setting describes one configurable key.
type setting struct {
	key   string
	kind  string // string, secret, bool, int
	usage string
}

// settings lists every key "config set" and "config reset" accept, in the
// order "config show" prints them.
var settings = []setting{
	{"store.backend", "string", "Persistence backend: file, memory, redis, mysql"},
	{"store.dir", "string", "Data directory for the file backend and logs"},
	{"store.tasks_key", "string", "Key the task list is stored under"},
	{"store.columns_key", "string", "Key the column list is stored under"},
	{"store.timeout_ms", "int", "Timeout for each store read or write"},
	{"redis.addr", "string", "Redis server address (host:port)"},
	{"redis.password", "secret", "Redis password"},
	{"redis.db", "int", "Redis database number"},
	{"redis.key_prefix", "string", "Prefix for redis keys"},
	{"mysql.dsn", "secret", "MySQL DSN, e.g. user:pass@tcp(host:3306)/db"},
	{"mysql.table", "string", "Key/value table name"},
	{"logging.enabled", "bool", "Write a log file (true/false)"},
	{"logging.level", "string", "Minimum level: debug, info, warn, error"},
	{"logging.max_size_mb", "int", "Rotate the log file at this size"},
	{"logging.max_backups", "int", "Rotated log files to keep"},
	{"logging.compress", "bool", "Gzip rotated log files (true/false)"},
	{"tui.column_width", "int", "Column width in the board view"},
	{"tui.show_description", "bool", "Show task descriptions (true/false)"},
	{"tui.theme", "string", "Color theme: default, nord, dracula, gruvbox"},
	{"export.default_format", "string", "Export format: json, yaml, csv, pdf"},
}

func lookupSetting(key string) (setting, bool) {
	for _, s := range settings {
		if s.key == key {
			return s, true
		}
	}
	return setting{}, false
}

func unknownKey(key string) error {
	return apperrors.NewValidationError(fmt.Sprintf("unknown configuration key: %s\nRun 'taskboard config set --help' to see valid keys", key)).
		WithField("key").WithValue(key)
}

// Register adds all config-related commands to the given parent command.
// This is the main entry point for integrating the config subpackage with
// the root command.
func Register(parent *cobra.Command) {
	parent.AddCommand(newConfigCmd())
}

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "View or modify taskboard configuration",
		Long: `View or modify taskboard configuration.

Without arguments, opens an interactive configuration UI.
Use 'config show' to display configuration non-interactively.
Use subcommands to modify settings or create a config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEditor(configPath())
		},
	}

	var keyHelp strings.Builder
	for _, s := range settings {
		fmt.Fprintf(&keyHelp, "  %-24s - %s\n", s.key, s.usage)
	}

	configCmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show current configuration",
			Args:  cobra.NoArgs,
			RunE:  runConfigShow,
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Set a configuration value",
			Long: `Set a configuration value in the config file.

Keys use dot notation, e.g.:
  taskboard config set store.backend redis
  taskboard config set tui.column_width 32
  taskboard config set logging.level debug

Valid keys:
` + keyHelp.String(),
			Args: cobra.ExactArgs(2),
			RunE: runConfigSet,
		},
		&cobra.Command{
			Use:   "init",
			Short: "Create a default config file",
			Long:  `Create a default config file at ~/.config/taskboard/config.yaml with all available options.`,
			Args:  cobra.NoArgs,
			RunE:  runConfigInit,
		},
		&cobra.Command{
			Use:   "path",
			Short: "Show the config file path",
			Args:  cobra.NoArgs,
			RunE:  runConfigPath,
		},
		&cobra.Command{
			Use:   "edit",
			Short: "Open config file in your editor",
			Long: `Open the config file in your preferred editor.

Uses $EDITOR environment variable, or falls back to common editors (vim, nano, vi).
If no config file exists, creates one with default values first.`,
			Args: cobra.NoArgs,
			RunE: runConfigEdit,
		},
		&cobra.Command{
			Use:   "reset [key]",
			Short: "Reset configuration to defaults",
			Long: `Reset configuration values to their defaults.

Without arguments, resets all configuration to defaults.
With a key argument, resets only that specific key.

Examples:
  taskboard config reset                # Reset all to defaults
  taskboard config reset tui.theme      # Reset only tui.theme to default`,
			Args: cobra.MaximumNArgs(1),
			RunE: runConfigReset,
		},
		newThemeCmd(),
	)
	return configCmd
}

// configPath is the file commands write to: the file in use, or the
// default location.
func configPath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return appconfig.ConfigFile()
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out)

	// Show where config is being read from
	if used := viper.ConfigFileUsed(); used != "" {
		if _, err := os.Stat(used); err == nil {
			fmt.Fprintf(out, "Config file: %s\n", used)
		} else {
			fmt.Fprintf(out, "Config file: %s (not created - using defaults)\n", used)
		}
	} else {
		fmt.Fprintf(out, "Config file: (none - using defaults)\n")
	}
	fmt.Fprintln(out)

	if _, err := appconfig.Load(); err != nil {
		fmt.Fprintf(out, "Warning: %v\n\n", err)
	}

	section := ""
	for _, s := range settings {
		group, name, _ := strings.Cut(s.key, ".")
		if group != section {
			fmt.Fprintf(out, "%s:\n", group)
			section = group
		}
		fmt.Fprintf(out, "  %s: %s\n", name, displayValue(s))
	}
	return nil
}

func displayValue(s setting) string {
	value := viper.GetString(s.key)
	if s.kind == "secret" {
		if value == "" {
			return "(not set)"
		}
		return "********"
	}
	return value
}

// parseSetting converts a command-line value to the type viper should hold.
func parseSetting(s setting, value string) (any, error) {
	switch s.kind {
	case "bool":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("invalid value for %s: expected true or false", s.key)).WithField(s.key).WithValue(value)
		}
		return b, nil
	case "int":
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("invalid value for %s: expected integer", s.key)).WithField(s.key).WithValue(value)
		}
		return n, nil
	default:
		return value, nil
	}
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	s, ok := lookupSetting(key)
	if !ok {
		return unknownKey(key)
	}
	typedValue, err := parseSetting(s, value)
	if err != nil {
		return err
	}

	previous := viper.Get(key)
	viper.Set(key, typedValue)
	if _, err := appconfig.Load(); err != nil {
		if msg, bad := validationErrorFor(err, key); bad {
			viper.Set(key, previous)
			return apperrors.NewValidationError("invalid value for " + msg).WithField(key).WithValue(value)
		}
	}

	configFile, err := writeConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Set %s = %s\n", key, displayValue(s))
	fmt.Fprintf(out, "Config saved to %s\n", configFile)
	return nil
}

// validationErrorFor returns the message of the validation error reported
// for key, if any.
func validationErrorFor(err error, key string) (string, bool) {
	var errs appconfig.ValidationErrors
	if !apperrors.As(err, &errs) {
		return "", false
	}
	for _, e := range errs {
		if e.Field == key {
			return e.Error(), true
		}
	}
	return "", false
}

// writeConfig saves every viper setting to the config file.
func writeConfig() (string, error) {
	configFile := configPath()

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(configFile), 0o755); err != nil {
		return "", apperrors.Wrap(err, "failed to create config directory")
	}
	if err := viper.WriteConfigAs(configFile); err != nil {
		return "", apperrors.Wrap(err, "failed to write config file")
	}
	return configFile, nil
}

// defaultConfig is written by "config init".
const defaultConfig = `# Taskboard Configuration

# Where the board is saved
store:
  # Backend: file, memory, redis or mysql
  backend: file
  # Data directory for the file backend and log file
  # (default: ~/.local/share/taskboard)
  dir: ""
  # Keys the task and column lists are stored under
  tasks_key: kanban-tasks
  columns_key: kanban-columns
  # Timeout for each store read or write, in milliseconds
  timeout_ms: 5000

# Redis backend settings
redis:
  addr: localhost:6379
  password: ""
  db: 0
  key_prefix: "taskboard:"

# MySQL backend settings
mysql:
  # e.g. user:pass@tcp(localhost:3306)/taskboard
  dsn: ""
  table: taskboard_kv

# Log file settings
logging:
  enabled: true
  # debug, info, warn or error
  level: info
  max_size_mb: 5
  max_backups: 3
  compress: false

# Interactive board settings
tui:
  # Width of each column (16-80)
  column_width: 28
  show_description: true
  # default, nord, dracula or gruvbox
  theme: default

# Export settings
export:
  # json, yaml, csv or pdf
  default_format: json
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configFile := configPath()

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil {
		return apperrors.New(fmt.Sprintf("config file already exists at %s\nUse 'taskboard config set' to modify values", configFile))
	}

	// Create config directory
	if err := os.MkdirAll(filepath.Dir(configFile), 0o755); err != nil {
		return apperrors.Wrap(err, "failed to create config directory")
	}

	if err := os.WriteFile(configFile, []byte(defaultConfig), 0o644); err != nil {
		return apperrors.Wrap(err, "failed to write config file")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created config file at %s\n", configFile)
	fmt.Fprintln(cmd.OutOrStdout(), "Edit this file to customize taskboard.")
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintf(out, "Active config: %s\n", used)
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", appconfig.ConfigFile())
	}

	// Also show config search paths
	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. %s\n", filepath.Join(appconfig.ConfigDir(), "config.yaml"))
	fmt.Fprintf(out, "  2. ./config.yaml (current directory)\n")
	fmt.Fprintln(out, "\nEnvironment variables: TASKBOARD_* (e.g., TASKBOARD_STORE_BACKEND)")
	return nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	configFile := configPath()

	// Check if config file exists, if not create it
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		fmt.Fprintln(cmd.OutOrStdout(), "Config file doesn't exist, creating with defaults...")
		if err := runConfigInit(cmd, args); err != nil {
			return err
		}
	}

	editor := findEditor()
	if editor == "" {
		return apperrors.New("no editor found. Set $EDITOR environment variable")
	}

	editorCmd := execCommand(editor, configFile)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	if err := editorCmd.Run(); err != nil {
		return apperrors.Wrap(err, "editor exited with error")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Config file saved: %s\n", configFile)
	return nil
}

// findEditor picks $EDITOR, then $VISUAL, then the first common editor on
// PATH.
func findEditor() string {
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	if editor := os.Getenv("VISUAL"); editor != "" {
		return editor
	}
	for _, e := range []string{"vim", "nano", "vi"} {
		if _, err := execLookPath(e); err == nil {
			return e
		}
	}
	return ""
}

func runConfigReset(cmd *cobra.Command, args []string) error {
	defaults := defaultValues()
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		for key, value := range defaults {
			viper.Set(key, value)
		}
		fmt.Fprintln(out, "Reset all configuration to defaults.")
	} else {
		key := args[0]
		value, ok := defaults[key]
		if !ok {
			return unknownKey(key)
		}
		viper.Set(key, value)
		fmt.Fprintf(out, "Reset %s to default: %v\n", key, value)
	}

	configFile, err := writeConfig()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Config saved to %s\n", configFile)
	return nil
}

// defaultValues maps every setting to its default.
func defaultValues() map[string]any {
	d := appconfig.Default()
	return map[string]any{
		"store.backend":         d.Store.Backend,
		"store.dir":             d.Store.Dir,
		"store.tasks_key":       d.Store.TasksKey,
		"store.columns_key":     d.Store.ColumnsKey,
		"store.timeout_ms":      d.Store.TimeoutMs,
		"redis.addr":            d.Redis.Addr,
		"redis.password":        d.Redis.Password,
		"redis.db":              d.Redis.DB,
		"redis.key_prefix":      d.Redis.KeyPrefix,
		"mysql.dsn":             d.MySQL.DSN,
		"mysql.table":           d.MySQL.Table,
		"logging.enabled":       d.Logging.Enabled,
		"logging.level":         d.Logging.Level,
		"logging.max_size_mb":   d.Logging.MaxSizeMB,
		"logging.max_backups":   d.Logging.MaxBackups,
		"logging.compress":      d.Logging.Compress,
		"tui.column_width":      d.TUI.ColumnWidth,
		"tui.show_description":  d.TUI.ShowDescription,
		"tui.theme":             d.TUI.Theme,
		"export.default_format": d.Export.DefaultFormat,
	}
}
