package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// appName names the config and data directories.
const appName = "taskboard"

// Config represents the complete taskboard configuration
type Config struct {
	Store   StoreConfig   `mapstructure:"store"`
	Redis   RedisConfig   `mapstructure:"redis"`
	MySQL   MySQLConfig   `mapstructure:"mysql"`
	Logging LoggingConfig `mapstructure:"logging"`
	TUI     TUIConfig     `mapstructure:"tui"`
	Export  ExportConfig  `mapstructure:"export"`
}

// StoreConfig selects and tunes the persistence backend
type StoreConfig struct {
	// Backend is one of "file", "memory", "redis", "mysql"
	Backend string `mapstructure:"backend"`
	// Dir is where the file backend keeps its files and where the log file
	// is written. Empty means DataDir(). Relative paths are resolved against
	// the working directory.
	Dir string `mapstructure:"dir"`
	// TasksKey is the key the task list is stored under
	TasksKey string `mapstructure:"tasks_key"`
	// ColumnsKey is the key the column list is stored under
	ColumnsKey string `mapstructure:"columns_key"`
	// TimeoutMs bounds every store read or write (in milliseconds)
	TimeoutMs int `mapstructure:"timeout_ms"`
}

// RedisConfig configures the redis backend
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	// KeyPrefix is prepended to the store keys
	KeyPrefix string `mapstructure:"key_prefix"`
}

// MySQLConfig configures the mysql backend
type MySQLConfig struct {
	// DSN in go-sql-driver/mysql format, e.g. user:pass@tcp(host:3306)/db
	DSN string `mapstructure:"dsn"`
	// Table holds the key/value rows; created if missing
	Table string `mapstructure:"table"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled writes a JSON log file into the data directory
	Enabled bool `mapstructure:"enabled"`
	// Level is the minimum level written: debug, info, warn, error
	Level string `mapstructure:"level"`
	// MaxSizeMB is the size at which the log file is rotated
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is how many rotated files are kept
	MaxBackups int `mapstructure:"max_backups"`
	// Compress gzips rotated files
	Compress bool `mapstructure:"compress"`
}

// TUIConfig controls the interactive board
type TUIConfig struct {
	// ColumnWidth is the width of each rendered column (min: 16, max: 80)
	ColumnWidth int `mapstructure:"column_width"`
	// ShowDescription renders task descriptions under their titles
	ShowDescription bool `mapstructure:"show_description"`
	// Theme is the color theme: default, nord, dracula, gruvbox
	Theme string `mapstructure:"theme"`
}

// ExportConfig controls board export
type ExportConfig struct {
	// DefaultFormat is used when --format is not given: json, yaml, csv, pdf
	DefaultFormat string `mapstructure:"default_format"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Backend:    "file",
			Dir:        "",
			TasksKey:   "kanban-tasks",
			ColumnsKey: "kanban-columns",
			TimeoutMs:  5000,
		},
		Redis: RedisConfig{
			Addr:      "localhost:6379",
			DB:        0,
			KeyPrefix: "taskboard:",
		},
		MySQL: MySQLConfig{
			DSN:   "",
			Table: "taskboard_kv",
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			MaxSizeMB:  5,
			MaxBackups: 3,
			Compress:   false,
		},
		TUI: TUIConfig{
			ColumnWidth:     28,
			ShowDescription: true,
			Theme:           "default",
		},
		Export: ExportConfig{
			DefaultFormat: "json",
		},
	}
}

// Timeout returns the per-operation store timeout as a time.Duration
func (c *StoreConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// ResolveDir returns the directory the file backend and log file use.
func (c *StoreConfig) ResolveDir() string {
	if c.Dir == "" {
		return DataDir()
	}
	if len(c.Dir) > 1 && c.Dir[0] == '~' && c.Dir[1] == '/' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, c.Dir[2:])
		}
	}
	if abs, err := filepath.Abs(c.Dir); err == nil {
		return abs
	}
	return c.Dir
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Store defaults
	viper.SetDefault("store.backend", defaults.Store.Backend)
	viper.SetDefault("store.dir", defaults.Store.Dir)
	viper.SetDefault("store.tasks_key", defaults.Store.TasksKey)
	viper.SetDefault("store.columns_key", defaults.Store.ColumnsKey)
	viper.SetDefault("store.timeout_ms", defaults.Store.TimeoutMs)

	// Redis defaults
	viper.SetDefault("redis.addr", defaults.Redis.Addr)
	viper.SetDefault("redis.password", defaults.Redis.Password)
	viper.SetDefault("redis.db", defaults.Redis.DB)
	viper.SetDefault("redis.key_prefix", defaults.Redis.KeyPrefix)

	// MySQL defaults
	viper.SetDefault("mysql.dsn", defaults.MySQL.DSN)
	viper.SetDefault("mysql.table", defaults.MySQL.Table)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
	viper.SetDefault("logging.compress", defaults.Logging.Compress)

	// TUI defaults
	viper.SetDefault("tui.column_width", defaults.TUI.ColumnWidth)
	viper.SetDefault("tui.show_description", defaults.TUI.ShowDescription)
	viper.SetDefault("tui.theme", defaults.TUI.Theme)

	// Export defaults
	viper.SetDefault("export.default_format", defaults.Export.DefaultFormat)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + appName
	}
	return filepath.Join(home, ".config", appName)
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DataDir returns the default directory for board data and logs
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + appName
	}
	return filepath.Join(home, ".local", "share", appName)
}
