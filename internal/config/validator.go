package config

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "store.backend")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// storeKeyRegex restricts keys to names that are safe as file names,
// redis keys and SQL values alike.
var storeKeyRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*$`)

// tableNameRegex matches unquoted MySQL identifiers.
var tableNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,63}$`)

// ValidStoreBackends returns the list of valid store backends
func ValidStoreBackends() []string {
	return []string{"file", "memory", "redis", "mysql"}
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidThemes returns the list of built-in TUI color themes
func ValidThemes() []string {
	return []string{"default", "nord", "dracula", "gruvbox"}
}

// ValidExportFormats returns the list of valid export formats
func ValidExportFormats() []string {
	return []string{"json", "yaml", "csv", "pdf"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateStore()...)
	errors = append(errors, c.validateRedis()...)
	errors = append(errors, c.validateMySQL()...)
	errors = append(errors, c.validateLogging()...)
	errors = append(errors, c.validateTUI()...)
	errors = append(errors, c.validateExport()...)

	return errors
}

// validateStore validates the StoreConfig
func (c *Config) validateStore() []ValidationError {
	var errors []ValidationError

	if !slices.Contains(ValidStoreBackends(), c.Store.Backend) {
		errors = append(errors, ValidationError{
			Field:   "store.backend",
			Value:   c.Store.Backend,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidStoreBackends(), ", ")),
		})
	}

	keys := []struct{ field, value string }{
		{"store.tasks_key", c.Store.TasksKey},
		{"store.columns_key", c.Store.ColumnsKey},
	}
	for _, key := range keys {
		if !storeKeyRegex.MatchString(key.value) {
			errors = append(errors, ValidationError{
				Field:   key.field,
				Value:   key.value,
				Message: "must start with a letter or digit and contain only letters, digits, hyphens, and underscores",
			})
		}
	}

	if c.Store.TasksKey != "" && c.Store.TasksKey == c.Store.ColumnsKey {
		errors = append(errors, ValidationError{
			Field:   "store.columns_key",
			Value:   c.Store.ColumnsKey,
			Message: "must differ from store.tasks_key",
		})
	}

	if c.Store.TimeoutMs <= 0 {
		errors = append(errors, ValidationError{
			Field:   "store.timeout_ms",
			Value:   c.Store.TimeoutMs,
			Message: "must be positive",
		})
	}

	return errors
}

// validateRedis validates the RedisConfig when the redis backend is selected
func (c *Config) validateRedis() []ValidationError {
	var errors []ValidationError
	if c.Store.Backend != "redis" {
		return errors
	}

	if strings.TrimSpace(c.Redis.Addr) == "" {
		errors = append(errors, ValidationError{
			Field:   "redis.addr",
			Value:   c.Redis.Addr,
			Message: "is required when store.backend is redis",
		})
	}

	if c.Redis.DB < 0 || c.Redis.DB > 15 {
		errors = append(errors, ValidationError{
			Field:   "redis.db",
			Value:   c.Redis.DB,
			Message: "must be between 0 and 15",
		})
	}

	return errors
}

// validateMySQL validates the MySQLConfig when the mysql backend is selected
func (c *Config) validateMySQL() []ValidationError {
	var errors []ValidationError
	if c.Store.Backend != "mysql" {
		return errors
	}

	if strings.TrimSpace(c.MySQL.DSN) == "" {
		errors = append(errors, ValidationError{
			Field:   "mysql.dsn",
			Value:   c.MySQL.DSN,
			Message: "is required when store.backend is mysql",
		})
	}

	if !tableNameRegex.MatchString(c.MySQL.Table) {
		errors = append(errors, ValidationError{
			Field:   "mysql.table",
			Value:   c.MySQL.Table,
			Message: "must be a plain identifier (letters, digits, underscores)",
		})
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	if c.Logging.MaxSizeMB <= 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be positive",
		})
	}

	const maxLogSizeMB = 1000
	if c.Logging.MaxSizeMB > maxLogSizeMB {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: fmt.Sprintf("exceeds maximum of %dMB", maxLogSizeMB),
		})
	}

	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	return errors
}

// validateTUI validates the TUIConfig
func (c *Config) validateTUI() []ValidationError {
	var errors []ValidationError

	const minColumnWidth, maxColumnWidth = 16, 80
	if c.TUI.ColumnWidth < minColumnWidth || c.TUI.ColumnWidth > maxColumnWidth {
		errors = append(errors, ValidationError{
			Field:   "tui.column_width",
			Value:   c.TUI.ColumnWidth,
			Message: fmt.Sprintf("must be between %d and %d", minColumnWidth, maxColumnWidth),
		})
	}

	if !slices.Contains(ValidThemes(), c.TUI.Theme) {
		errors = append(errors, ValidationError{
			Field:   "tui.theme",
			Value:   c.TUI.Theme,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidThemes(), ", ")),
		})
	}

	return errors
}

// validateExport validates the ExportConfig
func (c *Config) validateExport() []ValidationError {
	var errors []ValidationError

	if !slices.Contains(ValidExportFormats(), c.Export.DefaultFormat) {
		errors = append(errors, ValidationError{
			Field:   "export.default_format",
			Value:   c.Export.DefaultFormat,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidExportFormats(), ", ")),
		})
	}

	return errors
}
