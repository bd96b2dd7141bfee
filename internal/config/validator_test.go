package config

import (
	"strings"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{
		Field:   "test.field",
		Value:   123,
		Message: "must be greater than zero",
	}

	expected := "test.field: must be greater than zero (got: 123)"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	t.Run("empty errors", func(t *testing.T) {
		var errs ValidationErrors
		if errs.Error() != "" {
			t.Errorf("Error() for empty = %q, want empty string", errs.Error())
		}
	})

	t.Run("single error", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "test.field", Value: 123, Message: "is invalid"},
		}
		expected := "test.field: is invalid (got: 123)"
		if errs.Error() != expected {
			t.Errorf("Error() = %q, want %q", errs.Error(), expected)
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "field1", Value: "bad", Message: "is invalid"},
			{Field: "field2", Value: -1, Message: "must be positive"},
		}
		result := errs.Error()
		if !strings.Contains(result, "2 validation errors") {
			t.Errorf("Error() should mention 2 errors: %s", result)
		}
		if !strings.Contains(result, "field1") || !strings.Contains(result, "field2") {
			t.Errorf("Error() should mention both fields: %s", result)
		}
	})
}

func TestConfig_Validate_DefaultConfig(t *testing.T) {
	cfg := Default()
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("Default config should be valid, got errors: %v", errs)
	}
}

// fieldsOf returns the Field of every error for easy assertions.
func fieldsOf(errs []ValidationError) []string {
	fields := make([]string, len(errs))
	for i, e := range errs {
		fields[i] = e.Field
	}
	return fields
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name       string
		modify     func(*Config)
		wantFields []string
	}{
		{
			name:   "memory backend",
			modify: func(c *Config) { c.Store.Backend = "memory" },
		},
		{
			name:       "unknown backend",
			modify:     func(c *Config) { c.Store.Backend = "sqlite" },
			wantFields: []string{"store.backend"},
		},
		{
			name:       "empty tasks key",
			modify:     func(c *Config) { c.Store.TasksKey = "" },
			wantFields: []string{"store.tasks_key"},
		},
		{
			name:       "path-like columns key",
			modify:     func(c *Config) { c.Store.ColumnsKey = "../columns" },
			wantFields: []string{"store.columns_key"},
		},
		{
			name: "keys collide",
			modify: func(c *Config) {
				c.Store.ColumnsKey = c.Store.TasksKey
			},
			wantFields: []string{"store.columns_key"},
		},
		{
			name:       "zero timeout",
			modify:     func(c *Config) { c.Store.TimeoutMs = 0 },
			wantFields: []string{"store.timeout_ms"},
		},
		{
			name: "redis without addr",
			modify: func(c *Config) {
				c.Store.Backend = "redis"
				c.Redis.Addr = " "
			},
			wantFields: []string{"redis.addr"},
		},
		{
			name: "redis db out of range",
			modify: func(c *Config) {
				c.Store.Backend = "redis"
				c.Redis.DB = 16
			},
			wantFields: []string{"redis.db"},
		},
		{
			name:   "redis settings ignored for file backend",
			modify: func(c *Config) { c.Redis.Addr = "" },
		},
		{
			name: "mysql without dsn",
			modify: func(c *Config) {
				c.Store.Backend = "mysql"
			},
			wantFields: []string{"mysql.dsn"},
		},
		{
			name: "mysql bad table",
			modify: func(c *Config) {
				c.Store.Backend = "mysql"
				c.MySQL.DSN = "u:p@tcp(db:3306)/board"
				c.MySQL.Table = "kv; DROP TABLE users"
			},
			wantFields: []string{"mysql.table"},
		},
		{
			name: "mysql valid",
			modify: func(c *Config) {
				c.Store.Backend = "mysql"
				c.MySQL.DSN = "u:p@tcp(db:3306)/board"
			},
		},
		{
			name:       "bad log level",
			modify:     func(c *Config) { c.Logging.Level = "verbose" },
			wantFields: []string{"logging.level"},
		},
		{
			name:       "log size zero",
			modify:     func(c *Config) { c.Logging.MaxSizeMB = 0 },
			wantFields: []string{"logging.max_size_mb"},
		},
		{
			name:       "log size too large",
			modify:     func(c *Config) { c.Logging.MaxSizeMB = 2000 },
			wantFields: []string{"logging.max_size_mb"},
		},
		{
			name:       "negative backups",
			modify:     func(c *Config) { c.Logging.MaxBackups = -1 },
			wantFields: []string{"logging.max_backups"},
		},
		{
			name:       "column too narrow",
			modify:     func(c *Config) { c.TUI.ColumnWidth = 8 },
			wantFields: []string{"tui.column_width"},
		},
		{
			name:       "column too wide",
			modify:     func(c *Config) { c.TUI.ColumnWidth = 200 },
			wantFields: []string{"tui.column_width"},
		},
		{
			name:       "unknown theme",
			modify:     func(c *Config) { c.TUI.Theme = "Nord" },
			wantFields: []string{"tui.theme"},
		},
		{
			name:       "bad export format",
			modify:     func(c *Config) { c.Export.DefaultFormat = "xlsx" },
			wantFields: []string{"export.default_format"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			got := fieldsOf(cfg.Validate())

			if len(got) != len(tt.wantFields) {
				t.Fatalf("Validate() fields = %v, want %v", got, tt.wantFields)
			}
			for i := range got {
				if got[i] != tt.wantFields[i] {
					t.Errorf("field[%d] = %q, want %q", i, got[i], tt.wantFields[i])
				}
			}
		})
	}
}

func TestConfig_Validate_MultipleErrors(t *testing.T) {
	cfg := Default()
	cfg.Store.Backend = "nope"
	cfg.Logging.Level = "loud"
	cfg.TUI.ColumnWidth = 1

	errs := cfg.Validate()
	if len(errs) != 3 {
		t.Errorf("expected 3 errors, got %d: %v", len(errs), errs)
	}
}

func TestValidLists(t *testing.T) {
	if len(ValidStoreBackends()) != 4 {
		t.Errorf("ValidStoreBackends() = %v", ValidStoreBackends())
	}
	if len(ValidLogLevels()) != 4 {
		t.Errorf("ValidLogLevels() = %v", ValidLogLevels())
	}
	if len(ValidThemes()) != 4 {
		t.Errorf("ValidThemes() = %v", ValidThemes())
	}
	if len(ValidExportFormats()) != 4 {
		t.Errorf("ValidExportFormats() = %v", ValidExportFormats())
	}
}
