package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Store.Backend != "file" {
		t.Errorf("Store.Backend = %q, want %q", cfg.Store.Backend, "file")
	}
	if cfg.Store.TasksKey != "kanban-tasks" {
		t.Errorf("Store.TasksKey = %q, want %q", cfg.Store.TasksKey, "kanban-tasks")
	}
	if cfg.Store.ColumnsKey != "kanban-columns" {
		t.Errorf("Store.ColumnsKey = %q, want %q", cfg.Store.ColumnsKey, "kanban-columns")
	}
	if cfg.Store.TimeoutMs != 5000 {
		t.Errorf("Store.TimeoutMs = %d, want 5000", cfg.Store.TimeoutMs)
	}
	if cfg.Redis.KeyPrefix != "taskboard:" {
		t.Errorf("Redis.KeyPrefix = %q, want %q", cfg.Redis.KeyPrefix, "taskboard:")
	}
	if cfg.MySQL.Table != "taskboard_kv" {
		t.Errorf("MySQL.Table = %q, want %q", cfg.MySQL.Table, "taskboard_kv")
	}
	if !cfg.Logging.Enabled {
		t.Error("Logging.Enabled should default to true")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.TUI.ColumnWidth != 28 {
		t.Errorf("TUI.ColumnWidth = %d, want 28", cfg.TUI.ColumnWidth)
	}
	if cfg.Export.DefaultFormat != "json" {
		t.Errorf("Export.DefaultFormat = %q, want %q", cfg.Export.DefaultFormat, "json")
	}
}

func TestStoreConfig_Timeout(t *testing.T) {
	cfg := StoreConfig{TimeoutMs: 250}
	if got := cfg.Timeout(); got != 250*time.Millisecond {
		t.Errorf("Timeout() = %v, want %v", got, 250*time.Millisecond)
	}
}

func TestStoreConfig_ResolveDir(t *testing.T) {
	t.Run("empty uses data dir", func(t *testing.T) {
		t.Setenv("XDG_DATA_HOME", "/custom/data")
		cfg := StoreConfig{}
		if got := cfg.ResolveDir(); got != "/custom/data/taskboard" {
			t.Errorf("ResolveDir() = %q, want %q", got, "/custom/data/taskboard")
		}
	})

	t.Run("absolute path kept", func(t *testing.T) {
		cfg := StoreConfig{Dir: "/srv/board"}
		if got := cfg.ResolveDir(); got != "/srv/board" {
			t.Errorf("ResolveDir() = %q, want %q", got, "/srv/board")
		}
	})

	t.Run("home expansion", func(t *testing.T) {
		home, err := os.UserHomeDir()
		if err != nil {
			t.Skip("no home directory")
		}
		cfg := StoreConfig{Dir: "~/boards"}
		want := filepath.Join(home, "boards")
		if got := cfg.ResolveDir(); got != want {
			t.Errorf("ResolveDir() = %q, want %q", got, want)
		}
	})

	t.Run("relative path made absolute", func(t *testing.T) {
		cfg := StoreConfig{Dir: "data"}
		got := cfg.ResolveDir()
		if !filepath.IsAbs(got) {
			t.Errorf("ResolveDir() = %q, want absolute path", got)
		}
	})
}

func TestConfigDir(t *testing.T) {
	t.Run("with XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		if got := ConfigDir(); got != "/custom/config/taskboard" {
			t.Errorf("ConfigDir() = %q, want %q", got, "/custom/config/taskboard")
		}
	})

	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		home, _ := os.UserHomeDir()
		want := filepath.Join(home, ".config", "taskboard")
		if got := ConfigDir(); got != want {
			t.Errorf("ConfigDir() = %q, want %q", got, want)
		}
	})
}

func TestConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	if got := ConfigFile(); got != "/custom/config/taskboard/config.yaml" {
		t.Errorf("ConfigFile() = %q, want %q", got, "/custom/config/taskboard/config.yaml")
	}
}

func TestDataDir(t *testing.T) {
	t.Run("with XDG_DATA_HOME", func(t *testing.T) {
		t.Setenv("XDG_DATA_HOME", "/custom/data")
		if got := DataDir(); got != "/custom/data/taskboard" {
			t.Errorf("DataDir() = %q, want %q", got, "/custom/data/taskboard")
		}
	})

	t.Run("without XDG_DATA_HOME", func(t *testing.T) {
		t.Setenv("XDG_DATA_HOME", "")
		home, _ := os.UserHomeDir()
		want := filepath.Join(home, ".local", "share", "taskboard")
		if got := DataDir(); got != want {
			t.Errorf("DataDir() = %q, want %q", got, want)
		}
	})
}

func TestGet(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()

	cfg := Get()
	if cfg == nil {
		t.Fatal("Get() returned nil")
	}
	if cfg.Store.Backend != "file" {
		t.Errorf("Get().Store.Backend = %q, want %q", cfg.Store.Backend, "file")
	}
}

func TestLoad_FromViper(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()

	viper.Set("store.backend", "redis")
	viper.Set("redis.addr", "cache:6380")
	viper.Set("tui.column_width", 40)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Store.Backend != "redis" {
		t.Errorf("Store.Backend = %q, want %q", cfg.Store.Backend, "redis")
	}
	if cfg.Redis.Addr != "cache:6380" {
		t.Errorf("Redis.Addr = %q, want %q", cfg.Redis.Addr, "cache:6380")
	}
	if cfg.TUI.ColumnWidth != 40 {
		t.Errorf("TUI.ColumnWidth = %d, want 40", cfg.TUI.ColumnWidth)
	}
	if cfg.Store.TasksKey != "kanban-tasks" {
		t.Errorf("Store.TasksKey = %q, want default", cfg.Store.TasksKey)
	}
}

func TestLoad_InvalidFallsBackInGet(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()
	viper.Set("store.backend", "sqlite")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should fail for unknown backend")
	}
	if got := Get().Store.Backend; got != "file" {
		t.Errorf("Get() backend = %q, want default %q", got, "file")
	}
}
