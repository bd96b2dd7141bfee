package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func decodeLines(t *testing.T, data []byte) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("invalid JSON log line %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestNewLogger(t *testing.T) {
	t.Run("creates log file in directory", func(t *testing.T) {
		dir := t.TempDir()

		logger, err := NewLogger(dir, LevelDebug)
		if err != nil {
			t.Fatalf("NewLogger failed: %v", err)
		}
		defer logger.Close()

		logger.Info("hello")

		if _, err := os.Stat(filepath.Join(dir, FileName)); err != nil {
			t.Errorf("log file was not created: %v", err)
		}
	})

	t.Run("writes to stderr when dir is empty", func(t *testing.T) {
		logger, err := NewLogger("", LevelInfo)
		if err != nil {
			t.Fatalf("NewLogger failed: %v", err)
		}
		if logger.out != nil {
			t.Error("stderr logger should not own a closer")
		}
		if err := logger.Close(); err != nil {
			t.Errorf("Close() on stderr logger = %v, want nil", err)
		}
	})
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, LevelWarn)

	logger.Debug("debug msg")
	logger.Info("info msg")
	logger.Warn("warn msg")
	logger.Error("error msg")

	entries := decodeLines(t, buf.Bytes())
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries at WARN, got %d", len(entries))
	}
	if entries[0]["msg"] != "warn msg" || entries[1]["msg"] != "error msg" {
		t.Errorf("unexpected messages: %v, %v", entries[0]["msg"], entries[1]["msg"])
	}
}

func TestChildLoggers(t *testing.T) {
	var buf bytes.Buffer
	root := NewWriterLogger(&buf, LevelDebug)

	child := root.WithRun("run-1").WithComponent("board").With("backend", "file")
	child.Info("loaded", "tasks", 3)
	root.Info("plain")

	entries := decodeLines(t, buf.Bytes())
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	first := entries[0]
	for key, want := range map[string]any{"run_id": "run-1", "component": "board", "backend": "file", "tasks": float64(3)} {
		if first[key] != want {
			t.Errorf("entry[%q] = %v, want %v", key, first[key], want)
		}
	}
	if _, ok := entries[1]["run_id"]; ok {
		t.Error("parent logger should not inherit child attributes")
	}
}

func TestWithNoArgsReturnsSameLogger(t *testing.T) {
	logger := NopLogger()
	if logger.With() != logger {
		t.Error("With() with no args should return the receiver")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{" warn ", LevelWarn},
		{"warning", LevelWarn},
		{"Error", LevelError},
		{"", LevelInfo},
		{"verbose", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestValidLevels(t *testing.T) {
	levels := ValidLevels()
	if len(levels) != 4 {
		t.Fatalf("ValidLevels() returned %d levels, want 4", len(levels))
	}
	for _, l := range levels {
		if ParseLevel(l) != l {
			t.Errorf("ParseLevel(%q) should round-trip", l)
		}
	}
}

func TestCloseSharedAcrossChildren(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(dir, LevelInfo)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	child := logger.WithComponent("store")
	if err := child.Close(); err != nil {
		t.Fatalf("child Close() = %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("second Close() = %v, want nil", err)
	}
}

func TestConcurrentWrites(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(dir, LevelInfo)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				logger.Info("concurrent", "worker", n, "seq", j)
			}
		}(i)
	}
	wg.Wait()
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if got := len(decodeLines(t, data)); got != 200 {
		t.Errorf("expected 200 entries, got %d", got)
	}
}
