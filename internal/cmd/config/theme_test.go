package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestThemeList(t *testing.T) {
	setupConfig(t)

	out, err := execute(t, "config", "set", "tui.theme", "nord")
	if err != nil {
		t.Fatalf("config set error = %v\n%s", err, out)
	}
	out, err = execute(t, "config", "theme", "list")
	if err != nil {
		t.Fatalf("theme list error = %v", err)
	}
	for _, want := range []string{"- default", "* nord (current)", "- dracula", "- gruvbox"} {
		if !strings.Contains(out, want) {
			t.Errorf("theme list missing %q\n%s", want, out)
		}
	}
}

func TestThemeInfo(t *testing.T) {
	setupConfig(t)

	out, err := execute(t, "config", "theme", "info", "dracula")
	if err != nil {
		t.Fatalf("theme info error = %v", err)
	}
	for _, want := range []string{"Theme: dracula", "Primary:", "High:"} {
		if !strings.Contains(out, want) {
			t.Errorf("theme info missing %q\n%s", want, out)
		}
	}
}

func TestThemeUnknown(t *testing.T) {
	setupConfig(t)

	for _, sub := range []string{"info", "export"} {
		if _, err := execute(t, "config", "theme", sub, "solarized"); err == nil {
			t.Errorf("theme %s accepted an unknown theme", sub)
		}
	}
}

func TestThemeExport(t *testing.T) {
	setupConfig(t)
	outputPath := filepath.Join(t.TempDir(), "exported.yaml")

	if _, err := execute(t, "config", "theme", "export", "gruvbox", outputPath); err != nil {
		t.Fatalf("theme export error = %v", err)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("Failed to read output file: %v", err)
	}
	var got themeFile
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatalf("exported theme is not YAML: %v", err)
	}
	if got.Name != "gruvbox" {
		t.Errorf("Name = %q, want gruvbox", got.Name)
	}
	if got.Colors["primary"] == "" || got.Colors["priority_high"] == "" {
		t.Errorf("exported colors incomplete: %v", got.Colors)
	}
}

func TestThemeExportStdout(t *testing.T) {
	setupConfig(t)

	out, err := execute(t, "config", "theme", "export", "default")
	if err != nil {
		t.Fatalf("theme export error = %v", err)
	}
	if !strings.Contains(out, "primary:") {
		t.Errorf("stdout export missing primary color\n%s", out)
	}
}
