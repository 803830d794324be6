package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rupor-github/gencfg"

	"epubdeco/common"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}
}

func TestConfig_DefaultValues(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	e := cfg.Engine
	if e.HitTolerance != 1 {
		t.Errorf("HitTolerance = %v, want 1", e.HitTolerance)
	}
	if e.ActivableAttribute != "data-activable" {
		t.Errorf("ActivableAttribute = %q", e.ActivableAttribute)
	}
	if e.GroupIDPrefix != "r2-decoration-" {
		t.Errorf("GroupIDPrefix = %q", e.GroupIDPrefix)
	}
	if !e.Activation {
		t.Error("Activation should be enabled by default")
	}
	if e.CompareExtras {
		t.Error("CompareExtras should be disabled by default")
	}
	if e.Rects.MergeTolerance != 1 || e.Rects.MinArea != 4 || e.Rects.MergeLines {
		t.Errorf("unexpected rects defaults: %+v", e.Rects)
	}

	for _, id := range []string{"highlight", "underline"} {
		style, ok := cfg.Styles[id]
		if !ok {
			t.Fatalf("default style %q is missing", id)
		}
		if style.Layout != common.LayoutModeBoxes || style.Width != common.WidthPolicyWrap {
			t.Errorf("style %q: layout %s width %s", id, style.Layout, style.Width)
		}
		if !strings.Contains(style.Stylesheet, "--r2-decoration-tint") {
			t.Errorf("style %q stylesheet does not use tint property", id)
		}
		if !strings.HasPrefix(style.Element, "<div") {
			t.Errorf("style %q element = %q", id, style.Element)
		}
		if !strings.Contains(style.Element, cfg.Engine.ActivableAttribute+`="1"`) {
			t.Errorf("style %q element is not activable: %q", id, style.Element)
		}
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	path := writeConfig(t, `version: 1
engine:
  hit_tolerance: 2.5
  activation: false
  rects:
    merge_lines: true
styles:
  sidemark:
    layout: bounds
    width: page
    element: '<div class="sidemark" data-activable="1"/>'
logging:
  console:
    level: normal
  file:
    level: debug
    destination: /tmp/test.log
    mode: append
reporting:
  destination: /tmp/test-report.zip
`)

	cfg, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if cfg.Engine.HitTolerance != 2.5 {
		t.Errorf("HitTolerance = %v, want 2.5", cfg.Engine.HitTolerance)
	}
	if cfg.Engine.Activation {
		t.Error("Expected Activation to be false")
	}
	if !cfg.Engine.Rects.MergeLines {
		t.Error("Expected MergeLines to be true")
	}
	// values absent from the file come from the template
	if cfg.Engine.ActivableAttribute != "data-activable" {
		t.Errorf("ActivableAttribute = %q", cfg.Engine.ActivableAttribute)
	}
	if cfg.Engine.Rects.MinArea != 4 {
		t.Errorf("MinArea = %v, want 4", cfg.Engine.Rects.MinArea)
	}
	side, ok := cfg.Styles["sidemark"]
	if !ok {
		t.Fatal("sidemark style is missing")
	}
	if side.Layout != common.LayoutModeBounds || side.Width != common.WidthPolicyPage {
		t.Errorf("sidemark: layout %s width %s", side.Layout, side.Width)
	}
	if _, ok := cfg.Styles["highlight"]; !ok {
		t.Error("default highlight style should survive merge")
	}
	if cfg.Logging.FileLogger.Mode != "append" {
		t.Errorf("FileLogger.Mode = %q", cfg.Logging.FileLogger.Mode)
	}
}

func TestLoadConfiguration_NonExistentFile(t *testing.T) {
	if _, err := LoadConfiguration("/nonexistent/path/config.yaml"); err == nil {
		t.Error("Expected error for non-existent file")
	}
}

func TestLoadConfiguration_InvalidYAML(t *testing.T) {
	path := writeConfig(t, `version: 1
engine:
  hit_tolerance: 1
  invalid indent
`)
	if _, err := LoadConfiguration(path); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestLoadConfiguration_UnknownFields(t *testing.T) {
	path := writeConfig(t, `version: 1
unknown_field: value
`)
	if _, err := LoadConfiguration(path); err == nil {
		t.Error("Expected error for unknown fields")
	}
}

func TestLoadConfiguration_ValidationError(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"version", "version: 2\n"},
		{"negative tolerance", "version: 1\nengine:\n  hit_tolerance: -1\n"},
		{"empty attribute", "version: 1\nengine:\n  activable_attribute: ''\n"},
		{"bad layout", "version: 1\nstyles:\n  x:\n    layout: grid\n    width: wrap\n"},
		{"bad width", "version: 1\nstyles:\n  x:\n    layout: boxes\n    width: column\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfiguration(writeConfig(t, tt.content)); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestLoadConfiguration_WithOptions(t *testing.T) {
	option := func(opts *gencfg.ProcessingOptions) {
		// Options are opaque, just test that we can pass them
	}
	cfg, err := LoadConfiguration("", option)
	if err != nil {
		t.Fatalf("LoadConfiguration() with options error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
}

func TestPrepare(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Prepare() returned empty data")
	}
	if _, err = unmarshalConfig(data, &Config{}, true); err != nil {
		t.Errorf("Prepared config is not valid: %v", err)
	}
}

func TestDump(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if !strings.Contains(string(data), "layout: boxes") {
		t.Errorf("enum values should be dumped as text:\n%s", data)
	}

	cfg2, err := unmarshalConfig(data, &Config{}, true)
	if err != nil {
		t.Fatalf("Dumped config cannot be loaded: %v", err)
	}
	if cfg2.Engine != cfg.Engine {
		t.Errorf("Engine mismatch after dump/load: got %+v, want %+v", cfg2.Engine, cfg.Engine)
	}
	if len(cfg2.Styles) != len(cfg.Styles) {
		t.Errorf("Styles mismatch after dump/load: got %d, want %d", len(cfg2.Styles), len(cfg.Styles))
	}
}

func TestUnmarshalConfig(t *testing.T) {
	t.Run("valid config without processing", func(t *testing.T) {
		result, err := unmarshalConfig([]byte(`version: 1`), &Config{}, false)
		if err != nil {
			t.Fatalf("unmarshalConfig() error = %v", err)
		}
		if result.Version != 1 {
			t.Errorf("Version = %d, want 1", result.Version)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		if _, err := unmarshalConfig([]byte(`invalid: [yaml`), &Config{}, false); err == nil {
			t.Error("Expected error for invalid YAML")
		}
	})
}

func TestUnmarshalConfig_WrapsValidationError(t *testing.T) {
	_, err := unmarshalConfig([]byte("version: 99\n"), &Config{}, true)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if !strings.Contains(err.Error(), "validat") {
		t.Errorf("expected error to mention validation, got: %v", err)
	}
	if errors.Unwrap(err) == nil {
		t.Errorf("expected wrapped error, got bare error: %v", err)
	}
}
