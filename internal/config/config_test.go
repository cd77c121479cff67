package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if len(cfg.Inputs) != 3 {
		t.Errorf("expected 3 default inputs, got %d", len(cfg.Inputs))
	}
	if len(cfg.Titles) != 3 {
		t.Errorf("expected 3 default titles, got %d", len(cfg.Titles))
	}
	if cfg.Output != "index.html" {
		t.Errorf("expected Output=index.html, got %s", cfg.Output)
	}
	if cfg.Page.Title == "" || cfg.Page.Heading == "" {
		t.Error("default page chrome must not be empty")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	t.Setenv("VIZMERGE_OUTPUT", "")
	t.Setenv("VIZMERGE_LOG_LEVEL", "")

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "vizmerge.yaml")

	cfg := DefaultConfig()
	cfg.Inputs = []string{"one.html", "two.html"}
	cfg.Titles = []string{"One"}
	cfg.Output = "combined.html"
	cfg.Page.Heading = "Custom Dashboard"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(loaded.Inputs) != 2 || loaded.Inputs[0] != "one.html" {
		t.Errorf("unexpected Inputs: %v", loaded.Inputs)
	}
	if len(loaded.Titles) != 1 || loaded.Titles[0] != "One" {
		t.Errorf("unexpected Titles: %v", loaded.Titles)
	}
	if loaded.Output != "combined.html" {
		t.Errorf("expected Output=combined.html, got %s", loaded.Output)
	}
	if loaded.Page.Heading != "Custom Dashboard" {
		t.Errorf("expected Heading=Custom Dashboard, got %s", loaded.Page.Heading)
	}
}

func TestConfig_LoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("VIZMERGE_OUTPUT", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load of a missing file must not fail: %v", err)
	}
	if cfg.Output != "index.html" {
		t.Errorf("expected default Output, got %s", cfg.Output)
	}
}

func TestConfig_EnvOverrides(t *testing.T) {
	os.Setenv("VIZMERGE_OUTPUT", "env-output.html")
	defer os.Unsetenv("VIZMERGE_OUTPUT")

	os.Setenv("VIZMERGE_LOG_LEVEL", "debug")
	defer os.Unsetenv("VIZMERGE_LOG_LEVEL")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	if cfg.Output != "env-output.html" {
		t.Errorf("expected Output=env-output.html, got %s", cfg.Output)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected Level=debug, got %s", cfg.Logging.Level)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for empty output")
	}

	cfg = DefaultConfig()
	cfg.Inputs = []string{"ok.html", ""}
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for empty input path")
	}

	cfg = DefaultConfig()
	cfg.Inputs = nil
	if err := cfg.Validate(); err != nil {
		t.Errorf("empty input list must be valid: %v", err)
	}
}
