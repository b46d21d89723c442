// config_test.go - Tests for YAML configuration loading

package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_EmbeddedDefault(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Window.TPS != DEFAULT_TPS {
		t.Fatalf("expected tps %d, got %d", DEFAULT_TPS, cfg.Window.TPS)
	}
	if cfg.Window.OverlayMessage != defaultOverlayMessage {
		t.Fatalf("expected overlay %q, got %q", defaultOverlayMessage, cfg.Window.OverlayMessage)
	}
	if cfg.Engine != DefaultEngineConfig() {
		t.Fatalf("embedded engine config differs from defaults: %+v", cfg.Engine)
	}
}

func TestLoadConfig_CustomPathOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte("log_level: debug\nwindow:\n  tps: 30\nengine:\n  scale: 2\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogLevel != "debug" || cfg.Window.TPS != 30 || cfg.Engine.Scale != 2 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.Engine.ScreenWidth != DefaultEngineConfig().ScreenWidth {
		t.Fatalf("expected default screen width, got %d", cfg.Engine.ScreenWidth)
	}
	if cfg.Window.Title == "" {
		t.Fatal("expected default title to survive")
	}
}

func TestLoadConfig_UserFileBeforeWorkingDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())

	dir := filepath.Join(home, ".intuition_raycaster")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("window:\n  title: mine\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.MkdirAll("configs", 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join("configs", "raycaster.yaml"), []byte("window:\n  title: local\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Window.Title != "mine" {
		t.Fatalf("expected user config title, got %q", cfg.Window.Title)
	}
}

func TestLoadConfig_MalformedFallbackFileIsAnError(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())

	if err := os.MkdirAll("configs", 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join("configs", "raycaster.yaml"), []byte("window: [unclosed\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadConfig(""); err == nil {
		t.Fatal("expected error for malformed ./configs/raycaster.yaml")
	}

	dir := filepath.Join(home, ".intuition_raycaster")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("window:\n  tps: -5\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadConfig(""); err == nil {
		t.Fatal("expected error for invalid user config")
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatal("expected error for missing custom config")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("window:\n  tps: 0\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadConfig(bad); err == nil {
		t.Fatal("expected error for zero tps")
	}

	broken := filepath.Join(dir, "broken.yaml")
	if err := os.WriteFile(broken, []byte("window: [unclosed\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadConfig(broken); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}
