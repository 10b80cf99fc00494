package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.PixelSize.X != 0.065 || cfg.PixelSize.Y != 0.065 || cfg.PixelSize.Z != 0.2 {
		t.Errorf("default pixel size = %v, want 0.065 x 0.065 x 0.2", cfg.PixelSize)
	}
	if cfg.Convert.SeparateChannels || cfg.Convert.AllowChannelMismatch {
		t.Error("conversion options should default to off")
	}
}

func TestLoadConfigMissing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "no-such.yaml"))
	if err != nil {
		t.Fatalf("missing config file should yield defaults, got %v", err)
	}
	if cfg.PixelSize.X != 0.065 {
		t.Errorf("pixel size X = %g, want the 0.065 default", cfg.PixelSize.X)
	}
}

// TestLoadConfigPartial checks that a file setting only some keys
// keeps the defaults for the rest.
func TestLoadConfigPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "convert:\n  separateChannels: true\npixelSize:\n  z: 0.5\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !cfg.Convert.SeparateChannels {
		t.Error("separateChannels should be on")
	}
	if cfg.PixelSize.Z != 0.5 {
		t.Errorf("pixel size Z = %g, want 0.5", cfg.PixelSize.Z)
	}
	if cfg.PixelSize.X != 0.065 {
		t.Errorf("pixel size X = %g, want the 0.065 default", cfg.PixelSize.X)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "config.yaml")

	cfg := DefaultConfig()
	cfg.Convert.AllowChannelMismatch = true
	cfg.PixelSize.X = 0.1
	cfg.PixelSize.Y = 0.11

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip changed the config: %+v != %+v", loaded, cfg)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("pixelSize: [not, a, map]\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for malformed config")
	}
}
