package tessera

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultRunConfig(t *testing.T) {
	cfg := DefaultRunConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Width != 640 || cfg.Height != 480 || cfg.FrameRate != 60 {
		t.Errorf("defaults = %dx%d@%d", cfg.Width, cfg.Height, cfg.FrameRate)
	}
	if cfg.Audio.Enabled {
		t.Error("audio enabled by default")
	}
	if cfg.ScreenshotDir != "screenshots" {
		t.Errorf("ScreenshotDir = %q", cfg.ScreenshotDir)
	}
}

func TestLoadRunConfig(t *testing.T) {
	data := []byte(`
title = "Blocks"
width = 320
height = 480
frame_rate = 30
window_scale = 2

[audio]
enabled = true
sample_rate = 22050
`)
	cfg, err := LoadRunConfig(data)
	if err != nil {
		t.Fatalf("LoadRunConfig: %v", err)
	}
	if cfg.Title != "Blocks" || cfg.Width != 320 || cfg.Height != 480 || cfg.FrameRate != 30 || cfg.WindowScale != 2 {
		t.Errorf("cfg = %+v", cfg)
	}
	if !cfg.Audio.Enabled || cfg.Audio.SampleRate != 22050 {
		t.Errorf("audio = %+v", cfg.Audio)
	}
	// Absent keys keep their defaults.
	if cfg.Audio.BufferMS != 100 || !cfg.ShowCursor {
		t.Errorf("defaults lost: buffer %d cursor %v", cfg.Audio.BufferMS, cfg.ShowCursor)
	}
}

func TestLoadRunConfigEmpty(t *testing.T) {
	cfg, err := LoadRunConfig(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg != DefaultRunConfig() {
		t.Errorf("empty TOML = %+v, want defaults", cfg)
	}
}

func TestLoadRunConfigErrors(t *testing.T) {
	tests := []struct {
		name, data, want string
	}{
		{"syntax", `width = `, "parse run config"},
		{"type", `width = "wide"`, "parse run config"},
		{"size", `width = 0`, "screen size"},
		{"rate", `frame_rate = -1`, "frame rate"},
		{"scale", `window_scale = -2`, "window scale"},
		{"sample rate", "[audio]\nenabled = true\nsample_rate = 0", "sample rate"},
		{"buffer", "[audio]\nenabled = true\nbuffer_ms = 0", "buffer"},
	}
	for _, tt := range tests {
		_, err := LoadRunConfig([]byte(tt.data))
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: err = %v, want mention of %q", tt.name, err, tt.want)
		}
	}
}

func TestLoadRunConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.toml")
	if err := os.WriteFile(path, []byte(`title = "file"`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadRunConfigFile(path)
	if err != nil || cfg.Title != "file" {
		t.Errorf("LoadRunConfigFile = %+v, %v", cfg, err)
	}
	if _, err := LoadRunConfigFile(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("missing file accepted")
	}
}
