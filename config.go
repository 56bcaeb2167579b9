package tessera

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// RunConfig describes the window, frame pacing and optional subsystems of an
// Instance. It can be written by hand or decoded from TOML:
//
//	title = "Blocks"
//	width = 320
//	height = 480
//	frame_rate = 60
//	window_scale = 2
//
//	[audio]
//	enabled = true
//	sample_rate = 44100
type RunConfig struct {
	Title         string      `toml:"title"`
	Width         int         `toml:"width"`
	Height        int         `toml:"height"`
	FrameRate     int         `toml:"frame_rate"`
	WindowScale   int         `toml:"window_scale"`
	FullScreen    bool        `toml:"fullscreen"`
	ShowCursor    bool        `toml:"show_cursor"`
	Debug         bool        `toml:"debug"`
	ScreenshotDir string      `toml:"screenshot_dir"`
	Audio         AudioConfig `toml:"audio"`
}

// AudioConfig configures the speaker opened by Instance.InitializeAudio.
type AudioConfig struct {
	Enabled    bool `toml:"enabled"`
	SampleRate int  `toml:"sample_rate"`
	BufferMS   int  `toml:"buffer_ms"`
}

// DefaultRunConfig returns a 640x480, 60 frames per second configuration
// with audio disabled.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Title:         "tessera",
		Width:         640,
		Height:        480,
		FrameRate:     60,
		WindowScale:   1,
		ShowCursor:    true,
		ScreenshotDir: "screenshots",
		Audio: AudioConfig{
			SampleRate: 44100,
			BufferMS:   100,
		},
	}
}

// LoadRunConfig decodes TOML over DefaultRunConfig and validates the result.
// Keys absent from data keep their defaults.
func LoadRunConfig(data []byte) (RunConfig, error) {
	cfg := DefaultRunConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("tessera: parse run config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadRunConfigFile reads and decodes a TOML configuration file.
func LoadRunConfigFile(path string) (RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultRunConfig(), fmt.Errorf("tessera: read run config: %w", err)
	}
	return LoadRunConfig(data)
}

// Validate reports the first setting that cannot be used.
func (c RunConfig) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("tessera: run config: screen size %dx%d must be positive", c.Width, c.Height)
	case c.FrameRate <= 0:
		return fmt.Errorf("tessera: run config: frame rate %d must be positive", c.FrameRate)
	case c.WindowScale < 0:
		return fmt.Errorf("tessera: run config: window scale %d must not be negative", c.WindowScale)
	case c.Audio.Enabled && c.Audio.SampleRate <= 0:
		return fmt.Errorf("tessera: run config: audio sample rate %d must be positive", c.Audio.SampleRate)
	case c.Audio.Enabled && c.Audio.BufferMS <= 0:
		return fmt.Errorf("tessera: run config: audio buffer %dms must be positive", c.Audio.BufferMS)
	}
	return nil
}
