// Package config loads the YAML settings shared by the kiln examples and
// tools.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/phanxgames/kiln"
	"github.com/phanxgames/kiln/sound"
)

// Config represents the main configuration
type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Audio     AudioConfig     `yaml:"audio"`
	TileField TileFieldConfig `yaml:"tilefield"`
	Log       LogConfig       `yaml:"log"`
}

// WindowConfig contains window and frame loop configuration
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	VSync      bool   `yaml:"vsync"`
	ClearColor string `yaml:"clear_color"` // #RRGGBB or #RRGGBBAA
	ShowFPS    bool   `yaml:"show_fps"`
}

// AudioConfig contains audio device configuration
type AudioConfig struct {
	Backend      string  `yaml:"backend"` // ebiten, portaudio
	Frequency    int     `yaml:"frequency"`
	Channels     int     `yaml:"channels"`
	Encoding     string  `yaml:"encoding"` // u8, s8, s16
	BufferFrames int     `yaml:"buffer_frames"`
	Volume       float64 `yaml:"volume"`
}

// TileFieldConfig contains tile field configuration
type TileFieldConfig struct {
	Rows         int    `yaml:"rows"`
	Cols         int    `yaml:"cols"`
	TileWidth    int    `yaml:"tile_width"`
	TileHeight   int    `yaml:"tile_height"`
	AtlasColumns int    `yaml:"atlas_columns"`
	AtlasRows    int    `yaml:"atlas_rows"`
	Atlas        string `yaml:"atlas"`
	ChromaKey    string `yaml:"chroma_key"` // empty disables keying
	Baked        bool   `yaml:"baked"`
}

// LogConfig contains logger configuration
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// DefaultConfig creates a default configuration
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "kiln",
			Width:      1280,
			Height:     960,
			VSync:      true,
			ClearColor: "#ffffff",
			ShowFPS:    true,
		},
		Audio: AudioConfig{
			Backend:      sound.BackendEbiten,
			Frequency:    44100,
			Channels:     2,
			Encoding:     "s16",
			BufferFrames: 1024,
			Volume:       1.0,
		},
		TileField: TileFieldConfig{
			Rows:         200,
			Cols:         200,
			TileWidth:    64,
			TileHeight:   64,
			AtlasColumns: 4,
			AtlasRows:    4,
			Atlas:        "assets/tiles.png",
			ChromaKey:    "#00ffff",
			Baked:        true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads the configuration from a file. On error the defaults are
// returned alongside it.
func LoadConfig(filePath string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filePath)
	if err != nil {
		return config, fmt.Errorf("config file not found, using defaults: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), fmt.Errorf("error parsing config: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to a file
func SaveConfig(config *Config, filePath string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("error serializing config: %w", err)
	}

	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error creating config directory: %w", err)
		}
	}
	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// Validate reports every invalid value at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window: size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if _, err := ParseColor(c.Window.ClearColor); err != nil {
		errs = append(errs, fmt.Errorf("window: clear_color: %w", err))
	}
	switch strings.ToLower(c.Audio.Backend) {
	case sound.BackendEbiten, sound.BackendPortAudio, sound.BackendNull:
	default:
		errs = append(errs, fmt.Errorf("audio: unknown backend %q", c.Audio.Backend))
	}
	if _, err := c.AudioFormat(); err != nil {
		errs = append(errs, fmt.Errorf("audio: %w", err))
	}
	if c.Audio.BufferFrames <= 0 {
		errs = append(errs, fmt.Errorf("audio: buffer_frames %d must be positive", c.Audio.BufferFrames))
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		errs = append(errs, fmt.Errorf("audio: volume %v out of range 0-1", c.Audio.Volume))
	}
	if err := c.TileFieldConfig().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tilefield: %w", err))
	}
	if _, err := c.ChromaKey(); err != nil {
		errs = append(errs, fmt.Errorf("tilefield: chroma_key: %w", err))
	}
	return errors.Join(errs...)
}

// AudioFormat converts the audio section into a device format.
func (c *Config) AudioFormat() (sound.Format, error) {
	enc, err := sound.ParseEncoding(c.Audio.Encoding)
	if err != nil {
		return sound.Format{}, err
	}
	f := sound.Format{Channels: c.Audio.Channels, Freq: c.Audio.Frequency, Encoding: enc}
	if err := f.Validate(); err != nil {
		return sound.Format{}, err
	}
	return f, nil
}

// DeviceConfig converts the audio section into sound.OpenDevice options.
func (c *Config) DeviceConfig(log sound.Logger) (sound.DeviceConfig, error) {
	f, err := c.AudioFormat()
	if err != nil {
		return sound.DeviceConfig{}, err
	}
	return sound.DeviceConfig{
		Backend:      c.Audio.Backend,
		Format:       f,
		BufferFrames: c.Audio.BufferFrames,
		Logger:       log,
	}, nil
}

// TileFieldConfig converts the tilefield section.
func (c *Config) TileFieldConfig() kiln.TileFieldConfig {
	t := c.TileField
	return kiln.TileFieldConfig{
		Rows:         t.Rows,
		Cols:         t.Cols,
		TileWidth:    t.TileWidth,
		TileHeight:   t.TileHeight,
		AtlasColumns: t.AtlasColumns,
		AtlasRows:    t.AtlasRows,
	}
}

// ClearColor returns the parsed window clear color.
func (c *Config) ClearColor() (color.NRGBA, error) {
	return ParseColor(c.Window.ClearColor)
}

// ChromaKey returns the parsed chroma key, or nil when keying is disabled.
func (c *Config) ChromaKey() (*color.RGBA, error) {
	if c.TileField.ChromaKey == "" {
		return nil, nil
	}
	n, err := ParseColor(c.TileField.ChromaKey)
	if err != nil {
		return nil, err
	}
	return &color.RGBA{n.R, n.G, n.B, 255}, nil
}

// RunConfig converts the window section for kiln.Run.
func (c *Config) RunConfig(log kiln.Logger) kiln.RunConfig {
	bg, err := c.ClearColor()
	if err != nil {
		bg = color.NRGBA{255, 255, 255, 255}
	}
	return kiln.RunConfig{
		Title:      c.Window.Title,
		Width:      c.Window.Width,
		Height:     c.Window.Height,
		VSync:      c.Window.VSync,
		ClearColor: bg,
		ShowFPS:    c.Window.ShowFPS,
		Logger:     log,
	}
}

// ParseColor parses #RRGGBB or #RRGGBBAA. The leading # is optional.
func ParseColor(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 && len(h) != 8 {
		return color.NRGBA{}, fmt.Errorf("color %q: want #RRGGBB or #RRGGBBAA", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	if len(h) == 6 {
		v = v<<8 | 0xff
	}
	return color.NRGBA{uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
}
