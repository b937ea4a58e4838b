package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// MIDIConfig names the MIDI ports used for tones and for pad input.
// Empty names disable that side.
type MIDIConfig struct {
	OutputPort     string `json:"outputPort,omitempty"`
	ControllerPort string `json:"controllerPort,omitempty"`
	DrumChannel    int    `json:"drumChannel,omitempty"` // 1-16, GM drums on 10
	BassChannel    int    `json:"bassChannel,omitempty"` // 1-16
}

// EngineConfig holds the starting values of the engine
type EngineConfig struct {
	BPM          int     `json:"bpm,omitempty"`
	Volume       float64 `json:"volume,omitempty"`
	ScreenWidth  int     `json:"screenWidth,omitempty"`
	ScreenHeight int     `json:"screenHeight,omitempty"`
	Seed         int64   `json:"seed,omitempty"` // 0 = time based
	StartScene   int     `json:"startScene,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	MIDI   MIDIConfig   `json:"midi,omitempty"`
	Engine EngineConfig `json:"engine,omitempty"`
	Debug  bool         `json:"debug,omitempty"`
	Theme  string       `json:"theme,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		MIDI: MIDIConfig{
			DrumChannel: 10,
			BassChannel: 1,
		},
		Engine: EngineConfig{
			BPM:          128,
			Volume:       0.7,
			ScreenWidth:  1920,
			ScreenHeight: 1080,
			StartScene:   1,
		},
		Theme: "plasma",
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-vj"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads a config file. Missing fields keep their defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.normalize()
	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// normalize clamps values that would otherwise be rejected later
func (c *Config) normalize() {
	if c.Engine.BPM < 60 {
		c.Engine.BPM = 60
	}
	if c.Engine.BPM > 200 {
		c.Engine.BPM = 200
	}
	if c.Engine.Volume < 0 {
		c.Engine.Volume = 0
	}
	if c.Engine.Volume > 1 {
		c.Engine.Volume = 1
	}
	if c.Engine.StartScene < 1 || c.Engine.StartScene > 12 {
		c.Engine.StartScene = 1
	}
	if c.MIDI.DrumChannel < 1 || c.MIDI.DrumChannel > 16 {
		c.MIDI.DrumChannel = 10
	}
	if c.MIDI.BassChannel < 1 || c.MIDI.BassChannel > 16 {
		c.MIDI.BassChannel = 1
	}
	if c.Engine.ScreenWidth <= 0 {
		c.Engine.ScreenWidth = 1920
	}
	if c.Engine.ScreenHeight <= 0 {
		c.Engine.ScreenHeight = 1080
	}
}
