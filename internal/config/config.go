package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds settings shared by the editor binaries.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Tileset TilesetConfig `yaml:"tileset"`
	Map     MapConfig     `yaml:"map"`
}

// ServerConfig holds SSH server settings.
type ServerConfig struct {
	Addr     string `yaml:"addr"`
	HostKey  string `yaml:"host_key"`
	TickRate int    `yaml:"tick_rate"` // Hz
}

// TilesetConfig says which rule table to edit and where it lives.
type TilesetConfig struct {
	ID         string `yaml:"id"`
	Storage    string `yaml:"storage"`  // "file" or "sqlite"
	Location   string `yaml:"location"` // directory or database path
	Sheet      string `yaml:"sheet"`    // optional PNG
	GridWidth  int    `yaml:"grid_width"`
	GridHeight int    `yaml:"grid_height"`
	TileWidth  int    `yaml:"tile_width"`
	TileHeight int    `yaml:"tile_height"`
}

// MapConfig controls the preview map each session edits.
type MapConfig struct {
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	Fill      string  `yaml:"fill"` // "empty", "full", "random" or "noise"
	Density   float64 `yaml:"density"`
	Seed      int64   `yaml:"seed"`
	Threshold float64 `yaml:"threshold"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration and fills in defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":2222"
	}
	if cfg.Server.HostKey == "" {
		cfg.Server.HostKey = "host_key"
	}
	if cfg.Server.TickRate == 0 {
		cfg.Server.TickRate = 20
	}
	if cfg.Tileset.ID == "" {
		cfg.Tileset.ID = "default"
	}
	if cfg.Tileset.Storage == "" {
		cfg.Tileset.Storage = "file"
	}
	if cfg.Tileset.Location == "" {
		if cfg.Tileset.Storage == "sqlite" {
			cfg.Tileset.Location = "tilesets.db"
		} else {
			cfg.Tileset.Location = "tilesets"
		}
	}
	if cfg.Tileset.GridWidth == 0 {
		cfg.Tileset.GridWidth = 16
	}
	if cfg.Tileset.GridHeight == 0 {
		cfg.Tileset.GridHeight = 16
	}
	if cfg.Tileset.TileWidth == 0 {
		cfg.Tileset.TileWidth = 8
	}
	if cfg.Tileset.TileHeight == 0 {
		cfg.Tileset.TileHeight = 8
	}
	if cfg.Map.Width == 0 {
		cfg.Map.Width = 32
	}
	if cfg.Map.Height == 0 {
		cfg.Map.Height = 18
	}
	if cfg.Map.Fill == "" {
		cfg.Map.Fill = "noise"
	}
	if cfg.Map.Density == 0 {
		cfg.Map.Density = 0.25
	}
	if cfg.Map.Threshold == 0 {
		cfg.Map.Threshold = 0.5
	}
}

func (cfg *Config) validate() error {
	switch cfg.Tileset.Storage {
	case "file", "sqlite":
	default:
		return fmt.Errorf("unknown tileset storage %q", cfg.Tileset.Storage)
	}
	switch cfg.Map.Fill {
	case "empty", "full", "random", "noise":
	default:
		return fmt.Errorf("unknown map fill %q", cfg.Map.Fill)
	}
	if cfg.Tileset.GridWidth < 0 || cfg.Tileset.GridHeight < 0 || cfg.Map.Width < 0 || cfg.Map.Height < 0 {
		return fmt.Errorf("sizes must be positive")
	}
	if cfg.Server.TickRate < 0 {
		return fmt.Errorf("tick_rate must be positive")
	}
	return nil
}

// TickInterval converts the tick rate to a ticker period.
func (s ServerConfig) TickInterval() time.Duration {
	return time.Second / time.Duration(s.TickRate)
}
