package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	AppName        = "radioterm"
	AppDescription = "A terminal-based internet radio station manager"

	ConfigFileName   = "radio_config.yml"
	HistoryFileName  = "history.yml"
	FavoritesFile    = "favorites.txt"
	DefaultPlaylist  = "list.txt"
	StationsPerPage  = 10
	MaxHistorySize   = 50
	DefaultVolume    = 70
	MinVolume        = 0
	MaxVolume        = 100
	VolumeStep       = 10
)

// AppVersion can be overridden at build time using ldflags:
// go build -ldflags "-X github.com/radioterm/radioterm/internal/config.AppVersion=1.0.0"
var AppVersion = "dev"

// ClampVolume ensures volume is within the valid range [0, 100].
func ClampVolume(volume int) int {
	if volume < MinVolume {
		return MinVolume
	}
	if volume > MaxVolume {
		return MaxVolume
	}
	return volume
}

// LastPlayed points at the station that was playing when the program exited.
type LastPlayed struct {
	Playlist   string `yaml:"playlist"`
	StationIdx int    `yaml:"station_idx"`
}

// Config is the persisted session state needed to resume across restarts.
type Config struct {
	CurrentPlaylist string      `yaml:"current_playlist"`
	LastPlayed      *LastPlayed `yaml:"last_played_station,omitempty"`
	Volume          int         `yaml:"volume"`
	Muted           bool        `yaml:"muted"`
}

func DefaultConfig() *Config {
	return &Config{
		CurrentPlaylist: DefaultPlaylist,
		Volume:          DefaultVolume,
	}
}

// Load reads the config file from dir. A missing or unreadable file yields
// the default config; parse and read failures are surfaced so the caller
// can log a warning, but the returned config is always usable.
func Load(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ConfigFileName)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return DefaultConfig(), fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Volume = ClampVolume(cfg.Volume)
	if cfg.CurrentPlaylist == "" {
		cfg.CurrentPlaylist = DefaultPlaylist
	}

	return cfg, nil
}

// Save writes the configuration to dir atomically using temp file + rename.
func (c *Config) Save(dir string) error {
	configPath := filepath.Join(dir, ConfigFileName)

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".config-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		if tmpPath != "" {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, configPath); err != nil {
		return fmt.Errorf("failed to rename config file: %w", err)
	}

	tmpPath = "" // Prevent defer from removing the final file
	return nil
}
