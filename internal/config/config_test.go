package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.CurrentPlaylist != DefaultPlaylist {
		t.Errorf("DefaultConfig().CurrentPlaylist = %q, want %q", cfg.CurrentPlaylist, DefaultPlaylist)
	}

	if cfg.Volume != DefaultVolume {
		t.Errorf("DefaultConfig().Volume = %d, want %d", cfg.Volume, DefaultVolume)
	}

	if cfg.LastPlayed != nil {
		t.Errorf("DefaultConfig().LastPlayed = %v, want nil", cfg.LastPlayed)
	}

	if cfg.Muted {
		t.Error("DefaultConfig().Muted = true, want false")
	}
}

func TestConfigSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	testCfg := &Config{
		CurrentPlaylist: "rock.txt",
		LastPlayed:      &LastPlayed{Playlist: "rock.txt", StationIdx: 3},
		Volume:          85,
		Muted:           true,
	}

	if err := testCfg.Save(tmpDir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	configPath := filepath.Join(tmpDir, ConfigFileName)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatalf("Config file was not created at %s", configPath)
	}

	loadedCfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if loadedCfg.CurrentPlaylist != testCfg.CurrentPlaylist {
		t.Errorf("Load().CurrentPlaylist = %q, want %q", loadedCfg.CurrentPlaylist, testCfg.CurrentPlaylist)
	}

	if loadedCfg.Volume != testCfg.Volume {
		t.Errorf("Load().Volume = %d, want %d", loadedCfg.Volume, testCfg.Volume)
	}

	if !loadedCfg.Muted {
		t.Error("Load().Muted = false, want true")
	}

	if loadedCfg.LastPlayed == nil {
		t.Fatal("Load().LastPlayed = nil, want non-nil")
	}

	if loadedCfg.LastPlayed.Playlist != "rock.txt" || loadedCfg.LastPlayed.StationIdx != 3 {
		t.Errorf("Load().LastPlayed = %+v, want {rock.txt 3}", loadedCfg.LastPlayed)
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() with no config file should not error, got %v", err)
	}

	if cfg.CurrentPlaylist != DefaultPlaylist {
		t.Errorf("Load() returned CurrentPlaylist = %q, want %q", cfg.CurrentPlaylist, DefaultPlaylist)
	}

	if cfg.LastPlayed != nil {
		t.Errorf("Load() returned LastPlayed = %v, want nil", cfg.LastPlayed)
	}
}

func TestLoadMalformedConfig(t *testing.T) {
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, ConfigFileName)
	if err := os.WriteFile(configPath, []byte("{not yaml: ["), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(tmpDir)
	if err == nil {
		t.Error("Load() with malformed file should report an error")
	}

	// Defaults must still be usable
	if cfg == nil || cfg.CurrentPlaylist != DefaultPlaylist {
		t.Error("Load() with malformed file should return default config")
	}
}

func TestVolumeClampedOnLoad(t *testing.T) {
	tests := []struct {
		name           string
		inputVolume    int
		expectedVolume int
	}{
		{"valid volume 50", 50, 50},
		{"valid volume 0", 0, 0},
		{"valid volume 100", 100, 100},
		{"negative volume", -10, 0},
		{"volume over 100", 150, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()

			testCfg := &Config{
				CurrentPlaylist: DefaultPlaylist,
				Volume:          tt.inputVolume,
			}

			if err := testCfg.Save(tmpDir); err != nil {
				t.Fatalf("Save() error = %v", err)
			}

			loadedCfg, err := Load(tmpDir)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}

			if loadedCfg.Volume != tt.expectedVolume {
				t.Errorf("Load().Volume = %d, want %d", loadedCfg.Volume, tt.expectedVolume)
			}
		})
	}
}

func TestClampVolume(t *testing.T) {
	tests := []struct {
		input    int
		expected int
	}{
		{-1, 0},
		{0, 0},
		{55, 55},
		{100, 100},
		{101, 100},
	}

	for _, tt := range tests {
		if got := ClampVolume(tt.input); got != tt.expected {
			t.Errorf("ClampVolume(%d) = %d, want %d", tt.input, got, tt.expected)
		}
	}
}
