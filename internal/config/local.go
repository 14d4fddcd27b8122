package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LocalConfig represents the configuration stored in ~/.leoplay/config.yaml.
type LocalConfig struct {
	Daemon  DaemonConfig  `yaml:"daemon"`
	Content ContentConfig `yaml:"content"`
	Effects EffectsConfig `yaml:"effects"`
	Game    GameConfig    `yaml:"game"`
}

// DaemonConfig holds daemon server settings.
type DaemonConfig struct {
	Port     int    `yaml:"port"`
	Bind     string `yaml:"bind"`
	LogLevel string `yaml:"log_level"`
}

// ContentConfig points at the level catalog on disk.
type ContentConfig struct {
	Path string `yaml:"path"`
}

// EffectsConfig controls the optional effects broker.
type EffectsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	BrokerURL string `yaml:"broker_url"`
}

// GameConfig holds play tuning knobs.
type GameConfig struct {
	AdvanceDelayMS  int `yaml:"advance_delay_ms"`
	PointsPerAnswer int `yaml:"points_per_answer"`
	HintThreshold   int `yaml:"hint_threshold"`
}

// LeoDir returns the path to the ~/.leoplay directory.
func LeoDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".leoplay"), nil
}

// EnsureLeoDir creates the ~/.leoplay directory structure if it doesn't exist.
func EnsureLeoDir() error {
	dir, err := LeoDir()
	if err != nil {
		return err
	}

	subdirs := []string{
		dir,
		filepath.Join(dir, "logs"),
		filepath.Join(dir, "content"),
	}

	for _, d := range subdirs {
		if err := os.MkdirAll(d, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", d, err)
		}
	}

	return nil
}

// DefaultLocalConfig returns a LocalConfig with default values.
func DefaultLocalConfig() *LocalConfig {
	return &LocalConfig{
		Daemon: DaemonConfig{
			Port:     7532,
			Bind:     "127.0.0.1",
			LogLevel: "info",
		},
		Content: ContentConfig{
			Path: "content",
		},
		Effects: EffectsConfig{
			Enabled: false,
		},
		Game: GameConfig{
			AdvanceDelayMS:  450,
			PointsPerAnswer: 10,
			HintThreshold:   2,
		},
	}
}

// LoadLocalConfig loads configuration from ~/.leoplay/config.yaml.
// Returns defaults when the file doesn't exist.
func LoadLocalConfig() (*LocalConfig, error) {
	cfg := DefaultLocalConfig()

	dir, err := LeoDir()
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(dir, "config.yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// SaveLocalConfig writes configuration to ~/.leoplay/config.yaml.
func SaveLocalConfig(cfg *LocalConfig) error {
	if err := EnsureLeoDir(); err != nil {
		return err
	}

	dir, err := LeoDir()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	configPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
