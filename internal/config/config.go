// Package config loads runtime configuration from the environment and
// from the local configuration file under ~/.leoplay.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds runtime configuration for the daemon and CLI.
type Config struct {
	// Server
	Port  int
	Bind  string
	Debug bool

	// Content
	ContentPath string

	// Effects broker
	BrokerURL      string
	EffectsEnabled bool

	// Game tuning
	AdvanceDelayMS  int
	PointsPerAnswer int
	HintThreshold   int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnvInt("LEOPLAY_PORT", 7532),
		Bind:            getEnv("LEOPLAY_BIND", "127.0.0.1"),
		Debug:           getEnvBool("LEOPLAY_DEBUG", false),
		ContentPath:     getEnv("LEOPLAY_CONTENT_PATH", "content"),
		BrokerURL:       getEnv("RABBITMQ_URL", ""),
		EffectsEnabled:  getEnvBool("LEOPLAY_EFFECTS_ENABLED", false),
		AdvanceDelayMS:  getEnvInt("LEOPLAY_ADVANCE_DELAY_MS", 450),
		PointsPerAnswer: getEnvInt("LEOPLAY_POINTS_PER_ANSWER", 10),
		HintThreshold:   getEnvInt("LEOPLAY_HINT_THRESHOLD", 2),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.AdvanceDelayMS < 0 {
		return fmt.Errorf("advance delay must not be negative: %d", c.AdvanceDelayMS)
	}
	if c.PointsPerAnswer < 0 {
		return fmt.Errorf("points per answer must not be negative: %d", c.PointsPerAnswer)
	}
	if c.EffectsEnabled && c.BrokerURL == "" {
		return fmt.Errorf("RABBITMQ_URL is required when effects are enabled")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
