// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Match    MatchConfig    `toml:"match"`
	Club     ClubConfig     `toml:"club"`
	Log      LogConfig      `toml:"log"`
	Server   ServerConfig   `toml:"server"`
	Forecast ForecastConfig `toml:"forecast"`
}

// MatchConfig maps match defaults. Nil fields leave flag defaults alone.
type MatchConfig struct {
	Tactic           *string  `toml:"tactic"`
	Formation        *string  `toml:"formation"`
	Difficulty       *float64 `toml:"difficulty"`
	OpponentStrength *float64 `toml:"opponent-strength"`
	ViewMode         *string  `toml:"view-mode"`
	Home             *bool    `toml:"home"`
}

// ClubConfig selects the club used when no --club flag is given.
type ClubConfig struct {
	ID *string `toml:"id"`
}

// LogConfig maps logger settings.
type LogConfig struct {
	Level *string `toml:"level"`
}

// ServerConfig maps HTTP API settings.
type ServerConfig struct {
	Addr        *string  `toml:"addr"`
	CORSOrigins []string `toml:"cors-origins"`
}

// ForecastConfig maps Monte Carlo forecast settings.
type ForecastConfig struct {
	Runs    *int `toml:"runs"`
	Workers *int `toml:"workers"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
