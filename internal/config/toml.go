// Package config provides configuration helpers and TOML parsing.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Player     PlayerConfig     `toml:"player"`
	Difficulty DifficultyConfig `toml:"difficulty"`
	Engine     EngineConfig     `toml:"engine"`
	Coach      CoachConfig      `toml:"coach"`
	Storage    StorageConfig    `toml:"storage"`
}

// PlayerConfig maps player identity settings.
type PlayerConfig struct {
	ID    *string `toml:"id"`
	Color *string `toml:"color"`
}

// DifficultyConfig maps adaptive difficulty settings.
type DifficultyConfig struct {
	Level  *float64 `toml:"level"`
	Min    *float64 `toml:"min"`
	Max    *float64 `toml:"max"`
	Window *int     `toml:"window"`
}

// EngineConfig maps search engine constraints.
type EngineConfig struct {
	TimeLimit *float64 `toml:"time-limit"`
}

// CoachConfig maps feedback settings.
type CoachConfig struct {
	Seed     *int64  `toml:"seed"`
	TipsFile *string `toml:"tips-file"`
	IdleSecs *int    `toml:"idle-seconds"`
}

// StorageConfig maps persistence settings.
type StorageConfig struct {
	Backend    *string `toml:"backend"`
	ProfileDir *string `toml:"profile-dir"`
	DBPath     *string `toml:"db-path"`
}

// LoadConfig decodes the TOML file at path. A missing file yields the zero
// config; unknown keys are rejected so typos do not pass silently.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, errors.New("config path is empty")
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return FileConfig{}, nil
	}
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to read config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q in %s", undecoded[0].String(), path)
	}
	return cfg, nil
}
