package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvConfig holds environment overrides. Empty values are unset.
type EnvConfig struct {
	Player     string `env:"CHESSCOACH_PLAYER"`
	Color      string `env:"CHESSCOACH_COLOR"`
	Storage    string `env:"CHESSCOACH_STORAGE"`
	ProfileDir string `env:"CHESSCOACH_PROFILE_DIR"`
	DBPath     string `env:"CHESSCOACH_DB_PATH"`
	TipsFile   string `env:"CHESSCOACH_TIPS_FILE"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads the config file at path and layers environment overrides on
// top of it.
func Load(path string) (FileConfig, error) {
	fc, err := LoadConfig(path)
	if err != nil {
		return FileConfig{}, err
	}
	var ec EnvConfig
	if err := ParseEnv(&ec); err != nil {
		return FileConfig{}, err
	}
	return ec.Apply(fc), nil
}

// Apply returns fc with every set environment value taking precedence.
func (e EnvConfig) Apply(fc FileConfig) FileConfig {
	override(&fc.Player.ID, e.Player)
	override(&fc.Player.Color, e.Color)
	override(&fc.Storage.Backend, e.Storage)
	override(&fc.Storage.ProfileDir, e.ProfileDir)
	override(&fc.Storage.DBPath, e.DBPath)
	override(&fc.Coach.TipsFile, e.TipsFile)
	return fc
}

func override(target **string, value string) {
	if value == "" {
		return
	}
	v := value
	*target = &v
}
