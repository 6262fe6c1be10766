package config

import (
	"os"
	"path/filepath"
)

const appName = "chesscoach"

// baseDir resolves an XDG base directory: the env override if set, otherwise
// fallback under the user's home, otherwise the working directory.
func baseDir(env string, fallback ...string) string {
	if dir := os.Getenv(env); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(append([]string{home}, fallback...)...)
}

func configDir() string { return filepath.Join(baseDir("XDG_CONFIG_HOME", ".config"), appName) }

func dataDir() string { return filepath.Join(baseDir("XDG_DATA_HOME", ".local", "share"), appName) }

// DefaultConfigPath is where the TOML config is read from.
func DefaultConfigPath() string { return filepath.Join(configDir(), "config.toml") }

// DefaultTipsPath is where a custom tip pack is looked up.
func DefaultTipsPath() string { return filepath.Join(configDir(), "tips.txt") }

// DefaultProfileDir holds one JSON profile per player.
func DefaultProfileDir() string { return filepath.Join(dataDir(), "profiles") }

// DefaultDBPath returns the SQLite database location.
func DefaultDBPath() string { return filepath.Join(dataDir(), appName+".db") }
