// Package config reads csmap defaults from CSMAP_* environment variables,
// optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the defaults used by the CLI flags.
type Config struct {
	// DBPath is the SQLite cache. Empty means ~/.csmap/replays.db.
	DBPath string `env:"CSMAP_DB"`
	// MapsDir holds the radar images, one {map}.png per map.
	MapsDir string `env:"CSMAP_MAPS_DIR" envDefault:".awpy/maps"`
	// MapData is awpy's map-data.json with the per-map calibrations.
	MapData string `env:"CSMAP_MAP_DATA" envDefault:".awpy/maps/map-data.json"`
	// Every keeps one player frame out of Every when rendering.
	Every int `env:"CSMAP_EVERY" envDefault:"2"`
}

// Load reads envFile if it exists and then parses the environment.
// Variables already set in the environment win over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(userHome(), ".csmap", "replays.db")
	}
	if cfg.Every < 1 {
		return Config{}, fmt.Errorf("CSMAP_EVERY must be at least 1, got %d", cfg.Every)
	}
	return cfg, nil
}

func userHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
