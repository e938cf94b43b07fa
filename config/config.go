// Package config loads the YAML configuration for the HTTP server and
// feed manager: where to fetch GTFS from, where to keep snapshots and
// bookkeeping, and who's allowed to call the HTTP API.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"harail.dev/harail/gtfsload"
)

// StoreConfig selects and configures the store.Store backend.
type StoreConfig struct {
	// Backend is one of "memory", "sqlite", "postgres".
	Backend string `yaml:"backend"`

	// SQLite settings, used when Backend == "sqlite".
	SQLiteDirectory string `yaml:"sqlite_directory"`

	// DSN is the Postgres connection string, used when
	// Backend == "postgres".
	DSN string `yaml:"dsn"`
}

// FeedConfig configures the GTFS feed the server keeps refreshed.
type FeedConfig struct {
	URL             string            `yaml:"url"`
	Headers         map[string]string `yaml:"headers"`
	AgencyName      string            `yaml:"agency_name"`
	SnapshotDir     string            `yaml:"snapshot_dir"`
	RefreshInterval string            `yaml:"refresh_interval"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	ListenAddr  string   `yaml:"listen_addr"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// Config is the top-level config.yaml shape.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Feed   FeedConfig   `yaml:"feed"`
	Store  StoreConfig  `yaml:"store"`
}

// Default returns a Config usable out of the box for local
// development: in-memory store, no CORS restriction, no feed URL
// (the caller must set one before starting a refresh loop).
func Default() Config {
	return Config{
		Server: ServerConfig{
			ListenAddr:  ":8080",
			CORSOrigins: []string{"*"},
		},
		Feed: FeedConfig{
			AgencyName:      gtfsload.DefaultAgencyName,
			SnapshotDir:     "./snapshots",
			RefreshInterval: "12h",
		},
		Store: StoreConfig{
			Backend: "memory",
		},
	}
}

// Load reads and parses a config.yaml at path, starting from Default()
// so a partial file only needs to override what differs.
func Load(path string) (Config, error) {
	cfg := Default()

	buf, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}
