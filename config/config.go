// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "LOYALTY"

// Config is the full runtime configuration for the server.
type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	DBPath      string `envconfig:"DB_PATH" default:"loyalty.db"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	CatalogPath string `envconfig:"CATALOG_PATH"` // empty uses the built-in demo catalog
	ScanSeed    int64  `envconfig:"SCAN_SEED"`    // 0 seeds from the clock
}

// Load reads LOYALTY_* environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}
