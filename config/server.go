package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds the settings for the HTTP server process. Values come
// from an optional YAML file; command-line flags override whatever was
// loaded.
type ServerConfig struct {
	Port          string
	DataDir       string
	SearchWorkers int           // concurrent per-document proximity evaluations
	CacheTTL      time.Duration // query result cache lifetime, 0 disables caching
}

// serverConfigYAML is the on-disk shape. The cache TTL is a Go duration
// string ("30s", "2m") since yaml.v3 has no native time.Duration support.
type serverConfigYAML struct {
	Port          string `yaml:"port"`
	DataDir       string `yaml:"dataDir"`
	SearchWorkers int    `yaml:"searchWorkers"`
	CacheTTL      string `yaml:"cacheTTL"`
}

// DefaultServerConfig returns the configuration used when no file is given.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:          "8080",
		DataDir:       "./proximity_data",
		SearchWorkers: 4,
		CacheTTL:      30 * time.Second,
	}
}

// LoadServerConfig reads a YAML server configuration from path, filling any
// omitted values with defaults.
func LoadServerConfig(path string) (ServerConfig, error) {
	cfg := DefaultServerConfig()

	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the operator's command line
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var raw serverConfigYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if raw.Port != "" {
		cfg.Port = raw.Port
	}
	if raw.DataDir != "" {
		cfg.DataDir = raw.DataDir
	}
	if raw.SearchWorkers > 0 {
		cfg.SearchWorkers = raw.SearchWorkers
	}
	if raw.CacheTTL != "" {
		ttl, err := time.ParseDuration(raw.CacheTTL)
		if err != nil {
			return cfg, fmt.Errorf("invalid cacheTTL %q in config file %s: %w", raw.CacheTTL, path, err)
		}
		if ttl < 0 {
			ttl = 0
		}
		cfg.CacheTTL = ttl
	}
	return cfg, nil
}
