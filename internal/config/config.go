// Package config provides configuration management for networkst.
//
// Config file locations (priority order):
//  1. $NETWORKST_CONFIG
//  2. ./networkst.yaml
//  3. ~/.config/networkst/config.yaml
//  4. /etc/networkst/config.yaml
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		// No config found - return defaults
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{
		Version:  1,
		Database: DatabaseConfig{Path: "./networkst.db"},
	}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Database.Path == "" {
		c.Database.Path = "./networkst.db"
	}
	if c.Behavior.MaxConcurrent == 0 {
		c.Behavior.MaxConcurrent = 5
	}
	if c.Behavior.ConnectTimeout == 0 {
		c.Behavior.ConnectTimeout = Duration(10 * time.Second)
	}
	if c.Behavior.CommandTimeout == 0 {
		c.Behavior.CommandTimeout = Duration(30 * time.Second)
	}
	for i := range c.Targets.Devices {
		if c.Targets.Devices[i].Vendor == "" {
			c.Targets.Devices[i].Vendor = "cisco"
		}
	}
}
