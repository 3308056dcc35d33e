package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure
type Config struct {
	Version     int            `yaml:"version"`
	Database    DatabaseConfig `yaml:"database"`
	Credentials Credentials    `yaml:"credentials"`
	Targets     TargetConfig   `yaml:"targets"`
	Behavior    BehaviorConfig `yaml:"behavior"`
}

// DatabaseConfig locates the discovery database
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// Credentials holds the device login used for all targets.
// Secret is the enable password; empty falls back to Password.
type Credentials struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Secret   string `yaml:"secret,omitempty"`
}

// TargetConfig lists what to discover
type TargetConfig struct {
	// Devices are known switches to walk directly
	Devices []DeviceTarget `yaml:"devices,omitempty"`
	// ScanCIDRs are swept for SSH-reachable candidates before walking
	ScanCIDRs []string `yaml:"scan_cidrs,omitempty"`
}

// DeviceTarget is a single switch to discover
type DeviceTarget struct {
	IP     string `yaml:"ip"`
	Vendor string `yaml:"vendor,omitempty"` // defaults to cisco
}

// BehaviorConfig tunes discovery pacing
type BehaviorConfig struct {
	// MaxConcurrent limits parallel device sessions
	MaxConcurrent int `yaml:"max_concurrent,omitempty"`
	// ConnectTimeout bounds SSH establishment per device
	ConnectTimeout Duration `yaml:"connect_timeout,omitempty"`
	// CommandTimeout bounds a single command round-trip
	CommandTimeout Duration `yaml:"command_timeout,omitempty"`
	// Interval between discovery sweeps; zero means run once
	Interval Duration `yaml:"interval,omitempty"`
}

// Duration is a time.Duration that YAML-encodes as a string like "30s"
type Duration time.Duration

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// MarshalYAML encodes the duration in time.Duration string form
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML accepts "30s" style strings
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}
