package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultSyncInterval is the controller-advertised sync interval in
// seconds when the config does not set one.
const DefaultSyncInterval = 10

// Config is the daemon configuration loaded from YAML.
type Config struct {
	// Controllers lists controller API endpoints in preference
	// order, e.g. "https://cvx01:443/api". The first reachable one
	// is used.
	Controllers []string `yaml:"controllers"`

	// Region is the controller region this adapter syncs into.
	Region string `yaml:"region"`

	// SyncInterval is the seconds between full syncs, also reported
	// to the controller at region registration.
	SyncInterval int `yaml:"sync_interval"`

	// Auth
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	// VerifyTLS controls certificate verification; defaults true.
	VerifyTLS *bool `yaml:"verify_tls"`

	// Timeout is the per-request timeout in seconds.
	Timeout int `yaml:"timeout"`

	// DataDir holds the local model database.
	DataDir string `yaml:"data_dir"`

	// MetricsAddr is the Prometheus listen address; empty disables.
	MetricsAddr string `yaml:"metrics_addr"`

	// Log settings
	LogLevel string `yaml:"log_level"`
	LogJSON  bool   `yaml:"log_json"`
}

// Load reads and validates a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.SyncInterval == 0 {
		c.SyncInterval = DefaultSyncInterval
	}
	if c.Timeout == 0 {
		c.Timeout = 30
	}
	if c.DataDir == "" {
		c.DataDir = "/var/lib/fabricsync"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate checks the config is usable.
func (c *Config) Validate() error {
	if len(c.Controllers) == 0 {
		return fmt.Errorf("config: at least one controller endpoint is required")
	}
	if c.Region == "" {
		return fmt.Errorf("config: region is required")
	}
	if c.SyncInterval < 1 {
		return fmt.Errorf("config: sync_interval must be positive")
	}
	return nil
}

// TLSVerify returns the effective certificate verification setting.
func (c *Config) TLSVerify() bool {
	if c.VerifyTLS == nil {
		return true
	}
	return *c.VerifyTLS
}

// RequestTimeout returns the per-request timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// SyncPeriod returns the sync interval as a duration.
func (c *Config) SyncPeriod() time.Duration {
	return time.Duration(c.SyncInterval) * time.Second
}
