// Package config provides configuration management for the catalog service.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"servicehub/internal/classifier"
)

// Env overrides, applied after the YAML file.
const (
	EnvConfigPath   = "SERVICEHUB_CONFIG"
	EnvAddr         = "SERVICEHUB_ADDR"
	EnvSyncAddr     = "SERVICEHUB_SYNC_ADDR"
	EnvUpstreamURL  = "SERVICEHUB_UPSTREAM_URL"
	EnvLogLevel     = "SERVICEHUB_LOG_LEVEL"
	EnvBaselineFile = "SERVICEHUB_BASELINE_FILE"
)

// Configuration validation errors.
var (
	ErrMissingAddr         = errors.New("server.addr is required")
	ErrInvalidLogLevel     = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidTimeout      = errors.New("upstream.timeout_sec must be at least 1")
	ErrInvalidRate         = errors.New("upstream.requests_per_minute must be non-negative")
	ErrInvalidBurst        = errors.New("upstream.burst must be at least 1")
	ErrInvalidMinNameLen   = errors.New("classifier.min_name_length must be at least 1")
	ErrInvalidUpstreamURL  = errors.New("upstream.url must start with http:// or https://")
	ErrInvalidMaxBodyBytes = errors.New("server.max_body_bytes must be at least 1")
)

// Config is the complete service configuration.
type Config struct {
	Server     ServerConfig      `yaml:"server"`
	Logging    LoggingConfig     `yaml:"logging"`
	Upstream   UpstreamConfig    `yaml:"upstream"`
	Classifier classifier.Policy `yaml:"classifier"`
	Catalog    CatalogConfig     `yaml:"catalog"`
}

// ServerConfig controls the HTTP API and the TCP event stream.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	SyncAddr       string   `yaml:"sync_addr"` // empty disables the TCP stream
	TrustedProxies []string `yaml:"trusted_proxies"`
	MaxBodyBytes   int64    `yaml:"max_body_bytes"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level     string `yaml:"level"`
	AccessLog bool   `yaml:"access_log"`
}

// UpstreamConfig points at the automation source used by pull refreshes.
type UpstreamConfig struct {
	URL               string  `yaml:"url"` // empty disables /api/refresh
	TimeoutSec        int     `yaml:"timeout_sec"`
	RequestsPerMinute float64 `yaml:"requests_per_minute"`
	Burst             int     `yaml:"burst"`
}

// Timeout returns the fetch timeout as a duration.
func (u UpstreamConfig) Timeout() time.Duration {
	return time.Duration(u.TimeoutSec) * time.Second
}

// Enabled reports whether a refresh source is configured.
func (u UpstreamConfig) Enabled() bool {
	return strings.TrimSpace(u.URL) != ""
}

// CatalogConfig controls the baseline set.
type CatalogConfig struct {
	BaselineFile string `yaml:"baseline_file"` // empty uses the built-in set
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           ":8080",
			SyncAddr:       ":7070",
			TrustedProxies: []string{"127.0.0.1"},
			MaxBodyBytes:   4 << 20,
		},
		Logging: LoggingConfig{
			Level:     "info",
			AccessLog: true,
		},
		Upstream: UpstreamConfig{
			TimeoutSec:        10,
			RequestsPerMinute: 6,
			Burst:             1,
		},
		Classifier: classifier.DefaultPolicy(),
	}
}

// LoadConfig loads configuration from a YAML file on top of the defaults.
// Keys missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return cfg, nil
}

// Load resolves the effective configuration: the file at path (or
// $SERVICEHUB_CONFIG) if any, then env overrides, then validation.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}

	cfg := Default()
	if path != "" {
		var err error
		cfg, err = LoadConfig(path)
		if err != nil {
			return nil, err
		}
	}

	cfg.ApplyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from the environment. getenv is injectable for
// tests.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v, ok := lookup(getenv, EnvSyncAddr); ok {
		c.Server.SyncAddr = v
	}
	if v := getenv(EnvUpstreamURL); v != "" {
		c.Upstream.URL = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := getenv(EnvBaselineFile); v != "" {
		c.Catalog.BaselineFile = v
	}
}

// lookup treats "-" as an explicit empty value so an env var can disable
// an optional listener.
func lookup(getenv func(string) string, key string) (string, bool) {
	v := getenv(key)
	if v == "" {
		return "", false
	}
	if v == "-" {
		return "", true
	}
	return v, true
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return ErrMissingAddr
	}
	if c.Server.MaxBodyBytes < 1 {
		return ErrInvalidMaxBodyBytes
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}

	if c.Upstream.Enabled() {
		u := strings.ToLower(strings.TrimSpace(c.Upstream.URL))
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			return ErrInvalidUpstreamURL
		}
	}
	if c.Upstream.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}
	if c.Upstream.RequestsPerMinute < 0 {
		return ErrInvalidRate
	}
	if c.Upstream.Burst < 1 {
		return ErrInvalidBurst
	}

	if c.Classifier.MinNameLength < 1 {
		return ErrInvalidMinNameLen
	}

	return nil
}

// String returns a one-line summary for startup logs.
func (c *Config) String() string {
	upstream := "disabled"
	if c.Upstream.Enabled() {
		upstream = c.Upstream.URL
	}
	baseline := "built-in"
	if c.Catalog.BaselineFile != "" {
		baseline = c.Catalog.BaselineFile
	}
	return fmt.Sprintf("addr=%s sync=%s upstream=%s baseline=%s denylist=%d",
		c.Server.Addr, c.Server.SyncAddr, upstream, baseline, len(c.Classifier.Tokens))
}
