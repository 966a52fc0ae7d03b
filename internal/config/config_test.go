package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"servicehub/internal/classifier"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "servicehub.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.False(t, cfg.Upstream.Enabled())
	assert.Equal(t, classifier.DefaultPolicy(), cfg.Classifier)
}

func TestLoadConfig_OverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
upstream:
  url: "http://localhost:9000/services"
  timeout_sec: 5
classifier:
  denylist_tokens: ["lorem", "ipsum"]
  denylist_chars: "&;{<"
  min_name_length: 4
catalog:
  baseline_file: data/baseline.json
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, ":7070", cfg.Server.SyncAddr, "unset keys keep defaults")
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Upstream.Enabled())
	assert.Equal(t, 5, cfg.Upstream.TimeoutSec)
	assert.Equal(t, 1, cfg.Upstream.Burst)
	assert.Equal(t, []string{"lorem", "ipsum"}, cfg.Classifier.Tokens)
	assert.Equal(t, "&;{<", cfg.Classifier.Chars)
	assert.Equal(t, 4, cfg.Classifier.MinNameLength)
	assert.Equal(t, "data/baseline.json", cfg.Catalog.BaselineFile)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")

	_, err = LoadConfig(writeConfig(t, "server: [unclosed"))
	assert.ErrorContains(t, err, "failed to parse YAML")
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	cfg.ApplyEnv(envMap(map[string]string{
		EnvAddr:         ":1234",
		EnvSyncAddr:     "-",
		EnvUpstreamURL:  "https://automation.example/webhook",
		EnvLogLevel:     "debug",
		EnvBaselineFile: "/etc/servicehub/baseline.json",
	}))

	assert.Equal(t, ":1234", cfg.Server.Addr)
	assert.Equal(t, "", cfg.Server.SyncAddr)
	assert.Equal(t, "https://automation.example/webhook", cfg.Upstream.URL)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/etc/servicehub/baseline.json", cfg.Catalog.BaselineFile)

	unchanged := Default()
	unchanged.ApplyEnv(envMap(nil))
	assert.Equal(t, Default(), unchanged)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"missing addr", func(c *Config) { c.Server.Addr = " " }, ErrMissingAddr},
		{"bad body limit", func(c *Config) { c.Server.MaxBodyBytes = 0 }, ErrInvalidMaxBodyBytes},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, ErrInvalidLogLevel},
		{"bad upstream scheme", func(c *Config) { c.Upstream.URL = "ftp://x" }, ErrInvalidUpstreamURL},
		{"bad timeout", func(c *Config) { c.Upstream.TimeoutSec = 0 }, ErrInvalidTimeout},
		{"bad rate", func(c *Config) { c.Upstream.RequestsPerMinute = -1 }, ErrInvalidRate},
		{"bad burst", func(c *Config) { c.Upstream.Burst = 0 }, ErrInvalidBurst},
		{"bad min name length", func(c *Config) { c.Classifier.MinNameLength = 0 }, ErrInvalidMinNameLen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.wantErr)
		})
	}
}

func TestLoad_FromEnvPath(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: warn\n")
	t.Setenv(EnvConfigPath, path)
	t.Setenv(EnvAddr, ":8181")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, ":8181", cfg.Server.Addr)

	bad := writeConfig(t, "logging:\n  level: loud\n")
	_, err = Load(bad)
	assert.ErrorIs(t, err, ErrInvalidLogLevel)
}

func TestString(t *testing.T) {
	cfg := Default()
	assert.Contains(t, cfg.String(), "upstream=disabled")
	assert.Contains(t, cfg.String(), "baseline=built-in")
}

func TestLoadConfig_ExampleFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("..", "..", "servicehub.example.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, []string{"127.0.0.1"}, cfg.Server.TrustedProxies)
	assert.True(t, cfg.Upstream.Enabled())
	assert.Equal(t, classifier.DefaultPolicy(), cfg.Classifier)
}
