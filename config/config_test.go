package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://boo-display.local", cfg.Device.Host)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "./data/webhooks.db", cfg.Database.Path)
	assert.Equal(t, 10*time.Second, cfg.Poller.Interval)
	assert.Equal(t, 2*time.Second, cfg.Device.Timeout)
	assert.Equal(t, 10*time.Second, cfg.Webhooks.Timeout)
	assert.Equal(t, "unknown", cfg.Build.GitSHA)
	assert.True(t, cfg.Poller.IsEnabled())
	assert.Empty(t, cfg.Push.URL)
	assert.Equal(t, 10.0, cfg.Server.RateLimitPerSec)
	assert.Equal(t, 5, cfg.Server.CacheTTLSeconds)
}

func TestLoad_FileValues(t *testing.T) {
	path := writeFile(t, `
server:
  port: 8081
  cache_ttl_seconds: -1
device:
  host: http://10.0.0.5
  timeout_ms: 500
poller:
  enabled: false
  interval_ms: 2500
database:
  path: /tmp/boo.db
push:
  url: https://push.example.com/send
  token: secret
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, -1, cfg.Server.CacheTTLSeconds)
	assert.Equal(t, "http://10.0.0.5", cfg.Device.Host)
	assert.Equal(t, 500*time.Millisecond, cfg.Device.Timeout)
	assert.Equal(t, 2500*time.Millisecond, cfg.Poller.Interval)
	assert.False(t, cfg.Poller.IsEnabled())
	assert.Equal(t, "/tmp/boo.db", cfg.Database.Path)
	assert.Equal(t, "secret", cfg.Push.Token)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeFile(t, ""))
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, 10.0, cfg.Server.RateLimitPerSec)
	assert.Equal(t, 5, cfg.Server.CacheTTLSeconds)
}

func TestLoad_ExplicitZeroDisablesRateLimitAndCache(t *testing.T) {
	cfg, err := Load(writeFile(t, `
server:
  rate_limit_per_sec: 0
  cache_ttl_seconds: 0
`))
	require.NoError(t, err)

	assert.Zero(t, cfg.Server.RateLimitPerSec)
	assert.Zero(t, cfg.Server.CacheTTLSeconds)
	assert.Equal(t, 5, cfg.Server.RateLimitBurst)
}

func TestLoad_OmittedServerKeysKeepDefaults(t *testing.T) {
	cfg, err := Load(writeFile(t, "server:\n  port: 8081\n"))
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, 10.0, cfg.Server.RateLimitPerSec)
	assert.Equal(t, 5, cfg.Server.CacheTTLSeconds)
}

func TestConfig_Warnings(t *testing.T) {
	tests := []struct {
		name     string
		device   time.Duration
		interval time.Duration
		want     int
	}{
		{name: "timeout below interval", device: 2 * time.Second, interval: 10 * time.Second, want: 0},
		{name: "timeout equal to interval", device: 5 * time.Second, interval: 5 * time.Second, want: 1},
		{name: "timeout above interval", device: 3 * time.Second, interval: time.Second, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Device: DeviceConfig{Timeout: tt.device},
				Poller: PollerConfig{Interval: tt.interval},
			}
			warnings := cfg.Warnings()
			assert.Len(t, warnings, tt.want)
			for _, w := range warnings {
				assert.Contains(t, w, "poll interval")
			}
		})
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "server:\n  port: 8081\ndevice:\n  host: http://file-host\n")

	t.Setenv("PORT", "9090")
	t.Setenv("ESPHOME_HOST", "http://env-host")
	t.Setenv("POLL_INTERVAL", "1500")
	t.Setenv("DEVICE_TIMEOUT", "750")
	t.Setenv("DB_PATH", "/var/lib/boo/webhooks.db")
	t.Setenv("PUSH_URL", "https://ntfy.example.com/boo")
	t.Setenv("PUSH_TOKEN", "tok")
	t.Setenv("GIT_SHA", "abc123")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "http://env-host", cfg.Device.Host)
	assert.Equal(t, 1500*time.Millisecond, cfg.Poller.Interval)
	assert.Equal(t, 750*time.Millisecond, cfg.Device.Timeout)
	assert.Equal(t, "/var/lib/boo/webhooks.db", cfg.Database.Path)
	assert.Equal(t, "https://ntfy.example.com/boo", cfg.Push.URL)
	assert.Equal(t, "tok", cfg.Push.Token)
	assert.Equal(t, "abc123", cfg.Build.GitSHA)
}

func TestLoad_InvalidNumericEnv(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "soon")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POLL_INTERVAL")
}

func TestLoad_MalformedYAML(t *testing.T) {
	_, err := Load(writeFile(t, "server: [unterminated"))
	assert.Error(t, err)
}
