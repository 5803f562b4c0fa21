package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Device   DeviceConfig   `yaml:"device"`
	Poller   PollerConfig   `yaml:"poller"`
	Database DatabaseConfig `yaml:"database"`
	Webhooks WebhooksConfig `yaml:"webhooks"`
	Push     PushConfig     `yaml:"push"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	Log      LogConfig      `yaml:"log"`
	Build    BuildConfig    `yaml:"build"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// DeviceConfig describes how to reach the display device.
type DeviceConfig struct {
	Host      string        `yaml:"host"`
	TimeoutMs int           `yaml:"timeout_ms"`
	Timeout   time.Duration `yaml:"-"`
}

// PollerConfig holds the alarm poll loop configuration.
type PollerConfig struct {
	Enabled    *bool         `yaml:"enabled"`
	IntervalMs int           `yaml:"interval_ms"`
	Interval   time.Duration `yaml:"-"` // Ignored by YAML parser
}

// IsEnabled reports whether the poll loop should run. Unset means enabled.
func (p PollerConfig) IsEnabled() bool {
	return p.Enabled == nil || *p.Enabled
}

// DatabaseConfig holds the database connection configuration.
// Path is used for SQLite; DSN switches to Postgres when set.
type DatabaseConfig struct {
	Path                   string `yaml:"path"`
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// WebhooksConfig configures outbound webhook delivery.
type WebhooksConfig struct {
	TimeoutMs int           `yaml:"timeout_ms"`
	Timeout   time.Duration `yaml:"-"`
}

// PushConfig holds the optional side-channel notification settings.
// URL+Token select the HTTP sink; VAPID keys plus a browser subscription
// select web push.
type PushConfig struct {
	URL   string `yaml:"url"`
	Token string `yaml:"token"`
	Title string `yaml:"title"`

	VAPIDPublicKey  string `yaml:"vapid_public_key"`
	VAPIDPrivateKey string `yaml:"vapid_private_key"`
	Subject         string `yaml:"subject"`
	TTL             int    `yaml:"ttl"`
	Endpoint        string `yaml:"endpoint"`
	P256DH          string `yaml:"p256dh"`
	Auth            string `yaml:"auth"`
}

// MQTTConfig configures the optional MQTT event mirror.
type MQTTConfig struct {
	URL         string `yaml:"url"`
	ClientID    string `yaml:"client_id"`
	TopicPrefix string `yaml:"topic_prefix"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
}

// BuildConfig carries build metadata reported by /health.
type BuildConfig struct {
	GitSHA string `yaml:"git_sha"`
}

const (
	defaultDeviceHost    = "http://boo-display.local"
	defaultPort          = 3000
	defaultDBPath        = "./data/webhooks.db"
	defaultPollMs        = 10000
	defaultDeviceMs      = 2000
	defaultWebhookMs     = 10000
	defaultCacheTTL      = 5
	defaultPushTitle     = "Boo Display"
	defaultPushTTL       = 3600
	defaultTopicPrefix   = "boo-display"
	defaultMQTTClientID  = "boo-display-backend"
	defaultGitSHA        = "unknown"
	defaultLogLevel      = "info"
	defaultRateLimitRate = 10
	defaultRateBurst     = 5
)

// Load reads the configuration from the given path and applies environment
// overrides. A missing file is not an error. Rate limiting and response
// caching default on; an explicit zero or negative value turns them off.
func Load(path string) (*Config, error) {
	cfg := Config{
		Server: ServerConfig{
			RateLimitPerSec: defaultRateLimitRate,
			CacheTTLSeconds: defaultCacheTTL,
		},
	}

	if path != "" {
		f, err := os.Open(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			defer f.Close()
			decoder := yaml.NewDecoder(f)
			if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("decode %s: %w", path, err)
			}
		}
	}

	if err := cfg.loadFromEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Device.Host == "" {
		c.Device.Host = defaultDeviceHost
	}
	if c.Device.TimeoutMs <= 0 {
		c.Device.TimeoutMs = defaultDeviceMs
	}
	c.Device.Timeout = time.Duration(c.Device.TimeoutMs) * time.Millisecond

	if c.Server.Port <= 0 {
		c.Server.Port = defaultPort
	}
	if c.Server.RateLimitBurst <= 0 {
		c.Server.RateLimitBurst = defaultRateBurst
	}

	if c.Poller.IntervalMs <= 0 {
		c.Poller.IntervalMs = defaultPollMs
	}
	c.Poller.Interval = time.Duration(c.Poller.IntervalMs) * time.Millisecond

	if c.Database.Path == "" {
		c.Database.Path = defaultDBPath
	}

	if c.Webhooks.TimeoutMs <= 0 {
		c.Webhooks.TimeoutMs = defaultWebhookMs
	}
	c.Webhooks.Timeout = time.Duration(c.Webhooks.TimeoutMs) * time.Millisecond

	if c.Push.Title == "" {
		c.Push.Title = defaultPushTitle
	}
	if c.Push.TTL <= 0 {
		c.Push.TTL = defaultPushTTL
	}

	if c.MQTT.TopicPrefix == "" {
		c.MQTT.TopicPrefix = defaultTopicPrefix
	}
	if c.MQTT.ClientID == "" {
		c.MQTT.ClientID = defaultMQTTClientID
	}

	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
	if c.Build.GitSHA == "" {
		c.Build.GitSHA = defaultGitSHA
	}
}

// Warnings reports settings that are accepted but likely misconfigured.
func (c *Config) Warnings() []string {
	var warnings []string
	if c.Device.Timeout >= c.Poller.Interval {
		warnings = append(warnings, "device timeout is not shorter than the poll interval; slow reads will delay polling")
	}
	return warnings
}

// loadFromEnv overrides file values with environment variables.
func (c *Config) loadFromEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid %s %q: must be a positive integer", key, v)
		}
		*dst = n
		return nil
	}

	str("ESPHOME_HOST", &c.Device.Host)
	str("DB_PATH", &c.Database.Path)
	str("DATABASE_DSN", &c.Database.DSN)
	str("PUSH_URL", &c.Push.URL)
	str("PUSH_TOKEN", &c.Push.Token)
	str("VAPID_PUBLIC_KEY", &c.Push.VAPIDPublicKey)
	str("VAPID_PRIVATE_KEY", &c.Push.VAPIDPrivateKey)
	str("VAPID_SUBJECT", &c.Push.Subject)
	str("MQTT_URL", &c.MQTT.URL)
	str("MQTT_TOPIC_PREFIX", &c.MQTT.TopicPrefix)
	str("GIT_SHA", &c.Build.GitSHA)
	str("LOG_LEVEL", &c.Log.Level)

	for key, dst := range map[string]*int{
		"PORT":            &c.Server.Port,
		"POLL_INTERVAL":   &c.Poller.IntervalMs,
		"DEVICE_TIMEOUT":  &c.Device.TimeoutMs,
		"WEBHOOK_TIMEOUT": &c.Webhooks.TimeoutMs,
	} {
		if err := num(key, dst); err != nil {
			return err
		}
	}
	return nil
}
