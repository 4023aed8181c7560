// Package config loads the service configuration from the environment.
//
// A `.env` file in the working directory is loaded first when present.
// Recognized variables are mapped onto AppConfig through koanf and then
// validated.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// envKeys maps recognized environment variables onto koanf keys.
var envKeys = map[string]string{
	"PORT":                 "port",
	"HOST":                 "host",
	"RENDER_EXTERNAL_URL":  "external_url",
	"API_KEY":              "api_key",
	"UPSTREAM_BASE_URL":    "upstream_base_url",
	"UPSTREAM_TIMEOUT":     "upstream_timeout",
	"UPSTREAM_MAX_RETRIES": "upstream_max_retries",
	"UPSTREAM_CACHE_TTL":   "upstream_cache_ttl",
	"MAINTENANCE_INTERVAL": "maintenance_interval",
	"RATE_LIMIT_RPS":       "rate_limit_rps",
	"RATE_LIMIT_BURST":     "rate_limit_burst",
	"LOG_LEVEL":            "log_level",
	"LOG_PRETTY":           "log_pretty",
}

// raw mirrors the environment before values are parsed.
type raw struct {
	Port                string `koanf:"port"`
	Host                string `koanf:"host"`
	ExternalURL         string `koanf:"external_url"`
	APIKey              string `koanf:"api_key"`
	UpstreamBaseURL     string `koanf:"upstream_base_url"`
	UpstreamTimeout     string `koanf:"upstream_timeout"`
	UpstreamMaxRetries  string `koanf:"upstream_max_retries"`
	UpstreamCacheTTL    string `koanf:"upstream_cache_ttl"`
	MaintenanceInterval string `koanf:"maintenance_interval"`
	RateLimitRPS        string `koanf:"rate_limit_rps"`
	RateLimitBurst      string `koanf:"rate_limit_burst"`
	LogLevel            string `koanf:"log_level"`
	LogPretty           string `koanf:"log_pretty"`
}

type AppConfig struct {
	Port string `validate:"required,numeric"`
	Host string `validate:"required"`

	// APIKey authenticates against the upstream cities API.
	APIKey string `validate:"required"`

	UpstreamBaseURL    string        `validate:"required,url"`
	UpstreamTimeout    time.Duration `validate:"gt=0"`
	UpstreamMaxRetries int           `validate:"gte=0,lte=10"`
	UpstreamCacheTTL   time.Duration `validate:"gte=0"` // 0 disables the insights cache

	// MaintenanceInterval controls how often the cache sweep job runs.
	MaintenanceInterval time.Duration `validate:"gte=1m"`

	RateLimitRPS   float64 // <= 0 disables rate limiting
	RateLimitBurst int     `validate:"gte=0"`

	LogLevel  string `validate:"oneof=trace debug info warn error"`
	LogPretty bool
}

// Addr returns the listen address.
func (c *AppConfig) Addr() string {
	return c.Host + ":" + c.Port
}

var validate = validator.New()

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	k := koanf.New(".")
	err := k.Load(env.Provider("", ".", func(s string) string {
		return envKeys[strings.ToUpper(s)]
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	var r raw
	if err := k.Unmarshal("", &r); err != nil {
		return nil, fmt.Errorf("decode environment: %w", err)
	}

	return fromRaw(r)
}

func fromRaw(r raw) (*AppConfig, error) {
	cfg := &AppConfig{
		Port:            defaultString(r.Port, "3000"),
		Host:            r.Host,
		APIKey:          r.APIKey,
		UpstreamBaseURL: defaultString(r.UpstreamBaseURL, "https://api-ugi2pflmha-ew.a.run.app"),
		LogLevel:        strings.ToLower(defaultString(r.LogLevel, "info")),
	}

	// Hosted deployments must listen on every interface.
	switch {
	case r.ExternalURL != "":
		cfg.Host = "0.0.0.0"
	case cfg.Host == "":
		cfg.Host = "localhost"
	}

	var err error
	if cfg.UpstreamTimeout, err = parseDuration("UPSTREAM_TIMEOUT", r.UpstreamTimeout, "10s"); err != nil {
		return nil, err
	}
	if cfg.UpstreamCacheTTL, err = parseDuration("UPSTREAM_CACHE_TTL", r.UpstreamCacheTTL, "1m"); err != nil {
		return nil, err
	}
	if cfg.MaintenanceInterval, err = parseDuration("MAINTENANCE_INTERVAL", r.MaintenanceInterval, "5m"); err != nil {
		return nil, err
	}
	if cfg.UpstreamMaxRetries, err = parseInt("UPSTREAM_MAX_RETRIES", r.UpstreamMaxRetries, 2); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = parseInt("RATE_LIMIT_BURST", r.RateLimitBurst, 100); err != nil {
		return nil, err
	}
	if cfg.RateLimitRPS, err = strconv.ParseFloat(defaultString(r.RateLimitRPS, "50"), 64); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
	}
	if r.LogPretty != "" {
		if cfg.LogPretty, err = strconv.ParseBool(r.LogPretty); err != nil {
			return nil, fmt.Errorf("invalid LOG_PRETTY: %w", err)
		}
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func parseDuration(name, v, def string) (time.Duration, error) {
	d, err := time.ParseDuration(defaultString(v, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return d, nil
}

func parseInt(name, v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return n, nil
}

func defaultString(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
