package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port string

	// Analysis backend
	APIURL         string
	APIKey         string
	GatewayTimeout time.Duration

	// Auth for the HTTP surface; disabled when empty
	AuthKey string

	// Review session
	OriginalLanguage string
	PreviewChars     int

	// Upload limits
	MaxUploadBytes int64

	LogLevel string

	// Optional YAML overlay
	ConfigFile string
}

// fileConfig is the YAML overlay. Zero values leave the env value alone.
type fileConfig struct {
	Port             string `yaml:"port"`
	APIURL           string `yaml:"api_url"`
	APIKey           string `yaml:"api_key"`
	GatewayTimeout   string `yaml:"gateway_timeout"`
	AuthKey          string `yaml:"auth_key"`
	OriginalLanguage string `yaml:"original_language"`
	PreviewChars     int    `yaml:"preview_chars"`
	MaxUploadBytes   int64  `yaml:"max_upload_bytes"`
	LogLevel         string `yaml:"log_level"`
}

// Load reads the environment and applies the LEXPLAIN_CONFIG overlay if set.
func Load() (Config, error) {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIURL:         envOr("LEXPLAIN_API_URL", "http://localhost:5000"),
		APIKey:         os.Getenv("LEXPLAIN_API_KEY"),
		GatewayTimeout: envDuration("GATEWAY_TIMEOUT", 120*time.Second),

		AuthKey: os.Getenv("LEXPLAIN_AUTH_KEY"),

		OriginalLanguage: envOr("ORIGINAL_LANGUAGE", "en"),
		PreviewChars:     envInt("PREVIEW_CHARS", 500),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		LogLevel:   envOr("LOG_LEVEL", "info"),
		ConfigFile: os.Getenv("LEXPLAIN_CONFIG"),
	}

	if cfg.ConfigFile != "" {
		if err := cfg.ApplyFile(cfg.ConfigFile); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// ApplyFile overlays the non-zero values of a YAML file.
func (c *Config) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	overlay(&c.Port, fc.Port)
	overlay(&c.APIURL, fc.APIURL)
	overlay(&c.APIKey, fc.APIKey)
	overlay(&c.AuthKey, fc.AuthKey)
	overlay(&c.OriginalLanguage, fc.OriginalLanguage)
	overlay(&c.LogLevel, fc.LogLevel)
	if fc.GatewayTimeout != "" {
		d, err := time.ParseDuration(fc.GatewayTimeout)
		if err != nil {
			return fmt.Errorf("gateway_timeout: %w", err)
		}
		c.GatewayTimeout = d
	}
	if fc.PreviewChars != 0 {
		c.PreviewChars = fc.PreviewChars
	}
	if fc.MaxUploadBytes != 0 {
		c.MaxUploadBytes = fc.MaxUploadBytes
	}
	return nil
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func (c Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("LEXPLAIN_API_URL must be an absolute http(s) URL, got %q", c.APIURL)
	}
	if strings.TrimSpace(c.OriginalLanguage) == "" {
		return fmt.Errorf("ORIGINAL_LANGUAGE is required")
	}
	if c.GatewayTimeout <= 0 {
		return fmt.Errorf("GATEWAY_TIMEOUT must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	if c.PreviewChars <= 0 {
		return fmt.Errorf("PREVIEW_CHARS must be positive")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel maps LOG_LEVEL to a slog level.
func (c Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return lvl, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
