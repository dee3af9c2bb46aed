// Package config loads process settings from the environment. A .env file
// in the working directory is read first when present.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	GinMode  string `env:"GIN_MODE" envDefault:"debug"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// DefaultLang is served when the request's language cannot be matched.
	DefaultLang string `env:"DEFAULT_LANG" envDefault:"en"`

	// Scroll-spy geometry, in CSS pixels.
	ReferenceLine   float64 `env:"SPY_REFERENCE_LINE" envDefault:"100"`
	ScrollThreshold float64 `env:"SPY_SCROLL_THRESHOLD" envDefault:"50"`

	// ViewTTL is how long a page view may go without reporting before its
	// controller is dropped.
	ViewTTL time.Duration `env:"VIEW_TTL" envDefault:"30m"`
	// MaxViews caps live page views; the least recently seen is evicted.
	MaxViews int `env:"VIEW_MAX" envDefault:"10000"`

	// Tracing is disabled when no collector endpoint is set.
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string `env:"OTEL_SERVICE_NAME" envDefault:"portfolio"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("GIN_MODE must be debug, release or test, got %q", c.GinMode)
	}
	if c.ViewTTL <= 0 {
		return fmt.Errorf("VIEW_TTL must be positive, got %s", c.ViewTTL)
	}
	if c.MaxViews <= 0 {
		return fmt.Errorf("VIEW_MAX must be positive, got %d", c.MaxViews)
	}
	if c.ScrollThreshold < 0 {
		return fmt.Errorf("SPY_SCROLL_THRESHOLD must not be negative, got %v", c.ScrollThreshold)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// Level maps LOG_LEVEL onto slog; unknown values fall back to info.
func (c Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
