// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

// Config holds all recognized environment options. The Gemini API key is
// required for any generation but its absence is surfaced per request, not
// at startup, so a misconfigured deployment still serves typed errors.
type Config struct {
	// Gemini API
	GeminiAPIKey string `env:"GEMINI_API_KEY"`

	// Vertex AI (alternate-provider path for the Imagen model)
	GoogleCloudProject  string `env:"GOOGLE_CLOUD_PROJECT"`
	GoogleCloudLocation string `env:"GOOGLE_CLOUD_LOCATION" envDefault:"us-central1"`

	// Server
	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// VertexEnabled reports whether the Vertex-backed Imagen path is selected
// for this deployment.
func (c *Config) VertexEnabled() bool {
	return c.GoogleCloudProject != ""
}

// SlogLevel maps the configured level string to a slog.Level, defaulting
// to info for unrecognized values.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
