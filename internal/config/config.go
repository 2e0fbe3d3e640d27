// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package config loads lensd configuration from defaults, a YAML file and
// LENSD_* environment variables, in increasing order of precedence.
package config

import (
	"time"
)

// Config is the complete process configuration.
type Config struct {
	ListenAddr      string          `yaml:"listenAddr"`
	LogLevel        string          `yaml:"logLevel"`
	LogService      string          `yaml:"logService"`
	ShutdownTimeout time.Duration   `yaml:"shutdownTimeout"`
	PublishTimeout  time.Duration   `yaml:"publishTimeout"`
	Metrics         MetricsConfig   `yaml:"metrics"`
	RateLimit       RateLimitConfig `yaml:"rateLimit"`
	Tracing         TracingConfig   `yaml:"tracing"`
	CORS            CORSConfig      `yaml:"cors"`
}

// MetricsConfig controls Prometheus exposition.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// RateLimitConfig controls per-client request limiting.
type RateLimitConfig struct {
	Enabled bool `yaml:"enabled"`
	RPS     int  `yaml:"rps"`
}

// TracingConfig controls OpenTelemetry export.
type TracingConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Exporter     string  `yaml:"exporter"`
	Endpoint     string  `yaml:"endpoint"`
	SamplingRate float64 `yaml:"samplingRate"`
}

// CORSConfig lists browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		ListenAddr:      ":8080",
		LogLevel:        "info",
		LogService:      "lensd",
		ShutdownTimeout: 15 * time.Second,
		PublishTimeout:  250 * time.Millisecond,
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		RateLimit: RateLimitConfig{
			Enabled: false,
			RPS:     50,
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "grpc",
			Endpoint:     "localhost:4317",
			SamplingRate: 0.1,
		},
	}
}

// Clone returns a deep copy of c.
func (c Config) Clone() Config {
	out := c
	if c.CORS.AllowedOrigins != nil {
		out.CORS.AllowedOrigins = append([]string(nil), c.CORS.AllowedOrigins...)
	}
	return out
}
