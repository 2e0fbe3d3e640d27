// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"github.com/ManuGH/lensd/internal/validate"
)

var exporters = []string{"grpc", "http"}

// Validate checks cfg and reports every problem at once. The result
// matches validate.ErrInvalid.
func Validate(cfg Config) error {
	v := validate.New()

	v.ListenAddr("listenAddr", cfg.ListenAddr)
	v.OneOf("logLevel", cfg.LogLevel, validate.LogLevels())
	v.NotEmpty("logService", cfg.LogService)
	v.PositiveDuration("shutdownTimeout", cfg.ShutdownTimeout)
	v.PositiveDuration("publishTimeout", cfg.PublishTimeout)

	if cfg.Metrics.Enabled {
		v.URLPath("metrics.path", cfg.Metrics.Path)
	}
	if cfg.RateLimit.Enabled {
		v.Range("rateLimit.rps", cfg.RateLimit.RPS, 1, 100000)
	}
	if cfg.Tracing.Enabled {
		v.OneOf("tracing.exporter", cfg.Tracing.Exporter, exporters)
		v.NotEmpty("tracing.endpoint", cfg.Tracing.Endpoint)
		v.RangeFloat("tracing.samplingRate", cfg.Tracing.SamplingRate, 0, 1)
	}
	for _, origin := range cfg.CORS.AllowedOrigins {
		v.NotEmpty("cors.allowedOrigins", origin)
	}

	return v.Err()
}
