// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Environment keys.
const (
	EnvListenAddr      = "LENSD_LISTEN_ADDR"
	EnvLogLevel        = "LENSD_LOG_LEVEL"
	EnvLogService      = "LENSD_LOG_SERVICE"
	EnvShutdownTimeout = "LENSD_SHUTDOWN_TIMEOUT"
	EnvPublishTimeout  = "LENSD_PUBLISH_TIMEOUT"
	EnvMetricsEnabled  = "LENSD_METRICS_ENABLED"
	EnvMetricsPath     = "LENSD_METRICS_PATH"
	EnvRateLimit       = "LENSD_RATELIMIT_ENABLED"
	EnvRateLimitRPS    = "LENSD_RATELIMIT_RPS"
	EnvTracingEnabled  = "LENSD_TRACING_ENABLED"
	EnvTracingExporter = "LENSD_TRACING_EXPORTER"
	EnvTracingEndpoint = "LENSD_TRACING_ENDPOINT"
	EnvTracingSampling = "LENSD_TRACING_SAMPLING_RATE"
	EnvCORSOrigins     = "LENSD_CORS_ALLOWED_ORIGINS"
)

// envReader overlays environment values. Malformed values are logged and
// ignored so the lower-precedence value stays in effect.
type envReader struct {
	lookup func(string) (string, bool)
	logger zerolog.Logger
}

func (e envReader) get(key string) (string, bool) {
	v, ok := e.lookup(key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func (e envReader) rejected(key, value string, err error) {
	e.logger.Warn().
		Err(err).
		Str("key", key).
		Str("value", value).
		Str("event", "config.env_invalid").
		Msg("ignoring malformed environment variable")
}

func (e envReader) setString(key string, dst *string) {
	if v, ok := e.get(key); ok {
		*dst = v
	}
}

func (e envReader) setBool(key string, dst *bool) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.rejected(key, v, err)
		return
	}
	*dst = b
}

func (e envReader) setInt(key string, dst *int) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		e.rejected(key, v, err)
		return
	}
	*dst = i
}

func (e envReader) setFloat(key string, dst *float64) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.rejected(key, v, err)
		return
	}
	*dst = f
}

func (e envReader) setDuration(key string, dst *time.Duration) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.rejected(key, v, err)
		return
	}
	*dst = d
}

func (e envReader) setList(key string, dst *[]string) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	*dst = out
}

func (e envReader) apply(cfg *Config) {
	e.setString(EnvListenAddr, &cfg.ListenAddr)
	e.setString(EnvLogLevel, &cfg.LogLevel)
	e.setString(EnvLogService, &cfg.LogService)
	e.setDuration(EnvShutdownTimeout, &cfg.ShutdownTimeout)
	e.setDuration(EnvPublishTimeout, &cfg.PublishTimeout)
	e.setBool(EnvMetricsEnabled, &cfg.Metrics.Enabled)
	e.setString(EnvMetricsPath, &cfg.Metrics.Path)
	e.setBool(EnvRateLimit, &cfg.RateLimit.Enabled)
	e.setInt(EnvRateLimitRPS, &cfg.RateLimit.RPS)
	e.setBool(EnvTracingEnabled, &cfg.Tracing.Enabled)
	e.setString(EnvTracingExporter, &cfg.Tracing.Exporter)
	e.setString(EnvTracingEndpoint, &cfg.Tracing.Endpoint)
	e.setFloat(EnvTracingSampling, &cfg.Tracing.SamplingRate)
	e.setList(EnvCORSOrigins, &cfg.CORS.AllowedOrigins)
}
