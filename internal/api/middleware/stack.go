// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package middleware

import (
	"github.com/go-chi/chi/v5"

	"github.com/ManuGH/lensd/internal/log"
)

// StackConfig configures the HTTP ingress middleware stack.
type StackConfig struct {
	// Observer receives request lifecycle notifications; nil disables them.
	Observer Observer

	// Metrics records Prometheus request instruments; nil disables them.
	Metrics *HTTPMetrics

	// TracingService names the tracer; empty disables tracing.
	TracingService string

	EnableLogging bool

	EnableSecurityHeaders bool
	// AllowedOrigins enables CORS when non-empty.
	AllowedOrigins []string

	// RateLimitRPS enables per-client rate limiting when positive.
	RateLimitRPS int
}

// NewRouter constructs a chi router with the stack applied.
func NewRouter(cfg StackConfig) *chi.Mux {
	r := chi.NewRouter()
	ApplyStack(r, cfg)
	return r
}

// ApplyStack applies the middleware stack to r, outermost first.
func ApplyStack(r chi.Router, cfg StackConfig) {
	// 1. Recoverer (outermost safety net)
	r.Use(Recoverer)
	// 2. RequestID (correlation before anything reports)
	r.Use(RequestID)
	// 3. Lifecycle (listener notifications; sees every request that follows)
	if cfg.Observer != nil {
		r.Use(Lifecycle(cfg.Observer))
	}
	// 4. Metrics
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}
	// 5. Tracing
	if cfg.TracingService != "" {
		r.Use(Tracing(cfg.TracingService))
	}
	// 6. Logging (captures full handler latency)
	if cfg.EnableLogging {
		r.Use(log.Middleware())
	}
	// 7. Response headers
	if cfg.EnableSecurityHeaders {
		r.Use(SecurityHeaders)
	}
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(CORS(cfg.AllowedOrigins))
	}
	// 8. Rate limit (rejections still flow through everything above)
	if cfg.RateLimitRPS > 0 {
		r.Use(APIRateLimit(cfg.RateLimitRPS))
	}
}
