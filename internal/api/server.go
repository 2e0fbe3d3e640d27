// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package api serves the query API over HTTP.
package api

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ManuGH/lensd/internal/api/middleware"
	"github.com/ManuGH/lensd/internal/query/model"
	"github.com/ManuGH/lensd/internal/query/tracker"
	"github.com/ManuGH/lensd/internal/session"
)

// QueryService is the query status table the API fronts.
type QueryService interface {
	Submit(ctx context.Context, sessionID, query, name string) (tracker.Record, error)
	Get(h model.Handle) (tracker.Record, error)
	List(sessionID string, filter model.Status) ([]tracker.Record, error)
	Cancel(ctx context.Context, h model.Handle) (tracker.Record, error)
	Close(ctx context.Context, h model.Handle) (tracker.Record, error)
	Transition(ctx context.Context, h model.Handle, next model.Status, cause error, message string) (tracker.Record, error)
}

// SessionService opens and closes the sessions query calls are scoped to.
type SessionService interface {
	Open(ctx context.Context, user, database string, params map[string]string) (session.Session, error)
	Params(id, key string) (map[string]string, error)
	Close(ctx context.Context, id string) error
}

// Config shapes the HTTP surface.
type Config struct {
	// MetricsPath serves Prometheus exposition when Gatherer is set.
	MetricsPath string
	// TracingService names the request tracer; empty disables tracing.
	TracingService string
	RateLimitRPS   int
	AllowedOrigins []string
	EnableLogging  bool
}

// Deps are the collaborators of a Server.
type Deps struct {
	Queries QueryService
	// Sessions backs the /session routes; nil leaves them unmounted.
	Sessions SessionService
	Observer middleware.Observer
	// Gatherer backs the metrics endpoint; nil disables it.
	Gatherer prometheus.Gatherer
	// HTTPMetrics records request instruments; nil disables them.
	HTTPMetrics *middleware.HTTPMetrics
}

// Server holds the routes of the query API.
type Server struct {
	cfg  Config
	deps Deps
}

// New builds a server. Queries is required.
func New(cfg Config, deps Deps) *Server {
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "/metrics"
	}
	return &Server{cfg: cfg, deps: deps}
}

// Handler returns the configured HTTP handler with all routes and middleware applied.
func (s *Server) Handler() http.Handler {
	return s.routes()
}
