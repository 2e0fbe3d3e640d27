// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ManuGH/lensd/internal/api/middleware"
	"github.com/ManuGH/lensd/internal/httperr"
)

func (s *Server) routes() http.Handler {
	r := middleware.NewRouter(middleware.StackConfig{
		Observer:              s.deps.Observer,
		Metrics:               s.deps.HTTPMetrics,
		TracingService:        s.cfg.TracingService,
		EnableLogging:         s.cfg.EnableLogging,
		EnableSecurityHeaders: true,
		AllowedOrigins:        s.cfg.AllowedOrigins,
		RateLimitRPS:          s.cfg.RateLimitRPS,
	})

	r.NotFound(handle(func(_ http.ResponseWriter, r *http.Request) error {
		return httperr.NotFound(fmt.Sprintf("no route for %s", r.URL.Path))
	}))
	r.MethodNotAllowed(handle(func(_ http.ResponseWriter, r *http.Request) error {
		return httperr.New(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED",
			fmt.Sprintf("%s is not allowed on %s", r.Method, r.URL.Path))
	}))

	r.Get("/healthz", handleHealth)
	if s.deps.Gatherer != nil {
		r.Handle(s.cfg.MetricsPath, promhttp.HandlerFor(s.deps.Gatherer, promhttp.HandlerOpts{}))
	}

	if s.deps.Sessions != nil {
		r.Route("/session", func(r chi.Router) {
			r.Post("/", handle(s.handleOpenSession))
			r.Delete("/", handle(s.handleCloseSession))
			r.Get("/params", handle(s.handleSessionParams))
		})
	}

	r.Route("/queryapi/queries", func(r chi.Router) {
		r.Post("/", handle(s.handleSubmit))
		r.Get("/", handle(s.handleList))
		r.Route("/{handle}", func(r chi.Router) {
			r.Get("/", handle(s.handleGet))
			r.Delete("/", handle(s.handleCancel))
			r.Put("/status", handle(s.handleStatus))
			r.Post("/close", handle(s.handleClose))
		})
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
