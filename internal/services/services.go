// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package services is the explicit service locator shared by server
// components. A Registry is built once at startup and passed to the
// components that need late-bound collaborators.
package services

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/ManuGH/lensd/internal/metrics"
)

// MetricsServiceName is the well-known name of the counter registry.
const MetricsServiceName = "MetricsService"

var ErrAlreadyRegistered = errors.New("service already registered")

// Registry maps well-known names to running services.
type Registry struct {
	mu       sync.RWMutex
	services map[string]any
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{services: make(map[string]any)}
}

// Register publishes svc under name. Names are unique until unregistered.
func (r *Registry) Register(name string, svc any) error {
	if svc == nil {
		return fmt.Errorf("register %q: nil service", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.services[name]; ok {
		return fmt.Errorf("register %q: %w", name, ErrAlreadyRegistered)
	}
	r.services[name] = svc
	return nil
}

// Unregister removes name; it reports whether anything was removed.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.services[name]; !ok {
		return false
	}
	delete(r.services, name)
	return true
}

// Get returns the service registered under name.
func (r *Registry) Get(name string) (any, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	svc, ok := r.services[name]
	return svc, ok
}

// Names lists registered service names in order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.services))
	for n := range r.services {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Metrics returns the counter registry if one is registered and started.
func (r *Registry) Metrics() (*metrics.Registry, bool) {
	svc, ok := r.Get(MetricsServiceName)
	if !ok {
		return nil, false
	}
	m, ok := svc.(*metrics.Registry)
	return m, ok && m != nil
}
