// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	xglog "github.com/ManuGH/lensd/internal/log"
)

const defaultDebounce = 500 * time.Millisecond

// Holder holds configuration with atomic reloading capability.
type Holder struct {
	mu      sync.RWMutex
	current Config
	loader  *Loader
	logger  zerolog.Logger

	debounce time.Duration

	reloadMu        sync.RWMutex
	reloadListeners []func(old, next Config)
}

// NewHolder creates a holder with an already loaded initial config.
func NewHolder(initial Config, loader *Loader) *Holder {
	return &Holder{
		current:  initial.Clone(),
		loader:   loader,
		logger:   xglog.WithComponent("config"),
		debounce: defaultDebounce,
	}
}

// Get returns the current configuration (thread-safe read).
func (h *Holder) Get() Config {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current.Clone()
}

// OnReload registers fn to run after every successful reload. Listeners run
// synchronously on the reloading goroutine and must not block.
func (h *Holder) OnReload(fn func(old, next Config)) {
	h.reloadMu.Lock()
	defer h.reloadMu.Unlock()
	h.reloadListeners = append(h.reloadListeners, fn)
}

// Reload reloads and validates the configuration. On failure the previous
// configuration stays in effect and the error is returned.
func (h *Holder) Reload(_ context.Context) error {
	h.logger.Info().Str(xglog.FieldEvent, "config.reload_start").Msg("reloading configuration")

	next, err := h.loader.Load()
	if err != nil {
		h.logger.Error().
			Err(err).
			Str(xglog.FieldEvent, "config.reload_failed").
			Msg("new configuration rejected, keeping the current one")
		return fmt.Errorf("reload config: %w", err)
	}

	h.mu.Lock()
	old := h.current
	h.current = next.Clone()
	h.mu.Unlock()

	h.logChanges(old, next)

	h.reloadMu.RLock()
	listeners := append([]func(old, next Config){}, h.reloadListeners...)
	h.reloadMu.RUnlock()
	for _, fn := range listeners {
		fn(old.Clone(), next.Clone())
	}

	h.logger.Info().
		Str(xglog.FieldEvent, "config.reload_success").
		Msg("configuration reloaded successfully")
	return nil
}

// Watch reloads whenever the config file changes, until ctx ends. It
// watches the parent directory so editors that replace the file by rename
// are followed. With no config file it returns nil immediately.
func (h *Holder) Watch(ctx context.Context) error {
	path := h.loader.Path()
	if path == "" {
		h.logger.Info().
			Str(xglog.FieldEvent, "config.watcher_disabled").
			Msg("config file watcher disabled (using ENV-only configuration)")
		return nil
	}
	path = filepath.Clean(path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch config dir: %w", err)
	}
	h.logger.Info().
		Str(xglog.FieldEvent, "config.watcher_started").
		Str("path", path).
		Msg("watching config file for changes")

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info().Str(xglog.FieldEvent, "config.watcher_stopped").Msg("config watcher stopped")
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			h.logger.Debug().
				Str(xglog.FieldEvent, "config.file_changed").
				Str("op", ev.Op.String()).
				Msg("config file changed")
			// Debounce bursts of writes into one reload.
			if timer == nil {
				timer = time.NewTimer(h.debounce)
			} else {
				timer.Reset(h.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			// Failures are logged by Reload and leave the old config active.
			_ = h.Reload(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			h.logger.Error().
				Err(err).
				Str(xglog.FieldEvent, "config.watcher_error").
				Msg("config watcher error")
		}
	}
}

// logChanges logs the settings that differ between old and next. Only the
// log level is applied live; everything else waits for a restart.
func (h *Holder) logChanges(old, next Config) {
	if old.LogLevel != next.LogLevel {
		h.logger.Info().
			Str(xglog.FieldEvent, "config.changed").
			Str("key", "logLevel").
			Str("old", old.LogLevel).
			Str("new", next.LogLevel).
			Msg("config value changed")
	}

	var restart []string
	if old.ListenAddr != next.ListenAddr {
		restart = append(restart, "listenAddr")
	}
	if old.LogService != next.LogService {
		restart = append(restart, "logService")
	}
	if old.ShutdownTimeout != next.ShutdownTimeout || old.PublishTimeout != next.PublishTimeout {
		restart = append(restart, "timeouts")
	}
	if old.Metrics != next.Metrics {
		restart = append(restart, "metrics")
	}
	if old.RateLimit != next.RateLimit {
		restart = append(restart, "rateLimit")
	}
	if old.Tracing != next.Tracing {
		restart = append(restart, "tracing")
	}
	if !slices.Equal(old.CORS.AllowedOrigins, next.CORS.AllowedOrigins) {
		restart = append(restart, "cors")
	}
	if len(restart) > 0 {
		h.logger.Warn().
			Str(xglog.FieldEvent, "config.restart_required").
			Strs("keys", restart).
			Msg("changed settings take effect after restart")
	}
}
