// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	xglog "github.com/ManuGH/lensd/internal/log"
)

// Loader handles configuration loading with precedence ENV > file > defaults.
type Loader struct {
	configPath string
	lookupEnv  func(string) (string, bool)
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLookupEnv replaces os.LookupEnv, mainly for tests.
func WithLookupEnv(fn func(string) (string, bool)) LoaderOption {
	return func(l *Loader) {
		if fn != nil {
			l.lookupEnv = fn
		}
	}
}

// NewLoader creates a loader. An empty configPath means ENV-only configuration.
func NewLoader(configPath string, opts ...LoaderOption) *Loader {
	l := &Loader{
		configPath: configPath,
		lookupEnv:  os.LookupEnv,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Path returns the config file path, possibly empty.
func (l *Loader) Path() string { return l.configPath }

// Load builds the configuration: defaults, then the strict-parsed file,
// then environment overrides, then validation.
func (l *Loader) Load() (Config, error) {
	cfg := Defaults()

	if l.configPath != "" {
		if err := l.mergeFile(&cfg); err != nil {
			return Config{}, fmt.Errorf("load config file: %w", err)
		}
	}

	envReader{lookup: l.lookupEnv, logger: xglog.WithComponent("config")}.apply(&cfg)

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (l *Loader) mergeFile(cfg *Config) error {
	data, err := os.ReadFile(l.configPath)
	if err != nil {
		return err
	}

	// Decoding over the defaults leaves keys absent from the file untouched.
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		if isUnknownFieldError(err) {
			return fmt.Errorf("%w: %w", ErrUnknownConfigField, err)
		}
		return fmt.Errorf("strict config parse error: %w", err)
	}

	var trailing yaml.Node
	if err := dec.Decode(&trailing); !errors.Is(err, io.EOF) {
		return ErrMultipleDocuments
	}
	return nil
}

func isUnknownFieldError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "field") && strings.Contains(msg, "not found")
}
