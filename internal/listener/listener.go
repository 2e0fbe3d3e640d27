// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package listener turns request lifecycle notifications into counters.
//
// Every ERROR notification carrying an error lands in exactly one of the
// server, client or unknown buckets. Unknown errors are also handed to a
// diagnostic sink, since they usually point at a failure mode nobody has
// classified yet. When no counter registry is registered the listener does
// nothing: observability never fails a request.
package listener

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ManuGH/lensd/internal/httperr"
	xglog "github.com/ManuGH/lensd/internal/log"
	"github.com/ManuGH/lensd/internal/metrics"
)

// Scope owns the listener's aggregate counters.
const Scope = "lensd.listener.RequestListener"

// Counter names.
const (
	RequestsStarted  = "http-requests-started"
	RequestsFinished = "http-requests-finished"
	HTTPError        = "http-error"
	ServerError      = "http-server-error"
	ClientError      = "http-client-error"
	UnknownError     = "http-unknown-error"
	ErrorCount       = "count"
)

// Kind is the type of a lifecycle notification.
type Kind int

const (
	KindStarted Kind = iota + 1
	KindFinished
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindStarted:
		return "STARTED"
	case KindFinished:
		return "FINISHED"
	case KindError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Notification is raised by the serving layer for each request milestone.
type Notification struct {
	Kind      Kind
	Err       error // set on KindError only; may be nil
	Method    string
	Path      string
	RequestID string
}

// Locator resolves the counter registry at notification time.
type Locator interface {
	Metrics() (*metrics.Registry, bool)
}

// DiagnosticSink receives the full detail of unclassified errors.
type DiagnosticSink interface {
	Report(n Notification)
}

// Option configures a Listener.
type Option func(*Listener)

// WithSink replaces the default log sink.
func WithSink(sink DiagnosticSink) Option {
	return func(l *Listener) {
		if sink != nil {
			l.sink = sink
		}
	}
}

// WithLogger sets the logger used for debug output and the default sink.
func WithLogger(logger zerolog.Logger) Option {
	return func(l *Listener) {
		l.logger = logger
	}
}

// Listener consumes notifications; it is safe for concurrent use.
type Listener struct {
	locator Locator
	sink    DiagnosticSink
	logger  zerolog.Logger
}

// New builds a listener that looks up its registry through locator.
func New(locator Locator, opts ...Option) *Listener {
	l := &Listener{
		locator: locator,
		logger:  xglog.WithComponent("listener"),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.sink == nil {
		l.sink = NewLogSink(l.logger)
	}
	return l
}

// OnEvent handles one notification. It never panics on a missing registry
// and never returns an error.
func (l *Listener) OnEvent(n Notification) {
	if n.Kind == KindError && n.Err == nil {
		return
	}
	m, ok := l.registry()
	if !ok {
		l.logger.Debug().
			Str(xglog.FieldEvent, "listener.metrics_unavailable").
			Stringer("kind", n.Kind).
			Msg("metrics registry not available, skipping counters")
		return
	}

	switch n.Kind {
	case KindStarted:
		m.Increment(Scope, RequestsStarted)
	case KindFinished:
		m.Increment(Scope, RequestsFinished)
	case KindError:
		l.onError(m, n)
	}
}

func (l *Listener) onError(m *metrics.Registry, n Notification) {
	m.Increment(Scope, HTTPError)
	m.Increment(ErrorTypeScope(n.Err), ErrorCount)

	class := httperr.Classify(n.Err)
	m.Increment(Scope, BucketFor(class))
	if class == httperr.ClassUnknown {
		l.sink.Report(n)
	}
}

func (l *Listener) registry() (*metrics.Registry, bool) {
	if l == nil || l.locator == nil {
		return nil, false
	}
	return l.locator.Metrics()
}

// BucketFor maps a class to its counter name.
func BucketFor(c httperr.Class) string {
	switch c {
	case httperr.ClassServer:
		return ServerError
	case httperr.ClassClient:
		return ClientError
	default:
		return UnknownError
	}
}

// ErrorTypeScope names the per-type counter scope of err. Tagged errors use
// their stable code; others use the Go type of the innermost wrapped error.
func ErrorTypeScope(err error) string {
	var tagged *httperr.Error
	if errors.As(err, &tagged) && tagged.Code != "" {
		return "error:" + tagged.Code
	}
	return fmt.Sprintf("%T", rootCause(err))
}

func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}
