// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package middleware

import (
	"context"
	"errors"
	"net/http"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ManuGH/lensd/internal/httperr"
	"github.com/ManuGH/lensd/internal/listener"
	"github.com/ManuGH/lensd/internal/log"
	"github.com/ManuGH/lensd/internal/telemetry"
)

// Observer receives request lifecycle notifications.
type Observer interface {
	OnEvent(n listener.Notification)
}

type reporterKey struct{}

type reporter struct {
	obs    Observer
	method string
	path   string
	reqID  string
}

func (rp *reporter) notify(kind listener.Kind, err error) {
	rp.obs.OnEvent(listener.Notification{
		Kind:      kind,
		Err:       err,
		Method:    rp.method,
		Path:      rp.path,
		RequestID: rp.reqID,
	})
}

// Lifecycle raises STARTED before the handler runs and FINISHED after it
// returns, and lets downstream code raise ERROR through ReportError. A
// panicking handler is reported as an error before the panic continues to
// Recoverer.
func Lifecycle(obs Observer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if obs == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rp := &reporter{
				obs:    obs,
				method: r.Method,
				path:   r.URL.Path,
				reqID:  log.RequestIDFromContext(r.Context()),
			}
			rp.notify(listener.KindStarted, nil)
			defer rp.notify(listener.KindFinished, nil)

			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}
				pe := NewPanicError(rec)
				rp.notify(listener.KindError, pe)
				panic(pe)
			}()

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), reporterKey{}, rp)))
		})
	}
}

// ReportError raises an ERROR notification for the request in ctx and marks
// the active span. It reports false when ctx carries no lifecycle.
func ReportError(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.RecordError(err)
		span.SetAttributes(telemetry.ErrorAttributes(
			listener.ErrorTypeScope(err),
			httperr.Classify(err).String(),
		)...)
		if httperr.StatusOf(err) >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, err.Error())
		}
	}
	rp, ok := ctx.Value(reporterKey{}).(*reporter)
	if !ok {
		return false
	}
	rp.notify(listener.KindError, err)
	return true
}
