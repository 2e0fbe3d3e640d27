// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/ManuGH/lensd/internal/httperr"
	"github.com/ManuGH/lensd/internal/telemetry"
)

func installRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func attrs(span sdktrace.ReadOnlySpan) map[string]any {
	out := map[string]any{}
	for _, kv := range span.Attributes() {
		out[string(kv.Key)] = kv.Value.AsInterface()
	}
	return out
}

func TestTracing_SpanPerRequest(t *testing.T) {
	sr := installRecorder(t)

	r := chi.NewRouter()
	r.Use(RequestID, Tracing("test"))
	r.Get("/queryapi/queries/{handle}", func(w http.ResponseWriter, req *http.Request) {
		ReportError(req.Context(), httperr.NotFound("query x not found"))
		w.WriteHeader(http.StatusNotFound)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/queryapi/queries/x", nil))

	spans := sr.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "GET /queryapi/queries/{handle}", span.Name())
	assert.Equal(t, codes.Ok, span.Status().Code, "4xx is not a span error")

	a := attrs(span)
	assert.Equal(t, int64(404), a[telemetry.HTTPStatusCodeKey])
	assert.Equal(t, "error:NOT_FOUND", a[telemetry.ErrorTypeKey])
	assert.Equal(t, "client", a[telemetry.ErrorClassKey])
	assert.NotEmpty(t, a[telemetry.HTTPRequestIDKey])
	require.Len(t, span.Events(), 1, "the reported error is recorded on the span")
}

func TestTracing_ServerErrorMarksSpan(t *testing.T) {
	sr := installRecorder(t)

	h := Tracing("test")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPut, "/queryapi/queries/x/status", nil))

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "PUT unmatched", spans[0].Name())
}

func TestTracing_SkipsScrapes(t *testing.T) {
	sr := installRecorder(t)

	h := Tracing("test")(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	for _, p := range []string{"/healthz", "/metrics"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}
	assert.Empty(t, sr.Ended())
}
