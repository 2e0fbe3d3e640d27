// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetrics_LabelsByRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	r := chi.NewRouter()
	r.Use(m.Middleware())
	r.Get("/queryapi/queries/{handle}", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"QUEUED"}`))
	})

	for _, h := range []string{"a", "b", "c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/queryapi/queries/"+h, nil))
	}

	assert.Equal(t, 1, testutil.CollectAndCount(m.duration), "one series for all handles")
	assert.Equal(t, float64(0), testutil.ToFloat64(m.inFlight))

	families, err := reg.Gather()
	require.NoError(t, err)
	var found bool
	for _, mf := range families {
		if mf.GetName() != "lensd_http_request_duration_seconds" {
			continue
		}
		found = true
		require.Len(t, mf.GetMetric(), 1)
		metric := mf.GetMetric()[0]
		assert.Equal(t, uint64(3), metric.GetHistogram().GetSampleCount())
		labels := map[string]string{}
		for _, lp := range metric.GetLabel() {
			labels[lp.GetName()] = lp.GetValue()
		}
		assert.Equal(t, "/queryapi/queries/{handle}", labels["path"])
		assert.Equal(t, "200", labels["status"])
	}
	assert.True(t, found)
}

func TestHTTPMetrics_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewHTTPMetrics(reg)
	assert.Panics(t, func() { NewHTTPMetrics(reg) })
}
