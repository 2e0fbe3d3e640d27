// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/lensd/internal/api/problem"
	"github.com/ManuGH/lensd/internal/log"
)

func serveRequestID(t *testing.T, inbound string) (ctxID, headerID string) {
	t.Helper()
	h := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		ctxID = log.RequestIDFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if inbound != "" {
		req.Header.Set(problem.HeaderRequestID, inbound)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return ctxID, rec.Header().Get(problem.HeaderRequestID)
}

func TestRequestID_Generated(t *testing.T) {
	ctxID, headerID := serveRequestID(t, "")
	require.NotEmpty(t, ctxID)
	assert.Equal(t, ctxID, headerID)
	_, err := uuid.Parse(ctxID)
	assert.NoError(t, err)
}

func TestRequestID_InboundKept(t *testing.T) {
	ctxID, headerID := serveRequestID(t, "upstream-42")
	assert.Equal(t, "upstream-42", ctxID)
	assert.Equal(t, "upstream-42", headerID)
}

func TestRequestID_InboundRejected(t *testing.T) {
	for _, bad := range []string{"has space", "new\nline", strings.Repeat("x", maxRequestIDLen+1)} {
		ctxID, _ := serveRequestID(t, bad)
		assert.NotEqual(t, bad, ctxID)
		_, err := uuid.Parse(ctxID)
		assert.NoError(t, err, "replaced with a fresh id for %q", bad)
	}
}
