// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func attrMap(attrs []attribute.KeyValue) map[string]attribute.Value {
	out := make(map[string]attribute.Value, len(attrs))
	for _, a := range attrs {
		out[string(a.Key)] = a.Value
	}
	return out
}

func TestHTTPAttributes(t *testing.T) {
	m := attrMap(HTTPAttributes("GET", "/queryapi/queries/{handle}", "/queryapi/queries/abc", 404))
	assert.Len(t, m, 4)
	assert.Equal(t, "GET", m[HTTPMethodKey].AsString())
	assert.Equal(t, "/queryapi/queries/{handle}", m[HTTPRouteKey].AsString())
	assert.Equal(t, "/queryapi/queries/abc", m[HTTPURLKey].AsString())
	assert.Equal(t, int64(404), m[HTTPStatusCodeKey].AsInt64())
}

func TestQueryAttributes(t *testing.T) {
	assert.Empty(t, QueryAttributes("", "", ""))

	m := attrMap(QueryAttributes("h-1", "RUNNING", "FAILED"))
	assert.Equal(t, "h-1", m[QueryHandleKey].AsString())
	assert.Equal(t, "RUNNING", m[QueryPreviousKey].AsString())
	assert.Equal(t, "FAILED", m[QueryStatusKey].AsString())

	assert.Len(t, QueryAttributes("h-1", "", "QUEUED"), 2)
}

func TestErrorAttributes(t *testing.T) {
	m := attrMap(ErrorAttributes("error:NOT_FOUND", "client"))
	assert.True(t, m[ErrorKey].AsBool())
	assert.Equal(t, "error:NOT_FOUND", m[ErrorTypeKey].AsString())
	assert.Equal(t, "client", m[ErrorClassKey].AsString())
}
