// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Attribute keys shared by spans across lensd.
const (
	HTTPMethodKey     = "http.method"
	HTTPStatusCodeKey = "http.status_code"
	HTTPRouteKey      = "http.route"
	HTTPURLKey        = "http.url"
	HTTPRequestIDKey  = "http.request_id"

	QueryHandleKey   = "query.handle"
	QueryPreviousKey = "query.previous_status"
	QueryStatusKey   = "query.status"

	ErrorKey      = "error"
	ErrorTypeKey  = "error.type"
	ErrorClassKey = "error.class"
)

// HTTPAttributes creates common HTTP span attributes.
func HTTPAttributes(method, route, url string, statusCode int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(HTTPMethodKey, method),
		attribute.String(HTTPRouteKey, route),
		attribute.String(HTTPURLKey, url),
		attribute.Int(HTTPStatusCodeKey, statusCode),
	}
}

// QueryAttributes describes a query status change. Empty values are omitted.
func QueryAttributes(handle, previous, current string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 3)
	if handle != "" {
		attrs = append(attrs, attribute.String(QueryHandleKey, handle))
	}
	if previous != "" {
		attrs = append(attrs, attribute.String(QueryPreviousKey, previous))
	}
	if current != "" {
		attrs = append(attrs, attribute.String(QueryStatusKey, current))
	}
	return attrs
}

// ErrorAttributes marks a span as carrying a classified request error.
func ErrorAttributes(errorType, class string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(ErrorKey, true),
		attribute.String(ErrorTypeKey, errorType),
		attribute.String(ErrorClassKey, class),
	}
}
