// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package problem writes RFC 7807 problem responses.
package problem

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ManuGH/lensd/internal/httperr"
	"github.com/ManuGH/lensd/internal/log"
)

const (
	// HeaderRequestID carries the request id on requests and responses.
	HeaderRequestID = "X-Request-ID"
	// JSONKeyRequestID is the problem body field holding the request id.
	JSONKeyRequestID = "requestId"

	ContentType = "application/problem+json"
	typePrefix  = "lensd/"
)

// Write writes a problem response.
//
//   - type: machine identifier, e.g. "lensd/not_found"
//   - title: short label, e.g. "Not Found"
//   - code: stable short code, e.g. "NOT_FOUND"
//   - detail: explanation of this occurrence
func Write(w http.ResponseWriter, r *http.Request, status int, problemType, title, code, detail string, extra map[string]any) {
	instance := ""
	reqID := w.Header().Get(HeaderRequestID)
	if r != nil {
		instance = r.URL.EscapedPath()
		if id := log.RequestIDFromContext(r.Context()); id != "" {
			reqID = id
		}
	}

	res := map[string]any{
		"type":   problemType,
		"title":  title,
		"status": status,
		"code":   code,
	}
	if reqID != "" {
		res[JSONKeyRequestID] = reqID
		w.Header().Set(HeaderRequestID, reqID)
	}
	if detail != "" {
		res["detail"] = detail
	}
	if instance != "" {
		res["instance"] = instance
	}
	for k, v := range extra {
		switch k {
		case "type", "title", "status", "detail", "instance", "code", JSONKeyRequestID:
			log.L().Warn().Str("key", k).Str("problem_type", problemType).Msg("ignoring reserved key in problem extras")
			continue
		}
		res[k] = v
	}

	w.Header().Set("Content-Type", ContentType)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(res); err != nil {
		log.L().Error().
			Err(err).
			Str("type", problemType).
			Int(log.FieldStatus, status).
			Msg("failed to encode problem response")
	}
}

// Error writes err as a problem. Tagged errors keep their status, code and
// detail; anything else becomes an opaque 500 so internals do not leak.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	var he *httperr.Error
	if !errors.As(err, &he) {
		he = httperr.New(http.StatusInternalServerError, "INTERNAL", "")
	}
	detail := he.Detail
	if he.Status >= http.StatusInternalServerError {
		detail = "an unexpected error occurred"
	}
	Write(w, r, he.Status, TypeFor(he.Code), he.Title(), he.Code, detail, nil)
}

// TypeFor maps a code such as NOT_FOUND onto a problem type.
func TypeFor(code string) string {
	return typePrefix + strings.ToLower(code)
}
