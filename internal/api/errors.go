// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ManuGH/lensd/internal/api/middleware"
	"github.com/ManuGH/lensd/internal/api/problem"
	"github.com/ManuGH/lensd/internal/httperr"
	"github.com/ManuGH/lensd/internal/log"
)

const maxBodyBytes = 1 << 20

// handlerFunc is an HTTP handler that reports failure by returning an error.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// handle adapts fn: a returned error is reported to the request lifecycle
// and written as a problem response.
func handle(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			fail(w, r, err)
		}
	}
}

func fail(w http.ResponseWriter, r *http.Request, err error) {
	middleware.ReportError(r.Context(), err)

	logger := log.WithComponentFromContext(r.Context(), "api")
	evt := logger.Debug()
	if httperr.Classify(err) != httperr.ClassClient {
		evt = logger.Error()
	}
	evt.Err(err).
		Str(log.FieldEvent, "request.failed").
		Str(log.FieldMethod, r.Method).
		Str(log.FieldPath, r.URL.Path).
		Str(log.FieldErrorClass, httperr.Classify(err).String()).
		Msg("request failed")

	problem.Error(w, r, err)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON reads a single strict JSON object from the request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return httperr.New(http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE",
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
		case errors.Is(err, io.EOF):
			return httperr.BadRequest("request body is empty")
		default:
			return httperr.BadRequest(fmt.Sprintf("malformed JSON body: %v", err))
		}
	}
	if dec.More() {
		return httperr.BadRequest("request body must hold a single JSON object")
	}
	return nil
}
