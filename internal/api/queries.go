// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"

	"github.com/ManuGH/lensd/internal/httperr"
	"github.com/ManuGH/lensd/internal/query/model"
	"github.com/ManuGH/lensd/internal/query/tracker"
	"github.com/ManuGH/lensd/internal/telemetry"
)

type submitRequest struct {
	SessionID string `json:"sessionid"`
	Query     string `json:"query"`
	Name      string `json:"name,omitempty"`
}

type statusRequest struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type listResponse struct {
	Queries []tracker.Record `json:"queries"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) error {
	var req submitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	rec, err := s.deps.Queries.Submit(r.Context(), req.SessionID, req.Query, req.Name)
	if err != nil {
		return err
	}
	annotate(r, rec)
	w.Header().Set("Location", "/queryapi/queries/"+rec.Handle.String())
	writeJSON(w, http.StatusCreated, rec)
	return nil
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) error {
	var filter model.Status
	if raw := r.URL.Query().Get("state"); raw != "" {
		st, err := model.ParseStatus(raw)
		if err != nil {
			return httperr.BadRequest(err.Error())
		}
		filter = st
	}
	recs, err := s.deps.Queries.List(r.URL.Query().Get("sessionid"), filter)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, listResponse{Queries: recs})
	return nil
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) error {
	h, err := handleParam(r)
	if err != nil {
		return err
	}
	rec, err := s.deps.Queries.Get(h)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, rec)
	return nil
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) error {
	return s.apply(w, r, s.deps.Queries.Cancel)
}

func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) error {
	return s.apply(w, r, s.deps.Queries.Close)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) error {
	h, err := handleParam(r)
	if err != nil {
		return err
	}
	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	next, err := model.ParseStatus(req.Status)
	if err != nil {
		return httperr.BadRequest(err.Error())
	}
	var cause error
	if msg := strings.TrimSpace(req.Error); msg != "" {
		cause = errors.New(msg)
	}

	rec, err := s.deps.Queries.Transition(r.Context(), h, next, cause, req.Message)
	if err != nil {
		return err
	}
	annotate(r, rec)
	writeJSON(w, http.StatusOK, rec)
	return nil
}

// apply runs a handle-scoped lifecycle operation such as cancel or close.
func (s *Server) apply(w http.ResponseWriter, r *http.Request, op func(context.Context, model.Handle) (tracker.Record, error)) error {
	h, err := handleParam(r)
	if err != nil {
		return err
	}
	rec, err := op(r.Context(), h)
	if err != nil {
		return err
	}
	annotate(r, rec)
	writeJSON(w, http.StatusOK, rec)
	return nil
}

func handleParam(r *http.Request) (model.Handle, error) {
	raw := chi.URLParam(r, "handle")
	h, err := model.ParseHandle(raw)
	if err != nil {
		return model.Handle{}, httperr.BadRequest(fmt.Sprintf("malformed query handle %q", raw))
	}
	return h, nil
}

// annotate tags the request span with the query the request acted on.
func annotate(r *http.Request, rec tracker.Record) {
	span := trace.SpanFromContext(r.Context())
	if !span.IsRecording() {
		return
	}
	span.SetAttributes(telemetry.QueryAttributes(rec.Handle.String(), "", string(rec.Status))...)
}
