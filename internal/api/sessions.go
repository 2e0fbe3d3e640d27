// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package api

import (
	"net/http"

	"github.com/ManuGH/lensd/internal/httperr"
)

type openSessionRequest struct {
	Username string            `json:"username"`
	Database string            `json:"database,omitempty"`
	Params   map[string]string `json:"params,omitempty"`
}

type paramsResponse struct {
	Params map[string]string `json:"params"`
}

func (s *Server) handleOpenSession(w http.ResponseWriter, r *http.Request) error {
	var req openSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	sess, err := s.deps.Sessions.Open(r.Context(), req.Username, req.Database, req.Params)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, sess)
	return nil
}

func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) error {
	id, err := sessionParam(r)
	if err != nil {
		return err
	}
	if err := s.deps.Sessions.Close(r.Context(), id); err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "closed"})
	return nil
}

func (s *Server) handleSessionParams(w http.ResponseWriter, r *http.Request) error {
	id, err := sessionParam(r)
	if err != nil {
		return err
	}
	params, err := s.deps.Sessions.Params(id, r.URL.Query().Get("key"))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, paramsResponse{Params: params})
	return nil
}

func sessionParam(r *http.Request) (string, error) {
	id := r.URL.Query().Get("sessionid")
	if id == "" {
		return "", httperr.BadRequest("sessionid is required")
	}
	return id, nil
}
