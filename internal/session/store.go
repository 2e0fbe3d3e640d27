// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package session keeps the client sessions that scope query calls.
// A session is opened with a user and optional parameters, and every
// query submitted or listed names the session it belongs to.
package session

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ManuGH/lensd/internal/httperr"
	"github.com/ManuGH/lensd/internal/log"
)

// Session is the client-visible state of one open session.
type Session struct {
	ID       string            `json:"sessionId"`
	User     string            `json:"user"`
	Database string            `json:"database,omitempty"`
	Params   map[string]string `json:"params,omitempty"`
	OpenedAt time.Time         `json:"openedAt"`
}

func (s *Session) clone() Session {
	cpy := *s
	cpy.Params = maps.Clone(s.Params)
	return cpy
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source for OpenedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store is an in-memory session table. Not durable.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	now    func() time.Time
	logger zerolog.Logger
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		sessions: make(map[string]*Session),
		now:      time.Now,
		logger:   log.WithComponent("session"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open registers a new session for user. Params are copied.
func (s *Store) Open(ctx context.Context, user, database string, params map[string]string) (Session, error) {
	user = strings.TrimSpace(user)
	if user == "" {
		return Session{}, httperr.BadRequest("username is required")
	}
	sess := &Session{
		ID:       uuid.NewString(),
		User:     user,
		Database: strings.TrimSpace(database),
		Params:   maps.Clone(params),
		OpenedAt: s.now(),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	out := sess.clone()
	s.mu.Unlock()

	logger := log.WithContext(ctx, s.logger)
	logger.Info().
		Str(log.FieldEvent, "session.opened").
		Str(log.FieldSession, sess.ID).
		Str("user", sess.User).
		Msg("session opened")
	return out, nil
}

// Get returns the open session id.
func (s *Store) Get(id string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, notFound(id)
	}
	return sess.clone(), nil
}

// Active reports an error unless id names an open session.
func (s *Store) Active(id string) error {
	if strings.TrimSpace(id) == "" {
		return httperr.BadRequest("sessionid is required")
	}
	s.mu.RLock()
	_, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return notFound(id)
	}
	return nil
}

// Params returns the session parameters. A non-empty key narrows the result
// to that single parameter and fails when it is not set.
func (s *Store) Params(id, key string) (map[string]string, error) {
	sess, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if key == "" {
		if sess.Params == nil {
			return map[string]string{}, nil
		}
		return sess.Params, nil
	}
	v, ok := sess.Params[key]
	if !ok {
		return nil, httperr.NotFound(fmt.Sprintf("param %q is not set on session %s", key, id))
	}
	return map[string]string{key: v}, nil
}

// Close removes the session. Closing an unknown session fails.
func (s *Store) Close(ctx context.Context, id string) error {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return notFound(id)
	}

	logger := log.WithContext(ctx, s.logger)
	logger.Info().
		Str(log.FieldEvent, "session.closed").
		Str(log.FieldSession, id).
		Msg("session closed")
	return nil
}

// Len returns the number of open sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func notFound(id string) error {
	return httperr.NotFound(fmt.Sprintf("session %s not found", id))
}
