// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package tracker keeps the in-memory status table of submitted queries and
// publishes an outcome event whenever a query reaches a terminal state.
//
// The tracker does not execute anything. An execution engine reports
// progress through Transition; clients submit, inspect, cancel and close.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ManuGH/lensd/internal/bus"
	"github.com/ManuGH/lensd/internal/httperr"
	"github.com/ManuGH/lensd/internal/log"
	"github.com/ManuGH/lensd/internal/query/event"
	"github.com/ManuGH/lensd/internal/query/model"
)

const (
	defaultPublishTimeout = 250 * time.Millisecond
	cancelMessage         = "canceled by user"
)

// Publisher is the outcome sink the tracker writes to.
type Publisher interface {
	Publish(ctx context.Context, topic string, msg bus.Message) error
}

// SessionChecker validates the session a call is scoped to.
type SessionChecker interface {
	Active(id string) error
}

// Record is the client-visible state of one query.
type Record struct {
	Handle      model.Handle `json:"handle"`
	SessionID   string       `json:"sessionId"`
	Name        string       `json:"name,omitempty"`
	Query       string       `json:"query"`
	Status      model.Status `json:"status"`
	Message     string       `json:"message,omitempty"`
	Error       string       `json:"error,omitempty"`
	SubmittedAt time.Time    `json:"submittedAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	FinishedAt  time.Time    `json:"finishedAt,omitzero"`
}

// Finished mirrors the client notion of a query that will not change again
// except for being closed.
func (r Record) Finished() bool { return r.Status.IsTerminal() }

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides the time source used for event and record timestamps.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// WithPublishTimeout bounds how long a transition waits on slow subscribers.
func WithPublishTimeout(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.publishTimeout = d
		}
	}
}

// WithSessions rejects Submit and List calls whose session is not open.
func WithSessions(sc SessionChecker) Option {
	return func(t *Tracker) {
		t.sessions = sc
	}
}

// Tracker is safe for concurrent use.
type Tracker struct {
	mu      sync.RWMutex
	records map[model.Handle]*Record

	sessions       SessionChecker
	pub            Publisher
	now            func() time.Time
	publishTimeout time.Duration
	logger         zerolog.Logger
}

// New returns an empty tracker publishing outcomes to pub (may be nil).
func New(pub Publisher, opts ...Option) *Tracker {
	t := &Tracker{
		records:        make(map[model.Handle]*Record),
		pub:            pub,
		now:            time.Now,
		publishTimeout: defaultPublishTimeout,
		logger:         log.WithComponent("tracker"),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Submit registers a new query in QUEUED under session.
func (t *Tracker) Submit(ctx context.Context, session, query, name string) (Record, error) {
	if err := t.checkSession(session); err != nil {
		return Record{}, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return Record{}, httperr.BadRequest("query text is required")
	}
	now := t.now()
	rec := &Record{
		Handle:      model.NewHandle(),
		SessionID:   session,
		Name:        strings.TrimSpace(name),
		Query:       query,
		Status:      model.StatusQueued,
		SubmittedAt: now,
		UpdatedAt:   now,
	}

	t.mu.Lock()
	t.records[rec.Handle] = rec
	t.mu.Unlock()

	logger := log.WithContext(ctx, t.logger)
	logger.Info().
		Str(log.FieldEvent, "query.submitted").
		Str(log.FieldHandle, rec.Handle.String()).
		Str(log.FieldSession, session).
		Str("name", rec.Name).
		Msg("query submitted")
	return *rec, nil
}

// Get returns the record for h.
func (t *Tracker) Get(h model.Handle) (Record, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	rec, ok := t.records[h]
	if !ok {
		return Record{}, httperr.NotFound(fmt.Sprintf("query %s not found", h))
	}
	return *rec, nil
}

// List returns the records of session in submission order, optionally
// filtered by status. An empty filter returns every status.
func (t *Tracker) List(session string, filter model.Status) ([]Record, error) {
	if err := t.checkSession(session); err != nil {
		return nil, err
	}
	t.mu.RLock()
	out := make([]Record, 0, len(t.records))
	for _, rec := range t.records {
		if rec.SessionID != session {
			continue
		}
		if filter == "" || rec.Status == filter {
			out = append(out, *rec)
		}
	}
	t.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].SubmittedAt.Before(out[j].SubmittedAt)
		}
		return out[i].Handle.String() < out[j].Handle.String()
	})
	return out, nil
}

func (t *Tracker) checkSession(id string) error {
	if strings.TrimSpace(id) == "" {
		return httperr.BadRequest("sessionid is required")
	}
	if t.sessions == nil {
		return nil
	}
	return t.sessions.Active(id)
}

// Cancel moves a running query to CANCELED.
func (t *Tracker) Cancel(ctx context.Context, h model.Handle) (Record, error) {
	return t.Transition(ctx, h, model.StatusCanceled, nil, cancelMessage)
}

// Close moves a finished query to CLOSED.
func (t *Tracker) Close(ctx context.Context, h model.Handle) (Record, error) {
	return t.Transition(ctx, h, model.StatusClosed, nil, "")
}

// Transition applies a status change reported by the engine or a client.
// Entering a terminal state publishes the matching outcome event.
func (t *Tracker) Transition(ctx context.Context, h model.Handle, next model.Status, cause error, message string) (Record, error) {
	if !next.IsValid() {
		return Record{}, httperr.BadRequest(fmt.Sprintf("unknown status %q", next))
	}
	p, err := normalizePayload(next, cause, message)
	if err != nil {
		return Record{}, err
	}

	t.mu.Lock()
	rec, ok := t.records[h]
	if !ok {
		t.mu.Unlock()
		return Record{}, httperr.NotFound(fmt.Sprintf("query %s not found", h))
	}
	prev := rec.Status
	if err := checkTransition(prev, next); err != nil {
		t.mu.Unlock()
		return Record{}, err
	}

	now := t.now()
	var outcome event.Ended
	if next.IsTerminal() {
		outcome, err = event.Terminal(now, prev, next, h, p.cause, p.message)
		if err != nil {
			t.mu.Unlock()
			return Record{}, httperr.Internal(err)
		}
	}

	rec.Status = next
	rec.UpdatedAt = now
	if next.IsTerminal() && next != model.StatusClosed {
		rec.FinishedAt = now
		rec.Message = p.message
		if p.cause != nil {
			rec.Error = p.cause.Error()
		}
	}
	snapshot := *rec
	t.mu.Unlock()

	logger := log.WithContext(ctx, t.logger)
	logger.Info().
		Str(log.FieldEvent, "query.transition").
		Str(log.FieldHandle, h.String()).
		Str(log.FieldOldState, string(prev)).
		Str(log.FieldNewState, string(next)).
		Msg("query state changed")

	if outcome != nil {
		t.publish(ctx, logger, outcome)
	}
	return snapshot, nil
}

func (t *Tracker) publish(ctx context.Context, logger zerolog.Logger, outcome event.Ended) {
	if t.pub == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), t.publishTimeout)
	defer cancel()
	if err := t.pub.Publish(pubCtx, bus.TopicFor(outcome.Current()), outcome); err != nil {
		logger.Warn().
			Err(err).
			Str(log.FieldEvent, "query.outcome_publish_failed").
			Str(log.FieldHandle, outcome.Handle().String()).
			Msg("failed to publish query outcome")
	}
}

var stageOrder = map[model.Status]int{
	model.StatusQueued:   0,
	model.StatusLaunched: 1,
	model.StatusRunning:  2,
	model.StatusExecuted: 3,
}

func checkTransition(prev, next model.Status) error {
	switch {
	case prev == next:
		return httperr.Conflict(fmt.Sprintf("query already %s", prev))
	case prev == model.StatusClosed:
		return httperr.Conflict("query is closed")
	case next == model.StatusClosed:
		if !prev.IsTerminal() {
			return httperr.Conflict(fmt.Sprintf("query is %s; cancel it before closing", prev))
		}
		return nil
	case prev.IsTerminal():
		return httperr.Conflict(fmt.Sprintf("query already finished as %s", prev))
	case next.IsTerminal():
		return nil
	case stageOrder[next] < stageOrder[prev]:
		return httperr.Conflict(fmt.Sprintf("cannot move query from %s back to %s", prev, next))
	default:
		return nil
	}
}

type payload struct {
	cause   error
	message string
}

func normalizePayload(next model.Status, cause error, message string) (payload, error) {
	p := payload{cause: cause, message: strings.TrimSpace(message)}
	switch next {
	case model.StatusFailed:
		if p.cause == nil {
			if p.message == "" {
				return payload{}, httperr.BadRequest("a failed query needs an error or message")
			}
			p.cause = errors.New(p.message)
		}
	case model.StatusCanceled:
		if p.message == "" {
			p.message = cancelMessage
		}
	case model.StatusSuccessful, model.StatusClosed:
		if p.cause != nil || p.message != "" {
			return payload{}, httperr.BadRequest(fmt.Sprintf("a %s query carries no error payload", strings.ToLower(string(next))))
		}
	default:
		if p.cause != nil {
			return payload{}, httperr.BadRequest(fmt.Sprintf("status %s carries no error", next))
		}
		p.message = ""
	}
	return p, nil
}
