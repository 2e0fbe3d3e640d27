// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package event models the terminal outcome of a query as immutable values.
//
// Constructors validate the state carried by each type, so a value of type
// *QuerySuccess always describes a query that reached SUCCESSFUL. Values have
// no setters and construction has no side effects.
package event

import (
	"time"

	"github.com/ManuGH/lensd/internal/query/model"
)

// QueryOutcomeEvent is a state transition of one query.
type QueryOutcomeEvent interface {
	EventTime() time.Time
	Previous() model.Status
	Current() model.Status
	Handle() model.Handle
}

// Ended is implemented by every terminal outcome.
type Ended interface {
	QueryOutcomeEvent
	Cause() error
	Message() string
}

type transition struct {
	eventTime time.Time
	previous  model.Status
	current   model.Status
	handle    model.Handle
}

func (t transition) EventTime() time.Time   { return t.eventTime }
func (t transition) Previous() model.Status { return t.previous }
func (t transition) Current() model.Status  { return t.current }
func (t transition) Handle() model.Handle   { return t.handle }

type ended struct {
	transition
	cause   error
	message string
}

func (e ended) Cause() error    { return e.cause }
func (e ended) Message() string { return e.message }

func newEnded(eventTime time.Time, previous, current model.Status, handle model.Handle, cause error, message string) (ended, error) {
	if err := CheckTerminal(current); err != nil {
		return ended{}, err
	}
	return ended{
		transition: transition{
			eventTime: eventTime,
			previous:  previous,
			current:   current,
			handle:    handle,
		},
		cause:   cause,
		message: message,
	}, nil
}

// QueryEnded is the shared terminal outcome. Its current state is always
// terminal; cause and message are optional.
type QueryEnded struct{ ended }

// NewQueryEnded fails with ErrInvariantViolation when current is not terminal.
func NewQueryEnded(eventTime time.Time, previous, current model.Status, handle model.Handle, cause error, message string) (*QueryEnded, error) {
	e, err := newEnded(eventTime, previous, current, handle, cause, message)
	if err != nil {
		return nil, err
	}
	return &QueryEnded{e}, nil
}

// QuerySuccess is fired when a query completes successfully. It never
// carries a cause or message.
type QuerySuccess struct{ ended }

// NewQuerySuccess fails with ErrInvariantViolation unless current is SUCCESSFUL.
func NewQuerySuccess(eventTime time.Time, previous, current model.Status, handle model.Handle) (*QuerySuccess, error) {
	e, err := newEnded(eventTime, previous, current, handle, nil, "")
	if err != nil {
		return nil, err
	}
	if err := CheckState(current, model.StatusSuccessful); err != nil {
		return nil, err
	}
	return &QuerySuccess{e}, nil
}
