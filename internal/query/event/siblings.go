// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package event

import (
	"fmt"
	"time"

	"github.com/ManuGH/lensd/internal/query/model"
)

// QueryFailed is fired when a query fails. Cause is always set.
type QueryFailed struct{ ended }

// NewQueryFailed requires current == FAILED and a non-nil cause. An empty
// message defaults to the cause text.
func NewQueryFailed(eventTime time.Time, previous, current model.Status, handle model.Handle, cause error, message string) (*QueryFailed, error) {
	if cause == nil {
		return nil, fmt.Errorf("%w: failed outcome requires a cause", ErrInvariantViolation)
	}
	if message == "" {
		message = cause.Error()
	}
	e, err := newEnded(eventTime, previous, current, handle, cause, message)
	if err != nil {
		return nil, err
	}
	if err := CheckState(current, model.StatusFailed); err != nil {
		return nil, err
	}
	return &QueryFailed{e}, nil
}

// QueryCanceled is fired when a query is canceled. Message is always set.
type QueryCanceled struct{ ended }

// NewQueryCanceled requires current == CANCELED and a non-empty message.
func NewQueryCanceled(eventTime time.Time, previous, current model.Status, handle model.Handle, cause error, message string) (*QueryCanceled, error) {
	if message == "" {
		return nil, fmt.Errorf("%w: canceled outcome requires a message", ErrInvariantViolation)
	}
	e, err := newEnded(eventTime, previous, current, handle, cause, message)
	if err != nil {
		return nil, err
	}
	if err := CheckState(current, model.StatusCanceled); err != nil {
		return nil, err
	}
	return &QueryCanceled{e}, nil
}

// QueryClosed is fired when a finished query is closed and its resources
// released. Like a success, it carries no error payload.
type QueryClosed struct{ ended }

// NewQueryClosed requires current == CLOSED.
func NewQueryClosed(eventTime time.Time, previous, current model.Status, handle model.Handle) (*QueryClosed, error) {
	e, err := newEnded(eventTime, previous, current, handle, nil, "")
	if err != nil {
		return nil, err
	}
	if err := CheckState(current, model.StatusClosed); err != nil {
		return nil, err
	}
	return &QueryClosed{e}, nil
}

// Terminal builds the leaf outcome matching current. Success and closed
// outcomes reject any cause or message.
func Terminal(eventTime time.Time, previous, current model.Status, handle model.Handle, cause error, message string) (Ended, error) {
	var (
		out Ended
		err error
	)
	switch current {
	case model.StatusSuccessful, model.StatusClosed:
		if cause != nil || message != "" {
			return nil, fmt.Errorf("%w: %s outcome carries no error payload", ErrInvariantViolation, current)
		}
		if current == model.StatusClosed {
			out, err = NewQueryClosed(eventTime, previous, current, handle)
		} else {
			out, err = NewQuerySuccess(eventTime, previous, current, handle)
		}
	case model.StatusFailed:
		out, err = NewQueryFailed(eventTime, previous, current, handle, cause, message)
	case model.StatusCanceled:
		out, err = NewQueryCanceled(eventTime, previous, current, handle, cause, message)
	default:
		out, err = NewQueryEnded(eventTime, previous, current, handle, cause, message)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}
