// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package event

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/lensd/internal/metrics"
	"github.com/ManuGH/lensd/internal/query/model"
)

var eventTime = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

type snapshot struct {
	EventTime time.Time
	Previous  model.Status
	Current   model.Status
	Handle    string
	Cause     string
	Message   string
}

func snap(e Ended) snapshot {
	s := snapshot{
		EventTime: e.EventTime(),
		Previous:  e.Previous(),
		Current:   e.Current(),
		Handle:    e.Handle().String(),
		Message:   e.Message(),
	}
	if e.Cause() != nil {
		s.Cause = e.Cause().Error()
	}
	return s
}

func nonTerminal() []model.Status {
	var out []model.Status
	for _, s := range model.Statuses() {
		if !s.IsTerminal() {
			out = append(out, s)
		}
	}
	return out
}

func TestNewQueryEnded_RejectsNonTerminal(t *testing.T) {
	h := model.NewHandle()
	for _, s := range nonTerminal() {
		t.Run(string(s), func(t *testing.T) {
			e, err := NewQueryEnded(eventTime, model.StatusQueued, s, h, errors.New("boom"), "msg")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvariantViolation)
			assert.Nil(t, e)
		})
	}
	_, err := NewQueryEnded(eventTime, model.StatusRunning, model.Status("BOGUS"), h, nil, "")
	assert.ErrorIs(t, err, ErrInvariantViolation)
}

func TestNewQueryEnded_AcceptsTerminal(t *testing.T) {
	h := model.NewHandle()
	cause := errors.New("disk full")
	for _, s := range model.Statuses() {
		if !s.IsTerminal() {
			continue
		}
		e, err := NewQueryEnded(eventTime, model.StatusRunning, s, h, cause, "detail")
		require.NoError(t, err, "state %s", s)

		want := snapshot{
			EventTime: eventTime,
			Previous:  model.StatusRunning,
			Current:   s,
			Handle:    h.String(),
			Cause:     "disk full",
			Message:   "detail",
		}
		if diff := cmp.Diff(want, snap(e)); diff != "" {
			t.Errorf("QueryEnded(%s) mismatch (-want +got):\n%s", s, diff)
		}
	}
}

func TestNewQuerySuccess_RejectsOtherTerminalStates(t *testing.T) {
	h := model.NewHandle()
	for _, s := range []model.Status{model.StatusFailed, model.StatusCanceled, model.StatusClosed} {
		t.Run(string(s), func(t *testing.T) {
			e, err := NewQuerySuccess(eventTime, model.StatusRunning, s, h)
			require.ErrorIs(t, err, ErrInvariantViolation)
			assert.Nil(t, e)
		})
	}
}

func TestNewQuerySuccess_RejectsNonTerminal(t *testing.T) {
	h := model.NewHandle()
	for _, s := range nonTerminal() {
		_, err := NewQuerySuccess(eventTime, model.StatusQueued, s, h)
		assert.ErrorIs(t, err, ErrInvariantViolation, "state %s", s)
	}
}

func TestNewQuerySuccess_Succeeds(t *testing.T) {
	h := model.NewHandle()
	e, err := NewQuerySuccess(eventTime, model.StatusExecuted, model.StatusSuccessful, h)
	require.NoError(t, err)

	assert.Equal(t, eventTime, e.EventTime())
	assert.Equal(t, model.StatusExecuted, e.Previous())
	assert.Equal(t, model.StatusSuccessful, e.Current())
	assert.Equal(t, h, e.Handle())
	assert.Nil(t, e.Cause())
	assert.Empty(t, e.Message())
}

func TestChecksAreIndependent(t *testing.T) {
	// Terminal but not the requested state.
	assert.NoError(t, CheckTerminal(model.StatusFailed))
	assert.ErrorIs(t, CheckState(model.StatusFailed, model.StatusSuccessful), ErrInvariantViolation)

	// Neither terminal nor the requested state.
	assert.ErrorIs(t, CheckTerminal(model.StatusRunning), ErrInvariantViolation)
	assert.ErrorIs(t, CheckState(model.StatusRunning, model.StatusSuccessful), ErrInvariantViolation)

	assert.NoError(t, CheckState(model.StatusSuccessful, model.StatusSuccessful))
}

func TestConstructionReturnsDistinctValues(t *testing.T) {
	h := model.NewHandle()
	a, err := NewQuerySuccess(eventTime, model.StatusRunning, model.StatusSuccessful, h)
	require.NoError(t, err)
	b, err := NewQuerySuccess(eventTime, model.StatusRunning, model.StatusSuccessful, h)
	require.NoError(t, err)

	assert.NotSame(t, a, b)
	assert.Equal(t, snap(a), snap(b))
}

func TestNewQueryFailed(t *testing.T) {
	h := model.NewHandle()

	_, err := NewQueryFailed(eventTime, model.StatusRunning, model.StatusFailed, h, nil, "no cause")
	assert.ErrorIs(t, err, ErrInvariantViolation)

	_, err = NewQueryFailed(eventTime, model.StatusRunning, model.StatusCanceled, h, errors.New("x"), "")
	assert.ErrorIs(t, err, ErrInvariantViolation)

	e, err := NewQueryFailed(eventTime, model.StatusRunning, model.StatusFailed, h, errors.New("driver lost"), "")
	require.NoError(t, err)
	assert.EqualError(t, e.Cause(), "driver lost")
	assert.Equal(t, "driver lost", e.Message())
}

func TestNewQueryCanceled(t *testing.T) {
	h := model.NewHandle()

	_, err := NewQueryCanceled(eventTime, model.StatusRunning, model.StatusCanceled, h, nil, "")
	assert.ErrorIs(t, err, ErrInvariantViolation)

	_, err = NewQueryCanceled(eventTime, model.StatusRunning, model.StatusFailed, h, nil, "stop")
	assert.ErrorIs(t, err, ErrInvariantViolation)

	e, err := NewQueryCanceled(eventTime, model.StatusQueued, model.StatusCanceled, h, nil, "canceled by user")
	require.NoError(t, err)
	assert.Nil(t, e.Cause())
	assert.Equal(t, "canceled by user", e.Message())
}

func TestNewQueryClosed(t *testing.T) {
	h := model.NewHandle()

	_, err := NewQueryClosed(eventTime, model.StatusSuccessful, model.StatusSuccessful, h)
	assert.ErrorIs(t, err, ErrInvariantViolation)

	e, err := NewQueryClosed(eventTime, model.StatusSuccessful, model.StatusClosed, h)
	require.NoError(t, err)
	assert.Nil(t, e.Cause())
	assert.Empty(t, e.Message())
}

func TestTerminal_PicksLeaf(t *testing.T) {
	h := model.NewHandle()

	e, err := Terminal(eventTime, model.StatusRunning, model.StatusSuccessful, h, nil, "")
	require.NoError(t, err)
	assert.IsType(t, &QuerySuccess{}, e)

	e, err = Terminal(eventTime, model.StatusRunning, model.StatusFailed, h, errors.New("x"), "")
	require.NoError(t, err)
	assert.IsType(t, &QueryFailed{}, e)

	e, err = Terminal(eventTime, model.StatusRunning, model.StatusCanceled, h, nil, "stop")
	require.NoError(t, err)
	assert.IsType(t, &QueryCanceled{}, e)

	e, err = Terminal(eventTime, model.StatusSuccessful, model.StatusClosed, h, nil, "")
	require.NoError(t, err)
	assert.IsType(t, &QueryClosed{}, e)
}

func TestTerminal_Rejects(t *testing.T) {
	h := model.NewHandle()

	e, err := Terminal(eventTime, model.StatusQueued, model.StatusRunning, h, nil, "")
	assert.ErrorIs(t, err, ErrInvariantViolation)
	assert.Nil(t, e)

	e, err = Terminal(eventTime, model.StatusRunning, model.StatusSuccessful, h, errors.New("x"), "")
	assert.ErrorIs(t, err, ErrInvariantViolation)
	assert.Nil(t, e)

	_, err = Terminal(eventTime, model.StatusRunning, model.StatusClosed, h, nil, "bye")
	assert.ErrorIs(t, err, ErrInvariantViolation)
}

func TestConstructionLeavesSharedStateUntouched(t *testing.T) {
	reg := metrics.NewRegistry()
	h := model.NewHandle()

	a, err := NewQuerySuccess(eventTime, model.StatusExecuted, model.StatusSuccessful, h)
	require.NoError(t, err)
	b, err := NewQuerySuccess(eventTime, model.StatusExecuted, model.StatusSuccessful, h)
	require.NoError(t, err)

	assert.NotSame(t, a, b)
	if diff := cmp.Diff(snap(a), snap(b)); diff != "" {
		t.Errorf("identical inputs built different events (-a +b):\n%s", diff)
	}
	assert.Equal(t, 0, reg.Len())
	assert.Empty(t, reg.Snapshot())
}
