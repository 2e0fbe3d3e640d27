// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_IsTerminal(t *testing.T) {
	terminal := map[Status]bool{
		StatusQueued:     false,
		StatusLaunched:   false,
		StatusRunning:    false,
		StatusExecuted:   false,
		StatusSuccessful: true,
		StatusFailed:     true,
		StatusCanceled:   true,
		StatusClosed:     true,
	}
	for _, s := range Statuses() {
		want, ok := terminal[s]
		require.True(t, ok, "status %s missing from table", s)
		assert.Equal(t, want, s.IsTerminal(), "IsTerminal(%s)", s)
	}
	assert.False(t, Status("BOGUS").IsTerminal())
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus(" successful ")
	require.NoError(t, err)
	assert.Equal(t, StatusSuccessful, s)

	_, err = ParseStatus("finished")
	assert.Error(t, err)
}

func TestHandle_ParseAndEquality(t *testing.T) {
	h := NewHandle()
	require.False(t, h.IsZero())

	parsed, err := ParseHandle(h.String())
	require.NoError(t, err)
	assert.Equal(t, h, parsed)
	assert.NotEqual(t, h, NewHandle())

	_, err = ParseHandle("not-a-handle")
	assert.Error(t, err)
	assert.True(t, Handle{}.IsZero())
}

func TestHandle_JSON(t *testing.T) {
	h := NewHandle()
	b, err := json.Marshal(struct {
		Handle Handle `json:"handle"`
	}{h})
	require.NoError(t, err)
	assert.JSONEq(t, `{"handle":"`+h.String()+`"}`, string(b))

	var back struct {
		Handle Handle `json:"handle"`
	}
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, h, back.Handle)

	assert.Error(t, json.Unmarshal([]byte(`{"handle":"nope"}`), &back))
}
