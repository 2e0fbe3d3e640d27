// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package model

import (
	"fmt"
	"strings"
)

// Status is the lifecycle state of a submitted query.
// Values are stable: API payloads and metric names depend on them.
type Status string

const (
	StatusQueued     Status = "QUEUED"
	StatusLaunched   Status = "LAUNCHED"
	StatusRunning    Status = "RUNNING"
	StatusExecuted   Status = "EXECUTED"
	StatusSuccessful Status = "SUCCESSFUL"
	StatusFailed     Status = "FAILED"
	StatusCanceled   Status = "CANCELED"
	StatusClosed     Status = "CLOSED"
)

var allStatuses = []Status{
	StatusQueued,
	StatusLaunched,
	StatusRunning,
	StatusExecuted,
	StatusSuccessful,
	StatusFailed,
	StatusCanceled,
	StatusClosed,
}

// Statuses returns every known status in lifecycle order.
func Statuses() []Status {
	return append([]Status(nil), allStatuses...)
}

// IsTerminal reports whether s ends query execution. Only CLOSED may follow.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusSuccessful, StatusFailed, StatusCanceled, StatusClosed:
		return true
	}
	return false
}

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	for _, known := range allStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func (s Status) String() string { return string(s) }

// ParseStatus accepts a status name in any case.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return "", fmt.Errorf("unknown query status %q", raw)
	}
	return s, nil
}
