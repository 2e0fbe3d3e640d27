// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package model

import (
	"fmt"

	"github.com/google/uuid"
)

// Handle identifies one submitted query. It is a comparable value; two
// handles are equal when their identifiers are equal.
type Handle struct {
	id string
}

// NewHandle allocates a fresh random handle.
func NewHandle() Handle {
	return Handle{id: uuid.NewString()}
}

// ParseHandle validates the textual form of a handle.
func ParseHandle(raw string) (Handle, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return Handle{}, fmt.Errorf("invalid query handle %q: %w", raw, err)
	}
	return Handle{id: id.String()}, nil
}

// IsZero reports whether h was never assigned.
func (h Handle) IsZero() bool { return h.id == "" }

func (h Handle) String() string { return h.id }

// MarshalText implements encoding.TextMarshaler.
func (h Handle) MarshalText() ([]byte, error) {
	return []byte(h.id), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *Handle) UnmarshalText(b []byte) error {
	parsed, err := ParseHandle(string(b))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
