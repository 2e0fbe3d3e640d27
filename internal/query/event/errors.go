// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package event

import (
	"errors"
	"fmt"

	"github.com/ManuGH/lensd/internal/query/model"
)

// ErrInvariantViolation marks an outcome event that was constructed with a
// state its type does not allow. It signals a defect in the emitting engine.
var ErrInvariantViolation = errors.New("invariant violation")

// CheckTerminal fails unless current is a terminal status.
func CheckTerminal(current model.Status) error {
	if !current.IsTerminal() {
		return fmt.Errorf("%w: state %s is not terminal", ErrInvariantViolation, current)
	}
	return nil
}

// CheckState fails unless current equals want.
func CheckState(current, want model.Status) error {
	if current != want {
		return fmt.Errorf("%w: expected state %s, got %s", ErrInvariantViolation, want, current)
	}
	return nil
}
