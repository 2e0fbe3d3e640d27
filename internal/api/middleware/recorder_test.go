// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package middleware

import (
	"sync"

	"github.com/ManuGH/lensd/internal/listener"
)

type recordingObserver struct {
	mu    sync.Mutex
	notes []listener.Notification
}

func (o *recordingObserver) OnEvent(n listener.Notification) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.notes = append(o.notes, n)
}

func (o *recordingObserver) kinds() []listener.Kind {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]listener.Kind, len(o.notes))
	for i, n := range o.notes {
		out[i] = n.Kind
	}
	return out
}

func (o *recordingObserver) errors() []error {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []error
	for _, n := range o.notes {
		if n.Kind == listener.KindError {
			out = append(out, n.Err)
		}
	}
	return out
}
