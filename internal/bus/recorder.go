// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package bus

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ManuGH/lensd/internal/log"
)

// OutcomeScope owns the per-status outcome counters.
const OutcomeScope = "lensd.query.Outcomes"

// Recorder counts every outcome delivered on the bus, keyed by status.
type Recorder struct {
	bus     Bus
	counter Counter
	logger  zerolog.Logger
}

// NewRecorder returns a recorder for b writing to counter.
func NewRecorder(b Bus, counter Counter) *Recorder {
	return &Recorder{
		bus:     b,
		counter: counter,
		logger:  log.WithComponent("outcomes"),
	}
}

// Run subscribes to every outcome topic and counts deliveries until ctx ends.
func (r *Recorder) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var subs []Subscriber
	for _, topic := range OutcomeTopics() {
		sub, err := r.bus.Subscribe(ctx, topic)
		if err != nil {
			for _, s := range subs {
				_ = s.Close()
			}
			return fmt.Errorf("subscribe %q: %w", topic, err)
		}
		subs = append(subs, sub)
	}

	var wg sync.WaitGroup
	for _, sub := range subs {
		wg.Add(1)
		go func(sub Subscriber) {
			defer wg.Done()
			for msg := range sub.C() {
				r.record(msg)
			}
		}(sub)
	}

	<-ctx.Done()
	for _, s := range subs {
		_ = s.Close()
	}
	wg.Wait()
	return nil
}

func (r *Recorder) record(msg Message) {
	r.counter.Increment(OutcomeScope, string(msg.Current()))
	r.logger.Debug().
		Str(log.FieldEvent, "query.outcome").
		Str(log.FieldHandle, msg.Handle().String()).
		Str(log.FieldOldState, string(msg.Previous())).
		Str(log.FieldNewState, string(msg.Current())).
		Time("event_time", msg.EventTime()).
		Msg("query outcome recorded")
}
