// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package bus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ManuGH/lensd/internal/log"
)

// Scope owns the bus drop counters.
const Scope = "lensd.bus.MemoryBus"

const (
	subscriberBuffer = 64
	dropLogEvery     = 100
)

// MemoryBus is an in-memory pub/sub. It is not durable; delivery is
// at-most-once and bounded by the publish context.
type MemoryBus struct {
	mu      sync.RWMutex
	subs    map[string][]*memSub
	counter Counter
	dropped atomic.Uint64
}

// NewMemoryBus returns a bus that records drops in counter (may be nil).
func NewMemoryBus(counter Counter) *MemoryBus {
	return &MemoryBus{
		subs:    make(map[string][]*memSub),
		counter: counter,
	}
}

func publishDropReason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "context_done"
	}
}

// Publish delivers msg to every subscriber of topic. It holds the read lock
// while sending so a concurrent Close never races a send.
func (b *MemoryBus) Publish(ctx context.Context, topic string, msg Message) error {
	if ctx == nil {
		return fmt.Errorf("publish context is nil")
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, s := range b.subs[topic] {
		select {
		case s.ch <- msg:
		case <-ctx.Done():
			b.recordDrop(topic, publishDropReason(ctx.Err()))
			return fmt.Errorf("publish topic %q: %w", topic, ctx.Err())
		}
	}
	return nil
}

func (b *MemoryBus) recordDrop(topic, reason string) {
	if b.counter != nil {
		b.counter.Increment(Scope, "drop-"+reason)
		b.counter.Increment(Scope, "drop-topic-"+topic)
	}
	count := b.dropped.Add(1)
	if count%dropLogEvery == 1 {
		log.L().Warn().
			Str(log.FieldEvent, "bus.publish_dropped").
			Str("topic", topic).
			Str("reason", reason).
			Uint64("dropped", count).
			Msg("memory bus failed to publish due to context cancellation")
	}
}

// Subscribe registers a buffered subscriber. The subscription closes itself
// when ctx ends.
func (b *MemoryBus) Subscribe(ctx context.Context, topic string) (Subscriber, error) {
	if ctx == nil {
		return nil, fmt.Errorf("subscribe context is nil")
	}
	s := &memSub{b: b, topic: topic, ch: make(chan Message, subscriberBuffer)}

	b.mu.Lock()
	b.subs[topic] = append(b.subs[topic], s)
	s.stop = context.AfterFunc(ctx, func() { _ = s.Close() })
	b.mu.Unlock()

	return s, nil
}

// Dropped returns the number of publishes abandoned so far.
func (b *MemoryBus) Dropped() uint64 {
	return b.dropped.Load()
}

type memSub struct {
	b     *MemoryBus
	topic string
	ch    chan Message
	once  sync.Once
	stop  func() bool
}

func (s *memSub) C() <-chan Message {
	return s.ch
}

func (s *memSub) Close() error {
	s.once.Do(func() {
		s.b.mu.Lock()
		defer s.b.mu.Unlock()
		if s.stop != nil {
			s.stop()
		}

		lst := s.b.subs[s.topic]
		out := lst[:0]
		for _, c := range lst {
			if c != s {
				out = append(out, c)
			}
		}
		if len(out) == 0 {
			delete(s.b.subs, s.topic)
		} else {
			s.b.subs[s.topic] = out
		}
		close(s.ch)
	})
	return nil
}

var _ Bus = (*MemoryBus)(nil)
