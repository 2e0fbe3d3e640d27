// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package bus delivers query outcome events to in-process subscribers.
package bus

import (
	"context"
	"strings"

	"github.com/ManuGH/lensd/internal/query/event"
	"github.com/ManuGH/lensd/internal/query/model"
)

// Message is the payload carried on the bus.
type Message = event.Ended

// Subscriber receives messages for one topic until closed.
type Subscriber interface {
	C() <-chan Message
	Close() error
}

// Bus is an outcome pub/sub.
type Bus interface {
	Publish(ctx context.Context, topic string, msg Message) error
	Subscribe(ctx context.Context, topic string) (Subscriber, error)
}

// Counter is the slice of the counter registry the bus needs.
type Counter interface {
	Increment(scope, name string)
}

// TopicFor returns the topic an outcome in status s is published on.
func TopicFor(s model.Status) string {
	return strings.ToLower(string(s))
}

// OutcomeTopics lists the topics of every terminal status.
func OutcomeTopics() []string {
	var topics []string
	for _, s := range model.Statuses() {
		if s.IsTerminal() {
			topics = append(topics, TopicFor(s))
		}
	}
	return topics
}
