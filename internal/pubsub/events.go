// Package pubsub provides a generic publish/subscribe event system used for
// log fanout and for the headless engine's signal change notifications.
package pubsub

import (
	"context"
	"time"
)

// EventType represents the type of event being published.
type EventType string

const (
	// SignalChangedEvent is published when a view signal changes value.
	SignalChangedEvent EventType = "signal-changed"
	// SpecParsedEvent is published when the engine finishes parsing a spec.
	SpecParsedEvent EventType = "spec-parsed"
	// LogLineEvent is published for every written log entry.
	LogLineEvent EventType = "log-line"
)

// Event represents a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
