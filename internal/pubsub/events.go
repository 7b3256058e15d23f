// Package pubsub fans out restyle and log notifications to interested
// listeners such as the viewer and the watch command.
package pubsub

import (
	"context"
	"time"
)

// EventType names what happened to the publisher's subject.
type EventType string

const (
	// RestyledEvent follows a pass that changed styles or fold levels.
	RestyledEvent EventType = "restyled"
	// ReconfiguredEvent follows a property or word list change.
	ReconfiguredEvent EventType = "reconfigured"
	// ClosedEvent is the last event published for a subject.
	ClosedEvent EventType = "closed"
	// LoggedEvent carries a formatted log line.
	LoggedEvent EventType = "logged"
)

// Event is a published notification.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Seq       uint64
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
