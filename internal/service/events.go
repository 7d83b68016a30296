package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"switchyard/internal/domain"
	"switchyard/internal/repository"
)

// EventBus fans orchestrator events out to in-process subscribers.
// Subscribers must be registered before publishing begins; the bus takes
// no locks.
type EventBus struct {
	subscribers []chan<- domain.Event
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make([]chan<- domain.Event, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (eb *EventBus) Subscribe(ch chan<- domain.Event) {
	eb.subscribers = append(eb.subscribers, ch)
}

// Publish sends an event to all subscribers
func (eb *EventBus) Publish(event domain.Event) {
	for _, ch := range eb.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber is slow, skip
		}
	}
}

// newEvent builds an audit event with a fresh correlation id
func newEvent(eventType domain.EventType, deploymentID int64, nodeID *int64, message string, at time.Time) *domain.Event {
	return &domain.Event{
		EventID:      uuid.NewString(),
		DeploymentID: deploymentID,
		NodeID:       nodeID,
		Type:         eventType,
		Message:      message,
		CreatedAt:    at,
	}
}

// recordEvent persists an event and publishes it on the bus. A failed
// insert is logged, never propagated: the audit log must not block the
// operation that produced the event.
func recordEvent(ctx context.Context, repo repository.Repository, bus *EventBus, event *domain.Event) {
	if err := repo.InsertEvent(ctx, event); err != nil {
		log.Printf("Failed to record %s event: %v", event.Type, err)
	}
	bus.Publish(*event)
}

// eventMetadata marshals structured event context, empty string on failure
func eventMetadata(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("Failed to marshal event metadata: %v", err)
		return ""
	}
	return string(data)
}
