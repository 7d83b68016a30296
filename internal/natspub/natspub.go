// Package natspub publishes orchestrator events to NATS for external
// consumers. Publishing is optional: with no URL configured the server
// runs without it, and a lost connection degrades to dropped messages
// while the client reconnects.
package natspub

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"switchyard/internal/domain"
)

// SubjectPrefix is the root of the event subject hierarchy. The event
// type, lowercased, becomes the final token:
// switchyard.events.deployment_created, switchyard.events.state_change, ...
const SubjectPrefix = "switchyard.events"

// Publisher forwards bus events to a NATS server
type Publisher struct {
	nc *nats.Conn
}

// New connects to the given NATS URL. The client reconnects forever;
// a broken connection never takes the orchestrator down with it.
func New(url string) (*Publisher, error) {
	opts := []nats.Option{
		nats.Name("switchyard"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Printf("NATS disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("NATS reconnected to %s", nc.ConnectedUrl())
		}),
	}
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	log.Printf("Connected to NATS at %s", url)
	return &Publisher{nc: nc}, nil
}

// Run consumes events from the channel until it is closed, publishing
// each one. Intended to run in its own goroutine fed by the event bus.
func (p *Publisher) Run(ch <-chan domain.Event) {
	for event := range ch {
		if err := p.publish(event); err != nil {
			log.Printf("Failed to publish event %s: %v", event.EventID, err)
		}
	}
}

// publish sends one event as JSON on its type subject
func (p *Publisher) publish(event domain.Event) error {
	if p.nc == nil || p.nc.IsClosed() {
		return fmt.Errorf("nats not connected")
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := SubjectPrefix + "." + strings.ToLower(string(event.Type))
	return p.nc.Publish(subject, payload)
}

// Close drains and closes the connection
func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Drain()
		p.nc.Close()
	}
}
