package domain

import "time"

// EventType classifies audit log entries
type EventType string

const (
	EventDeploymentCreated EventType = "DEPLOYMENT_CREATED"
	EventDeploymentDeleted EventType = "DEPLOYMENT_DELETED"
	EventStateChange       EventType = "STATE_CHANGE"
	EventWorkerError       EventType = "WORKER_ERROR"
)

// Event is an append-only audit fact. Written once per lifecycle transition
// and per deployment-level action; never mutated, removed only by deployment
// cascade delete. EventID is a correlation uuid for external consumers.
type Event struct {
	ID           int64     `json:"id"`
	EventID      string    `json:"event_id"`
	DeploymentID int64     `json:"deployment_id"`
	NodeID       *int64    `json:"node_id,omitempty"`
	Type         EventType `json:"event_type"`
	Message      string    `json:"message"`
	Metadata     string    `json:"metadata,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
