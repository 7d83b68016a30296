package repository

import (
	"context"
	"time"

	"switchyard/internal/domain"
)

// TelemetryQuery narrows a telemetry listing. Zero values mean "no filter":
// NodeID 0 matches all nodes, zero times leave the range unbounded.
type TelemetryQuery struct {
	DeploymentID int64
	NodeID       int64
	Start        time.Time
	End          time.Time
	Limit        int
}

// Repository defines the interface for orchestrator data access
type Repository interface {
	// Deployment operations
	CreateDeployment(ctx context.Context, dep *domain.Deployment, nodes []*domain.Node) error
	GetDeployment(ctx context.Context, id int64) (*domain.Deployment, error)
	GetDeploymentByName(ctx context.Context, name string) (*domain.Deployment, error)
	ListDeployments(ctx context.Context, offset, limit int) ([]*domain.Deployment, int, error)
	DeleteDeployment(ctx context.Context, id int64) error
	CountDeployments(ctx context.Context) (int, error)

	// Node operations
	GetNode(ctx context.Context, id int64) (*domain.Node, error)
	ListNodesByDeployment(ctx context.Context, deploymentID int64) ([]*domain.Node, error)
	ListNodesInStates(ctx context.Context, states []domain.NodeState) ([]*domain.Node, error)
	CountNodesByDeployment(ctx context.Context, deploymentID int64) (int, error)
	UpdateNodeState(ctx context.Context, id int64, state domain.NodeState, at time.Time) error
	AssignNodeNetwork(ctx context.Context, id int64, hostname, ipAddress string, at time.Time) error

	// Telemetry operations
	InsertTelemetry(ctx context.Context, sample *domain.TelemetrySample) error
	ListTelemetry(ctx context.Context, q TelemetryQuery) ([]domain.TelemetrySample, int, error)
	TelemetrySince(ctx context.Context, deploymentID int64, since time.Time) ([]domain.TelemetrySample, error)

	// Event operations
	InsertEvent(ctx context.Context, event *domain.Event) error
	ListEvents(ctx context.Context, deploymentID int64, limit int) ([]*domain.Event, error)

	// Ping verifies the backing store is reachable
	Ping(ctx context.Context) error

	// Close releases resources
	Close() error
}
