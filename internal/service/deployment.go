package service

import (
	"context"
	"fmt"
	"io"
	"log"

	"switchyard/internal/codec"
	"switchyard/internal/domain"
	"switchyard/internal/repository"
)

// DeploymentService provides business logic for deployment operations
type DeploymentService struct {
	repo  repository.Repository
	bus   *EventBus
	clock domain.Clock
}

// NewDeploymentService creates a new deployment service
func NewDeploymentService(repo repository.Repository, bus *EventBus, clock domain.Clock) *DeploymentService {
	return &DeploymentService{
		repo:  repo,
		bus:   bus,
		clock: clock,
	}
}

// CreateDeploymentInput carries the caller-supplied deployment fields
type CreateDeploymentInput struct {
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	TargetNodeCount int    `json:"target_node_count"`
}

// Create validates the input and creates a deployment together with its
// full set of PENDING nodes in one transaction
func (s *DeploymentService) Create(ctx context.Context, input CreateDeploymentInput) (*domain.Deployment, error) {
	if err := validateDeploymentInput(input); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	dep := &domain.Deployment{
		Name:            input.Name,
		Description:     input.Description,
		TargetNodeCount: input.TargetNodeCount,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	nodes := make([]*domain.Node, input.TargetNodeCount)
	for i := range nodes {
		nodes[i] = &domain.Node{
			NodeID:         domain.NodeIdentifier(i + 1),
			State:          domain.NodeStatePending,
			CreatedAt:      now,
			UpdatedAt:      now,
			StateChangedAt: now,
		}
	}

	if err := s.repo.CreateDeployment(ctx, dep, nodes); err != nil {
		return nil, fmt.Errorf("failed to create deployment: %w", err)
	}

	log.Printf("Created deployment %d (%s) with %d nodes", dep.ID, dep.Name, len(nodes))

	recordEvent(ctx, s.repo, s.bus, newEvent(domain.EventDeploymentCreated, dep.ID, nil,
		fmt.Sprintf("Deployment %s created with %d nodes", dep.Name, len(nodes)), now))

	return dep, nil
}

// Get retrieves a deployment by id
func (s *DeploymentService) Get(ctx context.Context, id int64) (*domain.Deployment, error) {
	dep, err := s.repo.GetDeployment(ctx, id)
	if err != nil {
		return nil, err
	}
	if dep == nil {
		return nil, fmt.Errorf("deployment %d not found", id)
	}
	return dep, nil
}

// GetDetail retrieves a deployment with its current node count
func (s *DeploymentService) GetDetail(ctx context.Context, id int64) (*domain.DeploymentDetail, error) {
	dep, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := s.repo.CountNodesByDeployment(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to count nodes: %w", err)
	}

	return &domain.DeploymentDetail{
		Deployment:       *dep,
		CurrentNodeCount: count,
	}, nil
}

// List returns a page of deployments, newest first, plus the total count
func (s *DeploymentService) List(ctx context.Context, skip, limit int) ([]*domain.Deployment, int, error) {
	return s.repo.ListDeployments(ctx, skip, limit)
}

// Delete removes a deployment and, via cascade, its nodes, telemetry and
// events. The audit record for the deletion carries no deployment
// reference so it outlives the cascade.
func (s *DeploymentService) Delete(ctx context.Context, id int64) error {
	dep, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteDeployment(ctx, id); err != nil {
		return err
	}

	log.Printf("Deleted deployment %d (%s)", dep.ID, dep.Name)

	event := newEvent(domain.EventDeploymentDeleted, 0, nil,
		fmt.Sprintf("Deployment %s deleted", dep.Name), s.clock.Now())
	event.Metadata = eventMetadata(map[string]interface{}{
		"deployment_id": dep.ID,
		"name":          dep.Name,
	})
	recordEvent(ctx, s.repo, s.bus, event)

	return nil
}

// ListNodes returns all nodes of a deployment plus the total count
func (s *DeploymentService) ListNodes(ctx context.Context, deploymentID int64) ([]*domain.Node, int, error) {
	if _, err := s.Get(ctx, deploymentID); err != nil {
		return nil, 0, err
	}

	nodes, err := s.repo.ListNodesByDeployment(ctx, deploymentID)
	if err != nil {
		return nil, 0, err
	}
	return nodes, len(nodes), nil
}

// ListEvents returns a deployment's audit log, newest first
func (s *DeploymentService) ListEvents(ctx context.Context, deploymentID int64, limit int) ([]*domain.Event, error) {
	if _, err := s.Get(ctx, deploymentID); err != nil {
		return nil, err
	}
	return s.repo.ListEvents(ctx, deploymentID, limit)
}

// Export writes a deployment snapshot in the requested format
func (s *DeploymentService) Export(ctx context.Context, id int64, format string, w io.Writer) error {
	dep, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	nodes, err := s.repo.ListNodesByDeployment(ctx, id)
	if err != nil {
		return err
	}

	var exporter codec.Exporter
	switch format {
	case "json":
		exporter = codec.NewJSONCodec()
	case "yaml":
		exporter = codec.NewYAMLCodec()
	case "ansible":
		exporter = codec.NewAnsibleCodec()
	default:
		return fmt.Errorf("unsupported export format %s", format)
	}

	return exporter.Export(&codec.DeploymentExport{Deployment: dep, Nodes: nodes}, w)
}

// ApplySeed creates a deployment unless one with the same name already
// exists. Returns true when a deployment was created.
func (s *DeploymentService) ApplySeed(ctx context.Context, input CreateDeploymentInput) (bool, error) {
	existing, err := s.repo.GetDeploymentByName(ctx, input.Name)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	if _, err := s.Create(ctx, input); err != nil {
		return false, err
	}
	return true, nil
}

func validateDeploymentInput(input CreateDeploymentInput) error {
	if input.Name == "" {
		return fmt.Errorf("deployment name required")
	}
	if len(input.Name) > domain.MaxNameLength {
		return fmt.Errorf("deployment name exceeds %d characters", domain.MaxNameLength)
	}
	if input.TargetNodeCount < 1 {
		return fmt.Errorf("target_node_count must be at least 1")
	}
	if input.TargetNodeCount > domain.MaxNodesPerDeployment {
		return fmt.Errorf("target_node_count exceeds maximum of %d", domain.MaxNodesPerDeployment)
	}
	return nil
}
