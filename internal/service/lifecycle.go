package service

import (
	"context"
	"fmt"
	"log"

	"switchyard/internal/domain"
	"switchyard/internal/metrics"
	"switchyard/internal/repository"
)

// LifecycleService advances nodes through the provisioning state machine.
// One instance is driven by the worker runner; Tick is not safe for
// concurrent use with itself.
type LifecycleService struct {
	repo  repository.Repository
	bus   *EventBus
	clock domain.Clock
	rand  domain.Randomness
}

// NewLifecycleService creates a new lifecycle service
func NewLifecycleService(repo repository.Repository, bus *EventBus, clock domain.Clock, rand domain.Randomness) *LifecycleService {
	return &LifecycleService{
		repo:  repo,
		bus:   bus,
		clock: clock,
		rand:  rand,
	}
}

// Tick runs one lifecycle pass over every non-terminal node. A node that
// fails to advance is logged and skipped; the rest of the pass continues.
// The returned error summarizes per-node failures so the runner can count
// the tick as degraded without having aborted it.
func (s *LifecycleService) Tick(ctx context.Context) error {
	nodes, err := s.repo.ListNodesInStates(ctx, domain.ActiveStates)
	if err != nil {
		recordEvent(ctx, s.repo, s.bus, newEvent(domain.EventWorkerError, 0, nil,
			fmt.Sprintf("Lifecycle worker failed to load active nodes: %v", err), s.clock.Now()))
		return fmt.Errorf("failed to load active nodes: %w", err)
	}

	failed := 0
	for _, node := range nodes {
		if err := s.advance(ctx, node); err != nil {
			failed++
			log.Printf("Failed to advance node %d (%s): %v", node.ID, node.NodeID, err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d nodes failed to advance", failed, len(nodes))
	}
	return nil
}

// advance applies at most one transition to a single node
func (s *LifecycleService) advance(ctx context.Context, node *domain.Node) error {
	now := s.clock.Now()
	next, moved := domain.NextState(node.State, now.Sub(node.StateChangedAt), node.ID, s.rand)
	if !moved {
		return nil
	}

	// Network identity is assigned exactly once, on entry to PROVISIONING
	if next == domain.NodeStateProvisioning {
		hostname := domain.DeriveHostname(node.DeploymentID, node.NodeID)
		address := domain.DeriveIPAddress(node.DeploymentID, node.ID)
		if err := s.repo.AssignNodeNetwork(ctx, node.ID, hostname, address, now); err != nil {
			return fmt.Errorf("failed to assign network identity: %w", err)
		}
	}

	if err := s.repo.UpdateNodeState(ctx, node.ID, next, now); err != nil {
		return fmt.Errorf("failed to update state: %w", err)
	}

	metrics.NodeTransitions.WithLabelValues(string(node.State), string(next)).Inc()

	recordEvent(ctx, s.repo, s.bus, newEvent(domain.EventStateChange, node.DeploymentID, &node.ID,
		domain.TransitionMessage(node.NodeID, node.State, next), now))

	return nil
}
