package service

import (
	"context"
	"fmt"
	"log"

	"switchyard/internal/domain"
	"switchyard/internal/metrics"
	"switchyard/internal/repository"
)

// TelemetryService samples metrics from running nodes and serves the
// stored time series
type TelemetryService struct {
	repo  repository.Repository
	clock domain.Clock
}

// NewTelemetryService creates a new telemetry service
func NewTelemetryService(repo repository.Repository, clock domain.Clock) *TelemetryService {
	return &TelemetryService{
		repo:  repo,
		clock: clock,
	}
}

// Tick collects one sample from every RUNNING node. Samples are written
// row by row; a node whose write fails is logged and skipped so the rest
// of the fleet still reports.
func (s *TelemetryService) Tick(ctx context.Context) error {
	nodes, err := s.repo.ListNodesInStates(ctx, []domain.NodeState{domain.NodeStateRunning})
	if err != nil {
		return fmt.Errorf("failed to load running nodes: %w", err)
	}

	now := s.clock.Now()
	failed := 0
	for _, node := range nodes {
		m := domain.GenerateTelemetry(node.ID, now)
		sample := &domain.TelemetrySample{
			NodeID:         node.ID,
			DeploymentID:   node.DeploymentID,
			Timestamp:      now,
			LatencyMs:      m.LatencyMs,
			ThroughputGbps: m.ThroughputGbps,
			ErrorRate:      m.ErrorRate,
		}
		if err := s.repo.InsertTelemetry(ctx, sample); err != nil {
			failed++
			log.Printf("Failed to record telemetry for node %d (%s): %v", node.ID, node.NodeID, err)
			continue
		}
		metrics.TelemetrySamples.Inc()
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d nodes failed to report telemetry", failed, len(nodes))
	}
	return nil
}

// List returns a page of a deployment's samples, newest first, plus the
// total matching count. NodeID, Start and End narrow the query when set.
func (s *TelemetryService) List(ctx context.Context, q repository.TelemetryQuery) ([]domain.TelemetrySample, int, error) {
	dep, err := s.repo.GetDeployment(ctx, q.DeploymentID)
	if err != nil {
		return nil, 0, err
	}
	if dep == nil {
		return nil, 0, fmt.Errorf("deployment %d not found", q.DeploymentID)
	}
	return s.repo.ListTelemetry(ctx, q)
}
