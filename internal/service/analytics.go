package service

import (
	"context"
	"fmt"
	"time"

	"switchyard/internal/domain"
	"switchyard/internal/metrics"
	"switchyard/internal/repository"
)

// Analysis window bounds for bottleneck detection, in minutes
const (
	DefaultAnalysisWindowMinutes = 10
	MaxAnalysisWindowMinutes     = 60
)

// AnalyticsService runs statistical bottleneck detection over recent
// telemetry
type AnalyticsService struct {
	repo  repository.Repository
	clock domain.Clock
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(repo repository.Repository, clock domain.Clock) *AnalyticsService {
	return &AnalyticsService{
		repo:  repo,
		clock: clock,
	}
}

// DetectBottlenecks analyzes the deployment's telemetry over the trailing
// window and reports nodes deviating from the fleet baseline. A
// non-positive window falls back to the default. The analysis reads a
// snapshot; it never blocks writers and never mutates anything.
func (s *AnalyticsService) DetectBottlenecks(ctx context.Context, deploymentID int64, windowMinutes int) (*domain.BottleneckReport, error) {
	dep, err := s.repo.GetDeployment(ctx, deploymentID)
	if err != nil {
		return nil, err
	}
	if dep == nil {
		return nil, fmt.Errorf("deployment %d not found", deploymentID)
	}

	if windowMinutes <= 0 {
		windowMinutes = DefaultAnalysisWindowMinutes
	}

	now := s.clock.Now()
	since := now.Add(-time.Duration(windowMinutes) * time.Minute)
	samples, err := s.repo.TelemetrySince(ctx, deploymentID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load telemetry window: %w", err)
	}

	bottlenecks := domain.DetectBottlenecks(samples)
	if bottlenecks == nil {
		bottlenecks = []domain.Bottleneck{}
	}

	// The detector works on raw samples; join the node identifiers back in
	if len(bottlenecks) > 0 {
		nodes, err := s.repo.ListNodesByDeployment(ctx, deploymentID)
		if err != nil {
			return nil, fmt.Errorf("failed to load nodes: %w", err)
		}
		identifiers := make(map[int64]string, len(nodes))
		for _, n := range nodes {
			identifiers[n.ID] = n.NodeID
		}
		for i := range bottlenecks {
			bottlenecks[i].DeploymentID = deploymentID
			bottlenecks[i].NodeIdentifier = identifiers[bottlenecks[i].NodeID]
		}
	}

	metrics.BottleneckDetections.Inc()

	return &domain.BottleneckReport{
		DeploymentID:          deploymentID,
		DetectedAt:            now,
		Bottlenecks:           bottlenecks,
		TotalBottlenecks:      len(bottlenecks),
		AnalysisWindowMinutes: windowMinutes,
	}, nil
}
