package handler

import (
	"log"
	"net/http"
	"time"

	"switchyard/internal/repository"
	"switchyard/internal/worker"
)

// Version is reported by the service info endpoint
const Version = "1.0.0"

// HealthHandler reports service, database and worker status
type HealthHandler struct {
	repo   repository.Repository
	runner *worker.Runner
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(repo repository.Repository, runner *worker.Runner) *HealthHandler {
	return &HealthHandler{
		repo:   repo,
		runner: runner,
	}
}

// HealthResponse is the health check body consumed by monitoring and
// load balancers
type HealthResponse struct {
	Status            string    `json:"status"`
	Timestamp         time.Time `json:"timestamp"`
	Database          string    `json:"database"`
	ActiveDeployments int       `json:"active_deployments"`
	ActiveWorkers     int       `json:"active_workers"`
}

// Health checks the database connection and the background workers.
// Failures degrade the status instead of erroring: callers need the
// body either way.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	database := "healthy"
	if err := h.repo.Ping(r.Context()); err != nil {
		log.Printf("Health check database ping failed: %v", err)
		database = "unhealthy"
	}

	deployments := 0
	if database == "healthy" {
		count, err := h.repo.CountDeployments(r.Context())
		if err != nil {
			log.Printf("Health check deployment count failed: %v", err)
			database = "unhealthy"
		} else {
			deployments = count
		}
	}

	workers := h.runner.ActiveWorkers()

	status := "healthy"
	if database != "healthy" || workers == 0 {
		status = "degraded"
	}

	writeJSON(w, HealthResponse{
		Status:            status,
		Timestamp:         time.Now().UTC(),
		Database:          database,
		ActiveDeployments: deployments,
		ActiveWorkers:     workers,
	}, http.StatusOK)
}

// ServiceInfo describes the API surface at the root path
func (h *HealthHandler) ServiceInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"service": "switchyard",
		"version": Version,
		"health":  "/health",
		"endpoints": map[string]string{
			"deployments": "/api/deployments",
			"events":      "/api/events",
			"metrics":     "/metrics",
		},
	}, http.StatusOK)
}
