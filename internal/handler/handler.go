package handler

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"switchyard/internal/domain"
	"switchyard/internal/service"
)

// Pagination bounds shared by the list endpoints
const (
	DefaultPageLimit = 100
	MaxPageLimit     = 1000
)

// DeploymentHandler handles deployment API requests
type DeploymentHandler struct {
	svc *service.DeploymentService
}

// NewDeploymentHandler creates a new deployment handler
func NewDeploymentHandler(svc *service.DeploymentService) *DeploymentHandler {
	return &DeploymentHandler{svc: svc}
}

// Error response structure
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// NodeListResponse wraps a deployment's nodes with their count
type NodeListResponse struct {
	Nodes []*domain.Node `json:"nodes"`
	Total int            `json:"total"`
}

// EventListResponse wraps a page of audit log entries
type EventListResponse struct {
	Events []*domain.Event `json:"events"`
	Total  int             `json:"total"`
}

// Create creates a deployment together with its full set of PENDING nodes
func (h *DeploymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateDeploymentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	dep, err := h.svc.Create(r.Context(), input)
	if err != nil {
		log.Printf("Failed to create deployment: %v", err)
		writeError(w, "Failed to create deployment", err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, dep, http.StatusCreated)
}

// List returns deployments newest first
func (h *DeploymentHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, err := queryInt(r, "skip", 0)
	if err != nil || skip < 0 {
		writeError(w, "Invalid skip parameter", "skip must be zero or greater", http.StatusBadRequest)
		return
	}

	limit, err := queryInt(r, "limit", DefaultPageLimit)
	if err != nil || limit < 1 || limit > MaxPageLimit {
		writeError(w, "Invalid limit parameter",
			fmt.Sprintf("limit must be between 1 and %d", MaxPageLimit), http.StatusBadRequest)
		return
	}

	deployments, _, err := h.svc.List(r.Context(), skip, limit)
	if err != nil {
		log.Printf("Failed to list deployments: %v", err)
		writeError(w, "Failed to list deployments", err.Error(), http.StatusInternalServerError)
		return
	}
	if deployments == nil {
		deployments = []*domain.Deployment{}
	}

	writeJSON(w, deployments, http.StatusOK)
}

// Get returns a single deployment with its current node count
func (h *DeploymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, "Invalid deployment ID", err.Error(), http.StatusBadRequest)
		return
	}

	detail, err := h.svc.GetDetail(r.Context(), id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			writeError(w, "Deployment not found", err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("Failed to get deployment %d: %v", id, err)
		writeError(w, "Failed to get deployment", err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, detail, http.StatusOK)
}

// Delete removes a deployment and, via cascade, everything it owns
func (h *DeploymentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, "Invalid deployment ID", err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if strings.Contains(err.Error(), "not found") {
			writeError(w, "Deployment not found", err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("Failed to delete deployment %d: %v", id, err)
		writeError(w, "Failed to delete deployment", err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListNodes returns all nodes of a deployment
func (h *DeploymentHandler) ListNodes(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, "Invalid deployment ID", err.Error(), http.StatusBadRequest)
		return
	}

	nodes, total, err := h.svc.ListNodes(r.Context(), id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			writeError(w, "Deployment not found", err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("Failed to list nodes for deployment %d: %v", id, err)
		writeError(w, "Failed to list nodes", err.Error(), http.StatusInternalServerError)
		return
	}
	if nodes == nil {
		nodes = []*domain.Node{}
	}

	writeJSON(w, NodeListResponse{Nodes: nodes, Total: total}, http.StatusOK)
}

// ListEvents returns a deployment's audit log, newest first
func (h *DeploymentHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, "Invalid deployment ID", err.Error(), http.StatusBadRequest)
		return
	}

	limit, err := queryInt(r, "limit", DefaultPageLimit)
	if err != nil || limit < 1 || limit > MaxPageLimit {
		writeError(w, "Invalid limit parameter",
			fmt.Sprintf("limit must be between 1 and %d", MaxPageLimit), http.StatusBadRequest)
		return
	}

	events, err := h.svc.ListEvents(r.Context(), id, limit)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			writeError(w, "Deployment not found", err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("Failed to list events for deployment %d: %v", id, err)
		writeError(w, "Failed to list events", err.Error(), http.StatusInternalServerError)
		return
	}
	if events == nil {
		events = []*domain.Event{}
	}

	writeJSON(w, EventListResponse{Events: events, Total: len(events)}, http.StatusOK)
}

// Export streams a deployment snapshot as a file attachment
func (h *DeploymentHandler) Export(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, "Invalid deployment ID", err.Error(), http.StatusBadRequest)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}

	var contentType, filename string
	switch format {
	case "json":
		contentType = "application/json"
		filename = fmt.Sprintf("deployment-%d.json", id)
	case "yaml":
		contentType = "application/x-yaml"
		filename = fmt.Sprintf("deployment-%d.yml", id)
	case "ansible":
		contentType = "application/x-yaml"
		filename = fmt.Sprintf("deployment-%d-inventory.yml", id)
	default:
		writeError(w, "Invalid export format", "format must be json, yaml or ansible", http.StatusBadRequest)
		return
	}

	// The deployment has to exist before any headers go out; the export
	// itself then streams straight into the response.
	if _, err := h.svc.Get(r.Context(), id); err != nil {
		if strings.Contains(err.Error(), "not found") {
			writeError(w, "Deployment not found", err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("Failed to export deployment %d: %v", id, err)
		writeError(w, "Failed to export deployment", err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	if err := h.svc.Export(r.Context(), id, format, w); err != nil {
		log.Printf("Failed to export deployment %d: %v", id, err)
		// Can't write an error response, headers are already out
		return
	}
}

// Helper functions

func writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode JSON: %v", err)
	}
}

func writeError(w http.ResponseWriter, error, details string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   error,
		Details: details,
	}); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}

func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	if raw == "" {
		return 0, fmt.Errorf("deployment ID is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("deployment ID must be an integer")
	}
	return id, nil
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
