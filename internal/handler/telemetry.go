package handler

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"switchyard/internal/domain"
	"switchyard/internal/repository"
	"switchyard/internal/service"
)

// TelemetryHandler handles telemetry and bottleneck API requests
type TelemetryHandler struct {
	telemetry *service.TelemetryService
	analytics *service.AnalyticsService
}

// NewTelemetryHandler creates a new telemetry handler
func NewTelemetryHandler(telemetry *service.TelemetryService, analytics *service.AnalyticsService) *TelemetryHandler {
	return &TelemetryHandler{
		telemetry: telemetry,
		analytics: analytics,
	}
}

// TelemetryListResponse wraps a page of samples with the total matching count
type TelemetryListResponse struct {
	Samples []domain.TelemetrySample `json:"samples"`
	Total   int                      `json:"total"`
}

// ListTelemetry returns a deployment's samples, newest first. Optional
// node_id, start_time and end_time query parameters narrow the result.
func (h *TelemetryHandler) ListTelemetry(w http.ResponseWriter, r *http.Request) {
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

	q := repository.TelemetryQuery{DeploymentID: id, Limit: limit}

	if raw := r.URL.Query().Get("node_id"); raw != "" {
		nodeID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, "Invalid node_id parameter", "node_id must be an integer", http.StatusBadRequest)
			return
		}
		q.NodeID = nodeID
	}

	if raw := r.URL.Query().Get("start_time"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, "Invalid start_time parameter", "expected an RFC3339 timestamp", http.StatusBadRequest)
			return
		}
		q.Start = t
	}

	if raw := r.URL.Query().Get("end_time"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, "Invalid end_time parameter", "expected an RFC3339 timestamp", http.StatusBadRequest)
			return
		}
		q.End = t
	}

	samples, total, err := h.telemetry.List(r.Context(), q)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			writeError(w, "Deployment not found", err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("Failed to list telemetry for deployment %d: %v", id, err)
		writeError(w, "Failed to list telemetry", err.Error(), http.StatusInternalServerError)
		return
	}
	if samples == nil {
		samples = []domain.TelemetrySample{}
	}

	writeJSON(w, TelemetryListResponse{Samples: samples, Total: total}, http.StatusOK)
}

// DetectBottlenecks runs deviation analysis over a deployment's recent
// telemetry and returns the flagged nodes
func (h *TelemetryHandler) DetectBottlenecks(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, "Invalid deployment ID", err.Error(), http.StatusBadRequest)
		return
	}

	window, err := queryInt(r, "analysis_window_minutes", service.DefaultAnalysisWindowMinutes)
	if err != nil || window < 1 || window > service.MaxAnalysisWindowMinutes {
		writeError(w, "Invalid analysis_window_minutes parameter",
			fmt.Sprintf("analysis_window_minutes must be between 1 and %d", service.MaxAnalysisWindowMinutes),
			http.StatusBadRequest)
		return
	}

	report, err := h.analytics.DetectBottlenecks(r.Context(), id, window)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			writeError(w, "Deployment not found", err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("Failed to detect bottlenecks for deployment %d: %v", id, err)
		writeError(w, "Failed to detect bottlenecks", err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, report, http.StatusOK)
}
