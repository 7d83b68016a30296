package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"switchyard/internal/domain"
	"switchyard/internal/repository/sqlite"
	"switchyard/internal/service"
	"switchyard/internal/worker"
)

var testStart = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

// newTestMux wires the API routes against an in-memory repository, the
// same way cmd/server does
func newTestMux(t *testing.T) (*http.ServeMux, *sqlite.Repository) {
	t.Helper()

	repo, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	clock := &testClock{now: testStart}
	bus := service.NewEventBus()

	deployments := NewDeploymentHandler(service.NewDeploymentService(repo, bus, clock))
	telemetry := NewTelemetryHandler(
		service.NewTelemetryService(repo, clock),
		service.NewAnalyticsService(repo, clock),
	)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/deployments", deployments.Create)
	mux.HandleFunc("GET /api/deployments", deployments.List)
	mux.HandleFunc("GET /api/deployments/{id}", deployments.Get)
	mux.HandleFunc("DELETE /api/deployments/{id}", deployments.Delete)
	mux.HandleFunc("GET /api/deployments/{id}/nodes", deployments.ListNodes)
	mux.HandleFunc("GET /api/deployments/{id}/events", deployments.ListEvents)
	mux.HandleFunc("GET /api/deployments/{id}/export", deployments.Export)
	mux.HandleFunc("GET /api/deployments/{id}/telemetry", telemetry.ListTelemetry)
	mux.HandleFunc("GET /api/deployments/{id}/bottlenecks", telemetry.DetectBottlenecks)

	return mux, repo
}

func doRequest(t *testing.T, mux *http.ServeMux, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func createDeployment(t *testing.T, mux *http.ServeMux, name string, nodes int) domain.Deployment {
	t.Helper()

	body := fmt.Sprintf(`{"name": %q, "target_node_count": %d}`, name, nodes)
	rec := doRequest(t, mux, http.MethodPost, "/api/deployments", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating deployment, got %d: %s", rec.Code, rec.Body.String())
	}

	var dep domain.Deployment
	decodeBody(t, rec, &dep)
	return dep
}

// ============================================================================
// Deployment endpoints
// ============================================================================

func TestCreateDeployment(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := doRequest(t, mux, http.MethodPost, "/api/deployments",
		`{"name": "edge-alpha", "description": "test fleet", "target_node_count": 3}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var dep domain.Deployment
	decodeBody(t, rec, &dep)
	if dep.ID == 0 {
		t.Error("expected deployment to be assigned an id")
	}
	if dep.Name != "edge-alpha" || dep.TargetNodeCount != 3 {
		t.Errorf("unexpected deployment body: %+v", dep)
	}

	t.Run("rejects malformed body", func(t *testing.T) {
		rec := doRequest(t, mux, http.MethodPost, "/api/deployments", `{"name": `)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
		var resp ErrorResponse
		decodeBody(t, rec, &resp)
		if resp.Error != "Invalid request body" {
			t.Errorf("unexpected error: %q", resp.Error)
		}
	})

	t.Run("rejects validation failures", func(t *testing.T) {
		cases := []struct {
			name string
			body string
		}{
			{"missing name", `{"target_node_count": 3}`},
			{"zero nodes", `{"name": "edge-beta", "target_node_count": 0}`},
			{"too many nodes", `{"name": "edge-beta", "target_node_count": 1001}`},
			{"name too long", fmt.Sprintf(`{"name": %q, "target_node_count": 1}`, strings.Repeat("a", 256))},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				rec := doRequest(t, mux, http.MethodPost, "/api/deployments", tc.body)
				if rec.Code != http.StatusBadRequest {
					t.Errorf("expected status 400, got %d", rec.Code)
				}
			})
		}
	})
}

func TestGetDeployment(t *testing.T) {
	mux, _ := newTestMux(t)
	dep := createDeployment(t, mux, "edge-alpha", 5)

	rec := doRequest(t, mux, http.MethodGet, fmt.Sprintf("/api/deployments/%d", dep.ID), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var detail domain.DeploymentDetail
	decodeBody(t, rec, &detail)
	if detail.Name != "edge-alpha" {
		t.Errorf("expected name edge-alpha, got %q", detail.Name)
	}
	if detail.CurrentNodeCount != 5 {
		t.Errorf("expected current_node_count 5, got %d", detail.CurrentNodeCount)
	}

	t.Run("unknown id returns 404", func(t *testing.T) {
		rec := doRequest(t, mux, http.MethodGet, "/api/deployments/999", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rec.Code)
		}
		var resp ErrorResponse
		decodeBody(t, rec, &resp)
		if resp.Error != "Deployment not found" {
			t.Errorf("unexpected error: %q", resp.Error)
		}
	})

	t.Run("non-numeric id returns 400", func(t *testing.T) {
		rec := doRequest(t, mux, http.MethodGet, "/api/deployments/abc", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
	})
}

func TestListDeployments(t *testing.T) {
	mux, _ := newTestMux(t)
	createDeployment(t, mux, "edge-alpha", 1)
	createDeployment(t, mux, "edge-beta", 1)

	rec := doRequest(t, mux, http.MethodGet, "/api/deployments", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var deployments []domain.Deployment
	decodeBody(t, rec, &deployments)
	if len(deployments) != 2 {
		t.Fatalf("expected 2 deployments, got %d", len(deployments))
	}
	if deployments[0].Name != "edge-beta" {
		t.Errorf("expected newest deployment first, got %q", deployments[0].Name)
	}

	t.Run("pagination", func(t *testing.T) {
		rec := doRequest(t, mux, http.MethodGet, "/api/deployments?skip=1&limit=1", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		var page []domain.Deployment
		decodeBody(t, rec, &page)
		if len(page) != 1 || page[0].Name != "edge-alpha" {
			t.Errorf("expected second page with edge-alpha, got %+v", page)
		}
	})

	t.Run("rejects out-of-range parameters", func(t *testing.T) {
		for _, target := range []string{
			"/api/deployments?skip=-1",
			"/api/deployments?skip=abc",
			"/api/deployments?limit=0",
			"/api/deployments?limit=1001",
			"/api/deployments?limit=abc",
		} {
			rec := doRequest(t, mux, http.MethodGet, target, "")
			if rec.Code != http.StatusBadRequest {
				t.Errorf("%s: expected status 400, got %d", target, rec.Code)
			}
		}
	})
}

func TestDeleteDeployment(t *testing.T) {
	mux, _ := newTestMux(t)
	dep := createDeployment(t, mux, "edge-alpha", 2)

	rec := doRequest(t, mux, http.MethodDelete, fmt.Sprintf("/api/deployments/%d", dep.ID), "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}

	rec = doRequest(t, mux, http.MethodGet, fmt.Sprintf("/api/deployments/%d", dep.ID), "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404 after delete, got %d", rec.Code)
	}

	rec = doRequest(t, mux, http.MethodDelete, fmt.Sprintf("/api/deployments/%d", dep.ID), "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404 deleting twice, got %d", rec.Code)
	}
}

func TestListNodes(t *testing.T) {
	mux, _ := newTestMux(t)
	dep := createDeployment(t, mux, "edge-alpha", 3)

	rec := doRequest(t, mux, http.MethodGet, fmt.Sprintf("/api/deployments/%d/nodes", dep.ID), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp NodeListResponse
	decodeBody(t, rec, &resp)
	if resp.Total != 3 || len(resp.Nodes) != 3 {
		t.Fatalf("expected 3 nodes, got total=%d len=%d", resp.Total, len(resp.Nodes))
	}
	if resp.Nodes[0].NodeID != "node-001" {
		t.Errorf("expected node-001 first, got %q", resp.Nodes[0].NodeID)
	}
	for _, node := range resp.Nodes {
		if node.State != domain.NodeStatePending {
			t.Errorf("node %s: expected PENDING, got %s", node.NodeID, node.State)
		}
	}

	t.Run("unknown deployment returns 404", func(t *testing.T) {
		rec := doRequest(t, mux, http.MethodGet, "/api/deployments/999/nodes", "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", rec.Code)
		}
	})
}

// ============================================================================
// Telemetry and bottleneck endpoints
// ============================================================================

func TestTelemetryEndpoint(t *testing.T) {
	mux, repo := newTestMux(t)
	dep := createDeployment(t, mux, "edge-alpha", 2)

	ctx := context.Background()
	nodes, err := repo.ListNodesByDeployment(ctx, dep.ID)
	if err != nil {
		t.Fatalf("failed to list nodes: %v", err)
	}

	// Two samples for the first node, one later sample for the second
	base := testStart.Add(-5 * time.Minute)
	inserts := []struct {
		nodeID int64
		at     time.Time
	}{
		{nodes[0].ID, base},
		{nodes[0].ID, base.Add(5 * time.Second)},
		{nodes[1].ID, base.Add(10 * time.Second)},
	}
	for _, in := range inserts {
		err := repo.InsertTelemetry(ctx, &domain.TelemetrySample{
			NodeID:         in.nodeID,
			DeploymentID:   dep.ID,
			Timestamp:      in.at,
			LatencyMs:      12.5,
			ThroughputGbps: 9.1,
			ErrorRate:      0.2,
		})
		if err != nil {
			t.Fatalf("failed to insert sample: %v", err)
		}
	}

	rec := doRequest(t, mux, http.MethodGet, fmt.Sprintf("/api/deployments/%d/telemetry", dep.ID), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp TelemetryListResponse
	decodeBody(t, rec, &resp)
	if resp.Total != 3 || len(resp.Samples) != 3 {
		t.Fatalf("expected 3 samples, got total=%d len=%d", resp.Total, len(resp.Samples))
	}
	if resp.Samples[0].NodeID != nodes[1].ID {
		t.Errorf("expected newest sample first, got node %d", resp.Samples[0].NodeID)
	}

	t.Run("filter by node", func(t *testing.T) {
		target := fmt.Sprintf("/api/deployments/%d/telemetry?node_id=%d", dep.ID, nodes[0].ID)
		rec := doRequest(t, mux, http.MethodGet, target, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		var resp TelemetryListResponse
		decodeBody(t, rec, &resp)
		if resp.Total != 2 {
			t.Errorf("expected 2 samples for node %d, got %d", nodes[0].ID, resp.Total)
		}
	})

	t.Run("filter by time range", func(t *testing.T) {
		start := base.Add(3 * time.Second).Format(time.RFC3339)
		target := fmt.Sprintf("/api/deployments/%d/telemetry?start_time=%s", dep.ID, start)
		rec := doRequest(t, mux, http.MethodGet, target, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		var resp TelemetryListResponse
		decodeBody(t, rec, &resp)
		if resp.Total != 2 {
			t.Errorf("expected 2 samples after %s, got %d", start, resp.Total)
		}
	})

	t.Run("limit caps the page not the total", func(t *testing.T) {
		target := fmt.Sprintf("/api/deployments/%d/telemetry?limit=1", dep.ID)
		rec := doRequest(t, mux, http.MethodGet, target, "")
		var resp TelemetryListResponse
		decodeBody(t, rec, &resp)
		if len(resp.Samples) != 1 || resp.Total != 3 {
			t.Errorf("expected 1 sample of 3 total, got len=%d total=%d", len(resp.Samples), resp.Total)
		}
	})

	t.Run("rejects invalid parameters", func(t *testing.T) {
		for _, target := range []string{
			fmt.Sprintf("/api/deployments/%d/telemetry?node_id=abc", dep.ID),
			fmt.Sprintf("/api/deployments/%d/telemetry?start_time=yesterday", dep.ID),
			fmt.Sprintf("/api/deployments/%d/telemetry?end_time=13:00", dep.ID),
			fmt.Sprintf("/api/deployments/%d/telemetry?limit=0", dep.ID),
			fmt.Sprintf("/api/deployments/%d/telemetry?limit=1001", dep.ID),
		} {
			rec := doRequest(t, mux, http.MethodGet, target, "")
			if rec.Code != http.StatusBadRequest {
				t.Errorf("%s: expected status 400, got %d", target, rec.Code)
			}
		}
	})

	t.Run("unknown deployment returns 404", func(t *testing.T) {
		rec := doRequest(t, mux, http.MethodGet, "/api/deployments/999/telemetry", "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", rec.Code)
		}
	})
}

func TestBottlenecksEndpoint(t *testing.T) {
	mux, _ := newTestMux(t)
	dep := createDeployment(t, mux, "edge-alpha", 2)

	rec := doRequest(t, mux, http.MethodGet, fmt.Sprintf("/api/deployments/%d/bottlenecks", dep.ID), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"bottlenecks":[]`) {
		t.Errorf("expected empty bottlenecks array, got %s", rec.Body.String())
	}

	var report domain.BottleneckReport
	decodeBody(t, rec, &report)
	if report.TotalBottlenecks != 0 {
		t.Errorf("expected no bottlenecks, got %d", report.TotalBottlenecks)
	}
	if report.AnalysisWindowMinutes != 10 {
		t.Errorf("expected default window of 10 minutes, got %d", report.AnalysisWindowMinutes)
	}

	t.Run("rejects out-of-range windows", func(t *testing.T) {
		for _, target := range []string{
			fmt.Sprintf("/api/deployments/%d/bottlenecks?analysis_window_minutes=0", dep.ID),
			fmt.Sprintf("/api/deployments/%d/bottlenecks?analysis_window_minutes=61", dep.ID),
			fmt.Sprintf("/api/deployments/%d/bottlenecks?analysis_window_minutes=abc", dep.ID),
		} {
			rec := doRequest(t, mux, http.MethodGet, target, "")
			if rec.Code != http.StatusBadRequest {
				t.Errorf("%s: expected status 400, got %d", target, rec.Code)
			}
		}
	})

	t.Run("unknown deployment returns 404", func(t *testing.T) {
		rec := doRequest(t, mux, http.MethodGet, "/api/deployments/999/bottlenecks", "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", rec.Code)
		}
	})
}

// ============================================================================
// Event and export endpoints
// ============================================================================

func TestEventsEndpoint(t *testing.T) {
	mux, _ := newTestMux(t)
	dep := createDeployment(t, mux, "edge-alpha", 1)

	rec := doRequest(t, mux, http.MethodGet, fmt.Sprintf("/api/deployments/%d/events", dep.ID), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp EventListResponse
	decodeBody(t, rec, &resp)
	if resp.Total != 1 || len(resp.Events) != 1 {
		t.Fatalf("expected the creation event, got total=%d len=%d", resp.Total, len(resp.Events))
	}
	if resp.Events[0].Type != domain.EventDeploymentCreated {
		t.Errorf("expected DEPLOYMENT_CREATED, got %s", resp.Events[0].Type)
	}

	t.Run("rejects out-of-range limit", func(t *testing.T) {
		target := fmt.Sprintf("/api/deployments/%d/events?limit=1001", dep.ID)
		rec := doRequest(t, mux, http.MethodGet, target, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("unknown deployment returns 404", func(t *testing.T) {
		rec := doRequest(t, mux, http.MethodGet, "/api/deployments/999/events", "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", rec.Code)
		}
	})
}

func TestExportEndpoint(t *testing.T) {
	mux, _ := newTestMux(t)
	dep := createDeployment(t, mux, "edge-alpha", 2)

	t.Run("json", func(t *testing.T) {
		rec := doRequest(t, mux, http.MethodGet, fmt.Sprintf("/api/deployments/%d/export?format=json", dep.ID), "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if got := rec.Header().Get("Content-Type"); got != "application/json" {
			t.Errorf("expected application/json, got %q", got)
		}
		wantDisposition := fmt.Sprintf("attachment; filename=deployment-%d.json", dep.ID)
		if got := rec.Header().Get("Content-Disposition"); got != wantDisposition {
			t.Errorf("expected %q, got %q", wantDisposition, got)
		}

		var export struct {
			Deployment domain.Deployment `json:"deployment"`
			Nodes      []domain.Node     `json:"nodes"`
		}
		decodeBody(t, rec, &export)
		if export.Deployment.Name != "edge-alpha" || len(export.Nodes) != 2 {
			t.Errorf("unexpected export: %+v", export)
		}
	})

	t.Run("defaults to json", func(t *testing.T) {
		rec := doRequest(t, mux, http.MethodGet, fmt.Sprintf("/api/deployments/%d/export", dep.ID), "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if got := rec.Header().Get("Content-Type"); got != "application/json" {
			t.Errorf("expected application/json, got %q", got)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		rec := doRequest(t, mux, http.MethodGet, fmt.Sprintf("/api/deployments/%d/export?format=yaml", dep.ID), "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if got := rec.Header().Get("Content-Type"); got != "application/x-yaml" {
			t.Errorf("expected application/x-yaml, got %q", got)
		}
		if !strings.Contains(rec.Body.String(), "name: edge-alpha") {
			t.Errorf("expected yaml body, got %s", rec.Body.String())
		}
	})

	t.Run("ansible", func(t *testing.T) {
		rec := doRequest(t, mux, http.MethodGet, fmt.Sprintf("/api/deployments/%d/export?format=ansible", dep.ID), "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		wantDisposition := fmt.Sprintf("attachment; filename=deployment-%d-inventory.yml", dep.ID)
		if got := rec.Header().Get("Content-Disposition"); got != wantDisposition {
			t.Errorf("expected %q, got %q", wantDisposition, got)
		}
		body := rec.Body.String()
		if !strings.Contains(body, "pending:") || !strings.Contains(body, "node-001") {
			t.Errorf("expected inventory grouped by state, got %s", body)
		}
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		rec := doRequest(t, mux, http.MethodGet, fmt.Sprintf("/api/deployments/%d/export?format=xml", dep.ID), "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("unknown deployment returns 404 without headers", func(t *testing.T) {
		rec := doRequest(t, mux, http.MethodGet, "/api/deployments/999/export?format=json", "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", rec.Code)
		}
		if got := rec.Header().Get("Content-Disposition"); got != "" {
			t.Errorf("expected no attachment header, got %q", got)
		}
	})
}

// ============================================================================
// Health and service info
// ============================================================================

func TestHealthEndpoint(t *testing.T) {
	repo, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	runner := worker.NewRunner()
	health := NewHealthHandler(repo, runner)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", health.Health)
	mux.HandleFunc("GET /{$}", health.ServiceInfo)

	t.Run("degraded while workers are stopped", func(t *testing.T) {
		rec := doRequest(t, mux, http.MethodGet, "/health", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		var resp HealthResponse
		decodeBody(t, rec, &resp)
		if resp.Status != "degraded" {
			t.Errorf("expected degraded, got %q", resp.Status)
		}
		if resp.Database != "healthy" {
			t.Errorf("expected healthy database, got %q", resp.Database)
		}
		if resp.ActiveWorkers != 0 {
			t.Errorf("expected 0 active workers, got %d", resp.ActiveWorkers)
		}
	})

	t.Run("healthy once workers run", func(t *testing.T) {
		noop := func(context.Context) error { return nil }
		if err := runner.Register("lifecycle", time.Hour, noop); err != nil {
			t.Fatalf("failed to register worker: %v", err)
		}
		if err := runner.Register("telemetry", time.Hour, noop); err != nil {
			t.Fatalf("failed to register worker: %v", err)
		}
		runner.Start(context.Background())
		t.Cleanup(runner.Stop)

		rec := doRequest(t, mux, http.MethodGet, "/health", "")
		var resp HealthResponse
		decodeBody(t, rec, &resp)
		if resp.Status != "healthy" {
			t.Errorf("expected healthy, got %q", resp.Status)
		}
		if resp.ActiveWorkers != 2 {
			t.Errorf("expected 2 active workers, got %d", resp.ActiveWorkers)
		}
		if resp.ActiveDeployments != 0 {
			t.Errorf("expected 0 active deployments, got %d", resp.ActiveDeployments)
		}
	})

	t.Run("service info", func(t *testing.T) {
		rec := doRequest(t, mux, http.MethodGet, "/", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"service":"switchyard"`) {
			t.Errorf("expected service info body, got %s", rec.Body.String())
		}
	})
}
