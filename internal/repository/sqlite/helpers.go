package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"switchyard/internal/domain"
)

// ============================================================================
// Null Type Conversion Helpers
// ============================================================================

// nullToString safely converts sql.NullString to string
func nullToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// stringToNull safely converts string to sql.NullString
func stringToNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// int64ToNull converts an id to sql.NullInt64 (0 = no reference)
func int64ToNull(id int64) sql.NullInt64 {
	if id == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: id, Valid: true}
}

// int64PtrToNull safely converts *int64 to sql.NullInt64
func int64PtrToNull(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

// nullToInt64Ptr safely converts sql.NullInt64 to *int64
func nullToInt64Ptr(ni sql.NullInt64) *int64 {
	if ni.Valid {
		return &ni.Int64
	}
	return nil
}

// ============================================================================
// Deployment Row Scanner
// ============================================================================

// deploymentRow holds all columns from a deployment query for scanning
type deploymentRow struct {
	ID              int64
	Name            string
	Description     sql.NullString
	TargetNodeCount int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// scanArgs returns pointers to all fields for sql.Scan()
// MUST match deploymentColumns order exactly
func (r *deploymentRow) scanArgs() []interface{} {
	return []interface{}{
		&r.ID,
		&r.Name,
		&r.Description,
		&r.TargetNodeCount,
		&r.CreatedAt,
		&r.UpdatedAt,
	}
}

// toDomain converts the scanned row to a domain.Deployment
func (r *deploymentRow) toDomain() *domain.Deployment {
	return &domain.Deployment{
		ID:              r.ID,
		Name:            r.Name,
		Description:     nullToString(r.Description),
		TargetNodeCount: r.TargetNodeCount,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

// deploymentColumns is the SELECT column list for deployment queries
const deploymentColumns = `id, name, description, target_node_count, created_at, updated_at`

// ============================================================================
// Node Row Scanner
// ============================================================================

// nodeRow holds all columns from a node query for scanning
type nodeRow struct {
	ID             int64
	DeploymentID   int64
	NodeID         string
	State          string
	Hostname       sql.NullString
	IPAddress      sql.NullString
	CreatedAt      time.Time
	UpdatedAt      time.Time
	StateChangedAt time.Time
}

// scanArgs returns pointers to all fields for sql.Scan()
// MUST match nodeColumns order exactly
func (r *nodeRow) scanArgs() []interface{} {
	return []interface{}{
		&r.ID,
		&r.DeploymentID,
		&r.NodeID,
		&r.State,
		&r.Hostname,
		&r.IPAddress,
		&r.CreatedAt,
		&r.UpdatedAt,
		&r.StateChangedAt,
	}
}

// toDomain converts the scanned row to a domain.Node. The stored state is
// passed through untouched; the lifecycle machine is the authority on
// whether it is a known state.
func (r *nodeRow) toDomain() *domain.Node {
	return &domain.Node{
		ID:             r.ID,
		DeploymentID:   r.DeploymentID,
		NodeID:         r.NodeID,
		State:          domain.NodeState(r.State),
		Hostname:       nullToString(r.Hostname),
		IPAddress:      nullToString(r.IPAddress),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
		StateChangedAt: r.StateChangedAt,
	}
}

// nodeColumns is the SELECT column list for node queries
const nodeColumns = `id, deployment_id, node_id, state, hostname, ip_address, created_at, updated_at, state_changed_at`

// collectNodes drains a node result set
func collectNodes(rows *sql.Rows) ([]*domain.Node, error) {
	var nodes []*domain.Node
	for rows.Next() {
		var row nodeRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan node: %w", err)
		}
		nodes = append(nodes, row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating nodes: %w", err)
	}
	return nodes, nil
}

// ============================================================================
// Telemetry Row Scanner
// ============================================================================

// sampleColumns is the SELECT column list for telemetry queries
const sampleColumns = `id, node_id, deployment_id, timestamp, latency_ms, throughput_gbps, error_rate`

// collectSamples drains a telemetry result set. All columns are NOT NULL,
// so samples scan directly into the domain struct.
func collectSamples(rows *sql.Rows) ([]domain.TelemetrySample, error) {
	var samples []domain.TelemetrySample
	for rows.Next() {
		var s domain.TelemetrySample
		if err := rows.Scan(&s.ID, &s.NodeID, &s.DeploymentID, &s.Timestamp,
			&s.LatencyMs, &s.ThroughputGbps, &s.ErrorRate); err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		samples = append(samples, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating samples: %w", err)
	}
	return samples, nil
}

// ============================================================================
// Event Row Scanner
// ============================================================================

// eventRow holds all columns from an event query for scanning
type eventRow struct {
	ID           int64
	EventID      string
	DeploymentID sql.NullInt64
	NodeID       sql.NullInt64
	EventType    string
	Message      string
	Metadata     sql.NullString
	CreatedAt    time.Time
}

// scanArgs returns pointers to all fields for sql.Scan()
// MUST match eventColumns order exactly
func (r *eventRow) scanArgs() []interface{} {
	return []interface{}{
		&r.ID,
		&r.EventID,
		&r.DeploymentID,
		&r.NodeID,
		&r.EventType,
		&r.Message,
		&r.Metadata,
		&r.CreatedAt,
	}
}

// toDomain converts the scanned row to a domain.Event
func (r *eventRow) toDomain() *domain.Event {
	var depID int64
	if r.DeploymentID.Valid {
		depID = r.DeploymentID.Int64
	}
	return &domain.Event{
		ID:           r.ID,
		EventID:      r.EventID,
		DeploymentID: depID,
		NodeID:       nullToInt64Ptr(r.NodeID),
		Type:         domain.EventType(r.EventType),
		Message:      r.Message,
		Metadata:     nullToString(r.Metadata),
		CreatedAt:    r.CreatedAt,
	}
}

// eventColumns is the SELECT column list for event queries
const eventColumns = `id, event_id, deployment_id, node_id, event_type, message, metadata, created_at`
