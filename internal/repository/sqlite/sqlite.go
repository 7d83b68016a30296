package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"switchyard/internal/domain"
	"switchyard/internal/repository"

	_ "modernc.org/sqlite"
)

// Repository implements repository.Repository using SQLite
type Repository struct {
	db *sql.DB
}

// New creates a new SQLite repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection serializes writers and keeps :memory: databases
	// from splitting across pool connections.
	db.SetMaxOpenConns(1)

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func dsn(path string) string {
	return "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)"
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS deployments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		description TEXT,
		target_node_count INTEGER NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS nodes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		deployment_id INTEGER NOT NULL,
		node_id TEXT NOT NULL,
		state TEXT NOT NULL DEFAULT 'PENDING',
		hostname TEXT,
		ip_address TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		state_changed_at DATETIME NOT NULL,
		UNIQUE (deployment_id, node_id),
		FOREIGN KEY (deployment_id) REFERENCES deployments(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS telemetry_samples (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		node_id INTEGER NOT NULL,
		deployment_id INTEGER NOT NULL,
		timestamp DATETIME NOT NULL,
		latency_ms REAL NOT NULL,
		throughput_gbps REAL NOT NULL,
		error_rate REAL NOT NULL,
		FOREIGN KEY (node_id) REFERENCES nodes(id) ON DELETE CASCADE,
		FOREIGN KEY (deployment_id) REFERENCES deployments(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_id TEXT NOT NULL UNIQUE,
		deployment_id INTEGER,
		node_id INTEGER,
		event_type TEXT NOT NULL,
		message TEXT NOT NULL,
		metadata TEXT,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (deployment_id) REFERENCES deployments(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_nodes_deployment ON nodes(deployment_id);
	CREATE INDEX IF NOT EXISTS idx_nodes_state ON nodes(state);
	CREATE INDEX IF NOT EXISTS idx_telemetry_deployment_ts ON telemetry_samples(deployment_id, timestamp);
	CREATE INDEX IF NOT EXISTS idx_telemetry_node_ts ON telemetry_samples(node_id, timestamp);
	CREATE INDEX IF NOT EXISTS idx_events_deployment ON events(deployment_id);
	`

	_, err := r.db.Exec(schema)
	return err
}

// ============================================================================
// Deployment Operations
// ============================================================================

// CreateDeployment inserts a deployment and its initial nodes atomically.
// Generated row ids are written back into dep and the node structs.
func (r *Repository) CreateDeployment(ctx context.Context, dep *domain.Deployment, nodes []*domain.Node) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO deployments (name, description, target_node_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, dep.Name, stringToNull(dep.Description), dep.TargetNodeCount, dep.CreatedAt, dep.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert deployment: %w", err)
	}

	depID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read deployment id: %w", err)
	}
	dep.ID = depID

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO nodes (deployment_id, node_id, state, created_at, updated_at, state_changed_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare node statement: %w", err)
	}
	defer stmt.Close()

	for _, node := range nodes {
		node.DeploymentID = depID
		res, err := stmt.ExecContext(ctx, depID, node.NodeID, string(node.State),
			node.CreatedAt, node.UpdatedAt, node.StateChangedAt)
		if err != nil {
			return fmt.Errorf("failed to insert node %s: %w", node.NodeID, err)
		}
		nodeID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read node id: %w", err)
		}
		node.ID = nodeID
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetDeployment retrieves a deployment by id, nil when missing
func (r *Repository) GetDeployment(ctx context.Context, id int64) (*domain.Deployment, error) {
	var row deploymentRow
	err := r.db.QueryRowContext(ctx,
		`SELECT `+deploymentColumns+` FROM deployments WHERE id = ?`, id,
	).Scan(row.scanArgs()...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query deployment: %w", err)
	}
	return row.toDomain(), nil
}

// GetDeploymentByName retrieves the oldest deployment with the given name,
// nil when missing
func (r *Repository) GetDeploymentByName(ctx context.Context, name string) (*domain.Deployment, error) {
	var row deploymentRow
	err := r.db.QueryRowContext(ctx,
		`SELECT `+deploymentColumns+` FROM deployments WHERE name = ? ORDER BY id LIMIT 1`, name,
	).Scan(row.scanArgs()...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query deployment by name: %w", err)
	}
	return row.toDomain(), nil
}

// ListDeployments returns a page of deployments, newest first, plus the
// total count before paging
func (r *Repository) ListDeployments(ctx context.Context, offset, limit int) ([]*domain.Deployment, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM deployments`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count deployments: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+deploymentColumns+` FROM deployments ORDER BY id DESC LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query deployments: %w", err)
	}
	defer rows.Close()

	var deployments []*domain.Deployment
	for rows.Next() {
		var row deploymentRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, 0, fmt.Errorf("failed to scan deployment: %w", err)
		}
		deployments = append(deployments, row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating deployments: %w", err)
	}

	return deployments, total, nil
}

// DeleteDeployment removes a deployment; nodes, telemetry and events go
// with it via CASCADE
func (r *Repository) DeleteDeployment(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM deployments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete deployment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("deployment %d not found", id)
	}
	return nil
}

// CountDeployments returns the total number of deployments
func (r *Repository) CountDeployments(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM deployments`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count deployments: %w", err)
	}
	return count, nil
}

// ============================================================================
// Node Operations
// ============================================================================

// GetNode retrieves a node by row id, nil when missing
func (r *Repository) GetNode(ctx context.Context, id int64) (*domain.Node, error) {
	var row nodeRow
	err := r.db.QueryRowContext(ctx,
		`SELECT `+nodeColumns+` FROM nodes WHERE id = ?`, id,
	).Scan(row.scanArgs()...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query node: %w", err)
	}
	return row.toDomain(), nil
}

// ListNodesByDeployment returns all nodes of a deployment in creation order
func (r *Repository) ListNodesByDeployment(ctx context.Context, deploymentID int64) ([]*domain.Node, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+nodeColumns+` FROM nodes WHERE deployment_id = ? ORDER BY id`, deploymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query nodes: %w", err)
	}
	defer rows.Close()

	return collectNodes(rows)
}

// ListNodesInStates returns all nodes currently in any of the given states,
// across deployments, in row id order
func (r *Repository) ListNodesInStates(ctx context.Context, states []domain.NodeState) ([]*domain.Node, error) {
	if len(states) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(states)), ",")
	args := make([]interface{}, len(states))
	for i, s := range states {
		args[i] = string(s)
	}

	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM nodes WHERE state IN (%s) ORDER BY id`, nodeColumns, placeholders),
		args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query nodes by state: %w", err)
	}
	defer rows.Close()

	return collectNodes(rows)
}

// CountNodesByDeployment returns the number of nodes in a deployment
func (r *Repository) CountNodesByDeployment(ctx context.Context, deploymentID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM nodes WHERE deployment_id = ?`, deploymentID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count nodes: %w", err)
	}
	return count, nil
}

// UpdateNodeState persists a state transition and stamps state_changed_at
func (r *Repository) UpdateNodeState(ctx context.Context, id int64, state domain.NodeState, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE nodes SET state = ?, state_changed_at = ?, updated_at = ?
		WHERE id = ?
	`, string(state), at, at, id)
	if err != nil {
		return fmt.Errorf("failed to update node state: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("node %d not found", id)
	}
	return nil
}

// AssignNodeNetwork sets hostname and ip_address. Both are write-once: the
// guard on hostname IS NULL makes repeated calls no-ops.
func (r *Repository) AssignNodeNetwork(ctx context.Context, id int64, hostname, ipAddress string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE nodes SET hostname = ?, ip_address = ?, updated_at = ?
		WHERE id = ? AND hostname IS NULL
	`, hostname, ipAddress, at, id)
	if err != nil {
		return fmt.Errorf("failed to assign node network: %w", err)
	}
	return nil
}

// ============================================================================
// Telemetry Operations
// ============================================================================

// InsertTelemetry appends a single sample. Each sample is committed on its
// own so one failed write never rolls back its siblings.
func (r *Repository) InsertTelemetry(ctx context.Context, sample *domain.TelemetrySample) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO telemetry_samples (node_id, deployment_id, timestamp, latency_ms, throughput_gbps, error_rate)
		VALUES (?, ?, ?, ?, ?, ?)
	`, sample.NodeID, sample.DeploymentID, sample.Timestamp,
		sample.LatencyMs, sample.ThroughputGbps, sample.ErrorRate)
	if err != nil {
		return fmt.Errorf("failed to insert sample: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read sample id: %w", err)
	}
	sample.ID = id
	return nil
}

// ListTelemetry returns samples matching the query, newest first, plus the
// total count before the limit
func (r *Repository) ListTelemetry(ctx context.Context, q repository.TelemetryQuery) ([]domain.TelemetrySample, int, error) {
	where := "deployment_id = ?"
	args := []interface{}{q.DeploymentID}

	if q.NodeID != 0 {
		where += " AND node_id = ?"
		args = append(args, q.NodeID)
	}
	if !q.Start.IsZero() {
		where += " AND timestamp >= ?"
		args = append(args, q.Start)
	}
	if !q.End.IsZero() {
		where += " AND timestamp <= ?"
		args = append(args, q.End)
	}

	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM telemetry_samples WHERE `+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count samples: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+sampleColumns+` FROM telemetry_samples WHERE `+where+
			` ORDER BY timestamp DESC, id DESC LIMIT ?`,
		append(args, q.Limit)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query samples: %w", err)
	}
	defer rows.Close()

	samples, err := collectSamples(rows)
	if err != nil {
		return nil, 0, err
	}
	return samples, total, nil
}

// TelemetrySince returns all samples of a deployment at or after the given
// instant, oldest first
func (r *Repository) TelemetrySince(ctx context.Context, deploymentID int64, since time.Time) ([]domain.TelemetrySample, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+sampleColumns+` FROM telemetry_samples
		 WHERE deployment_id = ? AND timestamp >= ? ORDER BY timestamp, id`,
		deploymentID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query sample window: %w", err)
	}
	defer rows.Close()

	return collectSamples(rows)
}

// ============================================================================
// Event Operations
// ============================================================================

// InsertEvent appends an event to the audit log
func (r *Repository) InsertEvent(ctx context.Context, event *domain.Event) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO events (event_id, deployment_id, node_id, event_type, message, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, event.EventID, int64ToNull(event.DeploymentID), int64PtrToNull(event.NodeID),
		string(event.Type), event.Message, stringToNull(event.Metadata), event.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read event id: %w", err)
	}
	event.ID = id
	return nil
}

// ListEvents returns a deployment's events, newest first
func (r *Repository) ListEvents(ctx context.Context, deploymentID int64, limit int) ([]*domain.Event, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE deployment_id = ? ORDER BY id DESC LIMIT ?`,
		deploymentID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		var row eventRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}

// ============================================================================
// Lifecycle
// ============================================================================

// Ping verifies the database connection
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}
