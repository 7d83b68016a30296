package domain

import (
	"fmt"
	"strings"
	"time"
)

// NodeState represents a node's position in the lifecycle state machine
type NodeState string

const (
	NodeStatePending      NodeState = "PENDING"      // Created, waiting for the lifecycle worker
	NodeStateProvisioning NodeState = "PROVISIONING" // Hardware provisioning in progress
	NodeStateConfiguring  NodeState = "CONFIGURING"  // Configuration being applied
	NodeStateRunning      NodeState = "RUNNING"      // Operational, producing telemetry
	NodeStateFailed       NodeState = "FAILED"       // Configuration failed, terminal
)

// ActiveStates are the states the lifecycle worker still has work to do on.
// RUNNING and FAILED are terminal and excluded to bound per-tick work.
var ActiveStates = []NodeState{NodeStatePending, NodeStateProvisioning, NodeStateConfiguring}

// Valid reports whether s is one of the five known lifecycle states
func (s NodeState) Valid() bool {
	switch s {
	case NodeStatePending, NodeStateProvisioning, NodeStateConfiguring, NodeStateRunning, NodeStateFailed:
		return true
	}
	return false
}

// Terminal reports whether the state machine will never move s again
func (s NodeState) Terminal() bool {
	return s == NodeStateRunning || s == NodeStateFailed
}

// Node represents a single simulated network device in a deployment
type Node struct {
	ID             int64     `json:"id"`
	DeploymentID   int64     `json:"deployment_id"`
	NodeID         string    `json:"node_id"`
	State          NodeState `json:"state"`
	Hostname       string    `json:"hostname,omitempty"`
	IPAddress      string    `json:"ip_address,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	StateChangedAt time.Time `json:"state_changed_at"`
}

// NodeIdentifier builds the per-deployment node identifier for a 1-based ordinal:
// node-001, node-002, ...
func NodeIdentifier(ordinal int) string {
	return fmt.Sprintf("node-%03d", ordinal)
}

// DeriveHostname returns the hostname assigned when a node enters PROVISIONING.
// Derived, never random: switch-{deployment}-{ordinal}.
func DeriveHostname(deploymentID int64, nodeID string) string {
	return fmt.Sprintf("switch-%d-%s", deploymentID, strings.TrimPrefix(nodeID, "node-"))
}

// DeriveIPAddress returns the address assigned when a node enters PROVISIONING
func DeriveIPAddress(deploymentID, id int64) string {
	return fmt.Sprintf("10.0.%d.%d", deploymentID, id%255)
}
