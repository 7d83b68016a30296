package domain

import "time"

// Deployment represents a network deployment with multiple nodes
type Deployment struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	TargetNodeCount int       `json:"target_node_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DeploymentDetail extends Deployment with the derived node count.
// The count is computed from the nodes table, never stored redundantly.
type DeploymentDetail struct {
	Deployment
	CurrentNodeCount int `json:"current_node_count"`
}

// MaxNodesPerDeployment bounds the synchronous node generation at creation
const MaxNodesPerDeployment = 1000

// MaxNameLength bounds deployment names
const MaxNameLength = 255
