package domain

import (
	"encoding/binary"
	"fmt"
	"time"

	"golang.org/x/crypto/blake2b"
)

// ConfigureFailureRate is the system-wide probability that a node fails
// configuration instead of reaching RUNNING. Applied via an injected
// Randomness source; this is deliberately the one non-deterministic branch
// in the lifecycle.
const ConfigureFailureRate = 0.05

// dwellHash maps a node id to a stable 64-bit value. The salt byte separates
// the provisioning and configuring draws so they vary independently.
func dwellHash(id int64, salt byte) uint64 {
	var buf [9]byte
	binary.BigEndian.PutUint64(buf[:8], uint64(id))
	buf[8] = salt
	sum := blake2b.Sum256(buf[:])
	return binary.BigEndian.Uint64(sum[:8])
}

// ProvisioningDwell returns how long a node must stay in PROVISIONING before
// it may move to CONFIGURING. Derived from the node id (3-7s) so repeated
// runs over the same node reproduce the same timing.
func ProvisioningDwell(id int64) time.Duration {
	return time.Duration(3+dwellHash(id, 'p')%5) * time.Second
}

// ConfiguringDwell returns how long a node must stay in CONFIGURING before
// it may move to RUNNING or FAILED. Derived from the node id (5-11s).
func ConfiguringDwell(id int64) time.Duration {
	return time.Duration(5+dwellHash(id, 'c')%7) * time.Second
}

// NextState is the lifecycle state machine's pure decision function. Given a
// node's current state, the time it has spent there and its identity, it
// returns the next state and whether a transition occurred.
//
//	PENDING      -> PROVISIONING  immediately
//	PROVISIONING -> CONFIGURING   after ProvisioningDwell(id)
//	CONFIGURING  -> RUNNING       after ConfiguringDwell(id), or
//	             -> FAILED        with probability ConfigureFailureRate
//	RUNNING, FAILED               terminal, never re-evaluated into motion
//
// The Randomness source is consulted only on the CONFIGURING exit; a node
// re-evaluated before its dwell elapses performs no transition and draws
// nothing. A state outside the five known values indicates data corruption
// and panics.
func NextState(state NodeState, timeInState time.Duration, id int64, r Randomness) (NodeState, bool) {
	switch state {
	case NodeStatePending:
		return NodeStateProvisioning, true

	case NodeStateProvisioning:
		if timeInState >= ProvisioningDwell(id) {
			return NodeStateConfiguring, true
		}
		return state, false

	case NodeStateConfiguring:
		if timeInState >= ConfiguringDwell(id) {
			if r.Float64() < ConfigureFailureRate {
				return NodeStateFailed, true
			}
			return NodeStateRunning, true
		}
		return state, false

	case NodeStateRunning, NodeStateFailed:
		return state, false
	}

	panic(fmt.Sprintf("node in unknown lifecycle state %q", state))
}

// TransitionMessage builds the audit message recorded with each state change
func TransitionMessage(nodeID string, from, to NodeState) string {
	switch {
	case from == NodeStatePending && to == NodeStateProvisioning:
		return fmt.Sprintf("Starting hardware provisioning for %s", nodeID)
	case from == NodeStateProvisioning && to == NodeStateConfiguring:
		return fmt.Sprintf("Hardware provisioned, starting configuration for %s", nodeID)
	case to == NodeStateRunning:
		return fmt.Sprintf("Node %s is now running", nodeID)
	case to == NodeStateFailed:
		return fmt.Sprintf("Configuration failed for %s", nodeID)
	}
	return fmt.Sprintf("Node %s transitioned from %s to %s", nodeID, from, to)
}
