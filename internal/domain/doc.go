// Package domain defines the core domain types for the Switchyard deployment orchestrator.
//
// This package contains the fundamental entities and the pure decision logic
// that gives the system its behavior: deployments, nodes with their lifecycle
// state machine, telemetry samples with their deterministic generator, and the
// statistical bottleneck detector.
//
// # Core Types
//
// Deployment represents a named collection of simulated network nodes managed
// as a unit.
//
// Node represents a single simulated network device (switch/router) progressing
// through the lifecycle state machine:
//
//	PENDING -> PROVISIONING -> CONFIGURING -> RUNNING or FAILED
//
// TelemetrySample is an immutable time-series measurement (latency, throughput,
// error rate) produced for running nodes.
//
// Event is an append-only audit fact recording state transitions and
// deployment-level actions.
//
// # Pure Logic
//
// NextState implements the lifecycle state machine as a pure decision function:
// given the current state, the time spent in it and the node identity, it
// returns the next state. Dwell times are derived from the node id by hashing,
// so repeated runs are reproducible without stored seeds. The single source of
// true randomness, the configure-failure roll, is isolated behind the
// Randomness interface.
//
// GenerateTelemetry computes deterministic metrics from (node id, timestamp):
// the same inputs always produce identical values, which makes telemetry
// scenarios reproducible in tests. A fixed subset of node ids carries a
// degraded baseline so bottleneck scenarios exist in any large deployment.
//
// DetectBottlenecks computes deployment-wide baselines and per-node deviation
// scores over a set of samples, flagging nodes whose z-scores cross the
// directional thresholds.
//
// # Design Principles
//
// - Pure domain logic without infrastructure concerns
// - Deterministic derivations instead of stored random values
// - Explicit interfaces (Clock, Randomness) for everything time- or
//   chance-dependent, so tests can substitute them
package domain
