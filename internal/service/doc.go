// Package service implements business logic for the Switchyard orchestrator.
//
// This package provides service layers that coordinate between the HTTP
// handlers, the worker runner and the repository layer, implementing
// business rules, validation, and event publishing.
//
// # Services
//
// DeploymentService manages deployment CRUD, node listings, the audit log
// and seed file application. Creating a deployment atomically creates its
// full set of PENDING nodes.
//
// LifecycleService advances nodes through the provisioning state machine
// on each worker tick. A failing node is isolated and the rest of the
// fleet keeps moving.
//
// TelemetryService samples deterministic metrics from every RUNNING node
// and serves the stored time series.
//
// AnalyticsService runs statistical bottleneck detection over a trailing
// telemetry window.
//
// # Event System
//
// Mutating operations record events in the audit log and publish them via
// EventBus for real-time delivery to connected clients (Server-Sent
// Events) and the optional NATS publisher. Event types include deployment
// creation and deletion, node state changes, and worker errors.
//
// # Design Principles
//
// - Services own business logic and validation
// - Repository pattern for data access
// - Event-driven for real-time updates
// - Injected clock and randomness for deterministic tests
package service
