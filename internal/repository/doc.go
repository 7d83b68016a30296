// Package repository defines the data access interfaces for Switchyard.
//
// This package provides the repository abstraction layer for persisting
// and retrieving domain entities. The actual implementation is in the
// sqlite subpackage.
//
// # Repository Interface
//
// The Repository interface defines all data access methods for
// deployments, nodes, telemetry samples and lifecycle events. Services
// depend on the interface; only wiring code touches the sqlite
// implementation directly.
//
// # SQLite Implementation
//
// The sqlite implementation provides a complete repository using SQLite
// with WAL mode for concurrency. It handles:
//
// - CRUD operations for deployments and their nodes
// - Cascade deletes from a deployment to its nodes, telemetry and events
// - Batched state reads for the lifecycle scheduler
// - Filtered, paginated telemetry queries
//
// # Schema
//
// The sqlite repository creates its schema on startup. Timestamps are
// stored in UTC and compared lexicographically, so all writes bind
// time.Time values already converted with UTC().
//
// # Testing
//
// The sqlite repository is tested against in-memory databases, which
// exercise the same code paths as on-disk files.
package repository
