// Package handler implements HTTP request handlers for the switchyard API.
//
// This package provides the HTTP layer for the orchestrator REST API,
// handling requests for deployment management, telemetry queries,
// bottleneck analysis and health reporting.
//
// # Handlers
//
// DeploymentHandler covers the deployment lifecycle: creation with its
// node set, listing, detail, deletion, audit log access and export.
//
// TelemetryHandler serves the stored telemetry time series and runs
// on-demand bottleneck detection.
//
// HealthHandler reports database and worker status for monitoring.
//
// Middleware provides panic recovery, CORS support and request logging.
//
// # API Design
//
// All handlers follow REST conventions:
// - GET for retrieval
// - POST for creation
// - DELETE for removal
//
// Errors are returned as JSON with appropriate HTTP status codes.
// Request bodies and query parameters are validated before processing;
// violations map to 400, missing deployments to 404.
//
// # Response Format
//
// Success responses return JSON data with appropriate status codes
// (200, 201, 204). Error responses return JSON with {error, details}
// structure. Exports are served as file attachments.
//
// # Server-Sent Events
//
// The /api/events endpoint provides real-time orchestrator events via
// SSE, allowing clients to follow node state changes live.
package handler
