// Package server provides the HTTP API of the statebox demo service.
//
// It binds the todo and counter actions to HTTP requests and streams state
// changes to clients:
//
//   - REST API: JSON endpoints under "/api" that read and mutate the stores
//   - Server-Sent Events: snapshots of every store change at "/api/sse"
//   - Metrics: Prometheus exposition at "/metrics"
//
// [Bridge] connects store subscriptions to the snapshot hub the SSE handler
// reads from. The server supports graceful shutdown via context
// cancellation, with a 5-second timeout for in-flight requests.
package server
