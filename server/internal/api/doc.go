// Package api implements the read-only HTTP API of graphcast-server.
//
// New(store, refresher, hub) returns an http.Handler that serves:
//
//	GET /api/v1/health     snapshot state, viewer count, last refresh outcome
//	GET /api/v1/snapshot   the held snapshot as JSON; 404 before the first
//	                       successful refresh
//
// All endpoints respond with Content-Type: application/json and return 405 for
// non-GET methods. Routing uses chi.
package api
