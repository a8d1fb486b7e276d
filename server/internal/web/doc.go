// Package web assembles the graphcast-server HTTP surface: the viewer
// WebSocket endpoint, /api/v1, /metrics, and an optional static browser UI.
//
// When the UI and the WebSocket share a path (both "/" by default), upgrade
// requests go to the hub and plain requests to the UI. Unknown UI paths fall
// back to index.html for client-side routing.
package web
