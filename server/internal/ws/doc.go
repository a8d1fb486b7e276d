// Package ws implements the WebSocket fan-out for graphcast-server.
//
// Hub tracks connected viewers. Broadcast(data) queues the same byte slice to
// every viewer whose connection is open and whose send buffer has room; others
// are skipped for that call, never queued for later. Each viewer has one
// writer goroutine, so writes to a connection never race.
//
// Connection lifecycle is dispatched through one handler per hub as Events:
// EventOpen on upgrade, EventMessage for any frame a viewer sends (viewers have
// nothing to say, so it is logged and dropped), EventClose when the read side
// fails or the peer closes.
//
// Messages are the raw snapshot JSON, one text frame per broadcast:
//
//	{"nodes": [...], "edges": [...]}
//
// The upgrader accepts all origins. Apply CORS restrictions at the reverse
// proxy level.
package ws
