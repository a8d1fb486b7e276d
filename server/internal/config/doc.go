// Package config loads the graphcast-server configuration from the `server:`
// section of config.yaml.
//
// Config fields:
//   - HTTPPort: port for WebSocket, REST API and metrics (default 8080)
//   - WSPath: viewer WebSocket path (default "/")
//   - UIDir: optional static browser UI directory
//   - Data.Path: polled graph file (default /tmp/openagi_data.json)
//   - Data.Interval: refresh+broadcast tick (default 1s)
//   - Data.Watch: fsnotify nudge for early refresh (default false)
//   - Broadcast.SendOnConnect: push held snapshot on connect (default false)
//   - Broadcast.Buffer: per-viewer send buffer (default 16)
//   - Metrics.Enabled/Path: Prometheus endpoint (default on, /metrics)
//   - Log.Level/File/...: slog level and optional rotating file
//
// Load(path) applies defaults, unmarshals the file if path is non-empty, applies
// GRAPHCAST_DATA_PATH / GRAPHCAST_HTTP_PORT / GRAPHCAST_INTERVAL overrides,
// then validates.
package config
