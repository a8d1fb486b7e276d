package api

// Health states.
const (
	StateOK    = "ok"    // snapshot held and the last refresh succeeded
	StateStale = "stale" // snapshot held but the last refresh failed
	StateEmpty = "empty" // nothing has ever been parsed
)

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	State       string `json:"state"`
	DataPath    string `json:"data_path"`
	HasSnapshot bool   `json:"has_snapshot"`
	Clients     int    `json:"clients"`
	NodeCount   int    `json:"node_count"`
	EdgeCount   int    `json:"edge_count"`
	UpdatedAt   string `json:"updated_at,omitempty"`   // RFC3339
	LastRefresh string `json:"last_refresh,omitempty"` // RFC3339
	LastError   string `json:"last_error,omitempty"`
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}
