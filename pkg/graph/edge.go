package graph

// Connection is a user gesture joining one node handle to another.
type Connection struct {
	Source       string `json:"source"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	Target       string `json:"target"`
	TargetHandle string `json:"targetHandle,omitempty"`
}

// EdgeID returns the id the rendering library assigns to a connection-made edge.
func EdgeID(c Connection) string {
	return "reactflow__edge-" + c.Source + c.SourceHandle + "-" + c.Target + c.TargetHandle
}

// AddEdge appends the edge for c to edges and returns the result along with
// whether anything was added. A connection without both endpoints, or one that
// duplicates an existing edge's endpoints and handles, leaves edges unchanged.
// The input slice is never modified in place.
func AddEdge(edges []Edge, c Connection) ([]Edge, bool) {
	if c.Source == "" || c.Target == "" {
		return edges, false
	}
	for _, e := range edges {
		if e.Source == c.Source && e.Target == c.Target &&
			e.SourceHandle == c.SourceHandle && e.TargetHandle == c.TargetHandle {
			return edges, false
		}
	}

	out := make([]Edge, 0, len(edges)+1)
	out = append(out, edges...)
	out = append(out, Edge{
		ID:           EdgeID(c),
		Source:       c.Source,
		SourceHandle: c.SourceHandle,
		Target:       c.Target,
		TargetHandle: c.TargetHandle,
	})
	return out, true
}
