package graph

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Handle ids present on every node card.
const (
	SourceHandle = "a"
	TargetHandle = "b"
)

// ErrNotObject is returned by Parse when the payload is valid JSON but not an object.
var ErrNotObject = errors.New("graph: payload is not a JSON object")

// Snapshot is the complete graph state at one point in time.
type Snapshot struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is one card in the graph.
type Node struct {
	ID       string   `json:"id"`
	Type     string   `json:"type,omitempty"`
	Position Position `json:"position"`
	Data     NodeData `json:"data"`
}

// Position is the node's top-left corner in canvas pixels.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeData is the payload rendered inside a node card.
type NodeData struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Edge connects two node handles.
type Edge struct {
	ID           string     `json:"id"`
	Source       string     `json:"source"`
	Target       string     `json:"target"`
	SourceHandle string     `json:"sourceHandle,omitempty"`
	TargetHandle string     `json:"targetHandle,omitempty"`
	Type         string     `json:"type,omitempty"`
	Label        string     `json:"label,omitempty"`
	Animated     bool       `json:"animated,omitempty"`
	MarkerEnd    *MarkerEnd `json:"markerEnd,omitempty"`
}

// MarkerEnd decorates the target end of an edge, e.g. {"type": "arrowclosed"}.
type MarkerEnd struct {
	Type string `json:"type"`
}

// Parse decodes a snapshot from data. The top-level value must be an object;
// fields other than nodes and edges are ignored.
func Parse(data []byte) (*Snapshot, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("graph: empty payload")
	}
	if trimmed[0] != '{' {
		if !json.Valid(trimmed) {
			return nil, fmt.Errorf("graph: invalid json")
		}
		return nil, ErrNotObject
	}

	var snap Snapshot
	if err := json.Unmarshal(trimmed, &snap); err != nil {
		return nil, fmt.Errorf("graph: decode: %w", err)
	}
	return &snap, nil
}

// Clone returns a deep copy of s. Nil slices stay nil.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := &Snapshot{}
	if s.Nodes != nil {
		out.Nodes = append(make([]Node, 0, len(s.Nodes)), s.Nodes...)
	}
	if s.Edges != nil {
		out.Edges = make([]Edge, len(s.Edges))
		for i, e := range s.Edges {
			if e.MarkerEnd != nil {
				m := *e.MarkerEnd
				e.MarkerEnd = &m
			}
			out.Edges[i] = e
		}
	}
	return out
}
