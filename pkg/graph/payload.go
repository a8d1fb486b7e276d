package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Payload is a graph file as its producer wrote it. Only the top level is
// checked (a JSON object); nodes, edges and any other fields are relayed
// verbatim, so fields the typed Snapshot does not model survive the trip.
type Payload struct {
	data  []byte
	nodes int
	edges int
}

// ParsePayload validates data as a JSON object and returns it in compact form.
func ParsePayload(data []byte) (*Payload, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("graph: empty payload")
	}
	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("graph: invalid json")
	}
	if trimmed[0] != '{' {
		return nil, ErrNotObject
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return nil, fmt.Errorf("graph: compact: %w", err)
	}

	var top struct {
		Nodes json.RawMessage `json:"nodes"`
		Edges json.RawMessage `json:"edges"`
	}
	if err := json.Unmarshal(trimmed, &top); err != nil {
		return nil, fmt.Errorf("graph: decode: %w", err)
	}

	return &Payload{
		data:  buf.Bytes(),
		nodes: countElems(top.Nodes),
		edges: countElems(top.Edges),
	}, nil
}

// Bytes returns the compact encoding. The slice is shared and must not be
// modified.
func (p *Payload) Bytes() []byte { return p.data }

// NodeCount is the length of the nodes array, or 0 when nodes is absent or
// not an array.
func (p *Payload) NodeCount() int { return p.nodes }

// EdgeCount is the length of the edges array, or 0 when edges is absent or
// not an array.
func (p *Payload) EdgeCount() int { return p.edges }

// Snapshot decodes the payload into the typed schema.
func (p *Payload) Snapshot() (*Snapshot, error) {
	return Parse(p.data)
}

func countElems(raw json.RawMessage) int {
	var elems []json.RawMessage
	if len(raw) == 0 || raw[0] != '[' || json.Unmarshal(raw, &elems) != nil {
		return 0
	}
	return len(elems)
}
