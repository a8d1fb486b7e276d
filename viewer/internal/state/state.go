package state

import (
	"bytes"
	"encoding/json"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/obsidianstack/graphcast/pkg/graph"
)

// message decodes each top-level field lazily so absent and null can be told
// apart from an empty array.
type message struct {
	Nodes json.RawMessage `json:"nodes"`
	Edges json.RawMessage `json:"edges"`
}

// Update reports which halves of the state a message replaced.
type Update struct {
	Nodes bool
	Edges bool
}

// State is the viewer's local graph.
type State struct {
	nodes []graph.Node
	edges []graph.Edge
}

// New returns an empty State.
func New() *State {
	return &State{nodes: []graph.Node{}, edges: []graph.Edge{}}
}

// Nodes returns the current nodes. The slice must not be modified.
func (s *State) Nodes() []graph.Node { return s.nodes }

// Edges returns the current edges. The slice must not be modified.
func (s *State) Edges() []graph.Edge { return s.edges }

// Apply reconciles a pushed payload into the state. On error nothing changes.
func (s *State) Apply(payload []byte) (Update, error) {
	var msg message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Update{}, fmt.Errorf("state: decode message: %w", err)
	}

	var (
		u     Update
		nodes []graph.Node
		edges []graph.Edge
	)
	if present(msg.Nodes) {
		if err := json.Unmarshal(msg.Nodes, &nodes); err != nil {
			return Update{}, fmt.Errorf("state: decode nodes: %w", err)
		}
		u.Nodes = true
	}
	if present(msg.Edges) {
		if err := json.Unmarshal(msg.Edges, &edges); err != nil {
			return Update{}, fmt.Errorf("state: decode edges: %w", err)
		}
		u.Edges = true
	}

	if u.Nodes {
		s.nodes = nodes
	}
	if u.Edges {
		s.edges = edges
	}
	return u, nil
}

// Connect appends the edge for a user-drawn connection. It reports whether an
// edge was added; duplicates and connections missing an endpoint are ignored.
// Nodes are never touched.
func (s *State) Connect(c graph.Connection) bool {
	edges, added := graph.AddEdge(s.edges, c)
	s.edges = edges
	return added
}

// NodeIDs returns the set of node ids currently shown.
func (s *State) NodeIDs() mapset.Set[string] {
	ids := mapset.NewThreadUnsafeSetWithSize[string](len(s.nodes))
	for _, n := range s.nodes {
		ids.Add(n.ID)
	}
	return ids
}

func present(raw json.RawMessage) bool {
	return len(raw) > 0 && !bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
