// Package graph defines the node/edge snapshot exchanged between
// graphcast-server and its viewers.
//
// The JSON shape follows the React Flow element format:
//
//	{
//	  "nodes": [{"id": "0", "type": "custom", "position": {"x": 0, "y": 50},
//	             "data": {"title": "...", "content": "..."}}],
//	  "edges": [{"id": "e1-2", "source": "1", "target": "2", "animated": true,
//	             "markerEnd": {"type": "arrowclosed"}}]
//	}
//
// The server relays files as a Payload: checked to be a JSON object and
// otherwise passed through unchanged, so producers may add fields (style,
// data.label, ...) the typed Snapshot does not model. Snapshot is the typed
// view the terminal viewer and the demo producer work with.
//
// A nil Nodes or Edges slice encodes as null. Viewers treat null and an absent
// field the same way: the corresponding local state is left untouched. An empty
// slice encodes as [] and replaces local state with nothing.
//
// Every node card exposes one outbound handle (SourceHandle, "a") and one
// inbound handle (TargetHandle, "b").
//
// Builder produces staged graph files the same way the agent-side visualizer
// does; it is used by the viewer's demo command and by tests.
package graph
