// Package state holds a viewer's local graph and reconciles it with pushed
// snapshots.
//
// Apply replaces nodes when the message carries a nodes array and edges when it
// carries an edges array; a field that is absent or null leaves that half of
// the state alone. Connect appends a locally drawn edge that lives until the
// next message carrying edges.
//
// State is not safe for concurrent use; the viewer mutates it from a single
// event loop.
package state
