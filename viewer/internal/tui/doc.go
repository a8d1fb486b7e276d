// Package tui is the viewer's front end.
//
// Model is a bubbletea program: the rendered graph on top, a status line, and a
// command input underneath. The only editing command is "connect", the
// keyboard form of dragging from one card's source handle to another card's
// target handle. Plain is the non-interactive fallback that re-renders the
// graph to a writer on every update.
//
// Both consume client.Event values and feed them through the same state
// reconciliation.
package tui
