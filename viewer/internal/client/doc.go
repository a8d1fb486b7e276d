// Package client holds the viewer's single WebSocket connection to a
// graphcast server.
//
// Run dials once, reports the connection lifecycle as Events (open, each
// message, close) to one handler, and closes the socket when its context ends.
// There is no reconnect: when the server goes away the viewer keeps whatever
// it last rendered.
package client
