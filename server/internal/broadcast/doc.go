// Package broadcast drives the refresh/broadcast cycle.
//
// Broadcaster.Run performs one refresh immediately, then on every interval
// runs Refresh followed by BroadcastTick on a single goroutine, so ticks never
// overlap. BroadcastTick encodes the held snapshot once and hands the same
// bytes to every open viewer; with nothing held it sends nothing.
package broadcast
