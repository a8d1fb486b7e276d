// Package store holds the single last-known-good graph payload shared by the
// refresh and broadcast steps. Writes replace the payload in full; readers get
// the entry or the exact bytes sent to viewers.
package store
