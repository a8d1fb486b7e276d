// Package metrics exposes Prometheus collectors for the refresh/broadcast loop.
//
// All methods are safe on a nil *Metrics, so components can be built without
// a registry in tests.
package metrics
