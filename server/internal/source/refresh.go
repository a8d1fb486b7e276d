package source

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/obsidianstack/graphcast/pkg/graph"
	"github.com/obsidianstack/graphcast/server/internal/metrics"
	"github.com/obsidianstack/graphcast/server/internal/store"
)

// Refresh failure classes.
var (
	ErrRead  = errors.New("read data file")
	ErrParse = errors.New("parse data file")
)

// Status describes the most recent refresh attempt.
type Status struct {
	LastAttempt time.Time
	LastSuccess time.Time
	LastErr     error
}

// Refresher loads one file into one store.
type Refresher struct {
	path    string
	store   *store.Store
	metrics *metrics.Metrics

	mu     sync.Mutex // serialises refreshes and guards status
	status Status
	now    func() time.Time
}

// New creates a Refresher for path that writes into st. m may be nil.
func New(path string, st *store.Store, m *metrics.Metrics) *Refresher {
	return &Refresher{
		path:    path,
		store:   st,
		metrics: m,
		now:     time.Now,
	}
}

// Path returns the file being polled.
func (r *Refresher) Path() string { return r.path }

// Refresh re-reads the file and, on success, replaces the held snapshot. Any
// JSON object is accepted; its contents are not checked against a schema.
func (r *Refresher) Refresh() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.status.LastAttempt = r.now()

	data, err := os.ReadFile(r.path)
	if err != nil {
		slog.Error("source: read failed, keeping previous snapshot", "path", r.path, "err", err)
		r.metrics.Refresh(metrics.ResultReadError)
		r.status.LastErr = fmt.Errorf("%w %q: %w", ErrRead, r.path, err)
		return r.status.LastErr
	}

	p, err := graph.ParsePayload(data)
	if err != nil {
		slog.Error("source: parse failed, keeping previous snapshot", "path", r.path, "err", err)
		r.metrics.Refresh(metrics.ResultParseError)
		r.status.LastErr = fmt.Errorf("%w %q: %w", ErrParse, r.path, err)
		return r.status.LastErr
	}

	r.store.Put(p)
	r.metrics.Refresh(metrics.ResultOK)
	r.metrics.Snapshot(p.NodeCount(), p.EdgeCount())
	r.status.LastSuccess = r.status.LastAttempt
	r.status.LastErr = nil
	slog.Debug("source: refreshed", "path", r.path, "nodes", p.NodeCount(), "edges", p.EdgeCount())
	return nil
}

// Status returns the outcome of the most recent refresh.
func (r *Refresher) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}
