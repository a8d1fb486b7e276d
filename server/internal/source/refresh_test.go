package source

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/obsidianstack/graphcast/pkg/graph"
	"github.com/obsidianstack/graphcast/server/internal/metrics"
	"github.com/obsidianstack/graphcast/server/internal/store"
)

const validGraph = `{
  "nodes": [
    {"id": "0", "type": "custom", "position": {"x": 0, "y": 50},
     "data": {"title": "Observe", "content": "read the task"}},
    {"id": "1", "type": "custom", "position": {"x": 400, "y": 50},
     "data": {"title": "Act", "content": "run the tool"}}
  ],
  "edges": [
    {"id": "e0-1", "source": "0", "target": "1", "animated": true,
     "markerEnd": {"type": "arrowclosed"}}
  ]
}`

// --- helpers ----------------------------------------------------------------

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func newRefresher(t *testing.T) (*Refresher, *store.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graph.json")
	st := store.New()
	return New(path, st, nil), st, path
}

// --- tests ------------------------------------------------------------------

func TestRefresh_ValidFile_HeldEqualsFile(t *testing.T) {
	r, st, path := newRefresher(t)
	writeFile(t, path, validGraph)

	if err := r.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	e, ok := st.Get()
	if !ok {
		t.Fatal("store empty after successful refresh")
	}
	got, err := e.Payload.Snapshot()
	if err != nil {
		t.Fatalf("decode held payload: %v", err)
	}
	want, err := graph.Parse([]byte(validGraph))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("held snapshot:\n got %+v\nwant %+v", got, want)
	}
}

func TestRefresh_RelaysFieldsVerbatim(t *testing.T) {
	r, st, path := newRefresher(t)
	content := `{"nodes":[{"id":"1","position":{"x":0,"y":0},"data":{"label":"hello"},"style":{"width":300}}],` +
		`"edges":[{"id":"e","source":"1","target":"1","style":{"stroke":"red"}}]}`
	writeFile(t, path, "  "+content+"\n")

	if err := r.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	data, _ := st.Encode()
	if string(data) != content {
		t.Errorf("held bytes:\n got %s\nwant %s", data, content)
	}
}

func TestRefresh_UnexpectedFieldTypesAccepted(t *testing.T) {
	r, st, path := newRefresher(t)
	writeFile(t, path, validGraph)
	r.Refresh() //nolint:errcheck

	content := `{"nodes":[{"id":1,"data":{"label":"numeric id"}}]}`
	writeFile(t, path, content)
	if err := r.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	data, _ := st.Encode()
	if string(data) != content {
		t.Errorf("held bytes: got %s, want %s", data, content)
	}
}

func TestRefresh_InvalidJSON_KeepsPrevious(t *testing.T) {
	r, st, path := newRefresher(t)
	writeFile(t, path, validGraph)
	if err := r.Refresh(); err != nil {
		t.Fatalf("first Refresh: %v", err)
	}
	before, _ := st.Get()

	writeFile(t, path, `{"nodes": [{"id": "0"`)
	err := r.Refresh()
	if !errors.Is(err, ErrParse) {
		t.Fatalf("Refresh on truncated JSON: got %v, want ErrParse", err)
	}

	after, _ := st.Get()
	if before.Payload != after.Payload {
		t.Errorf("snapshot changed after parse failure:\nbefore %s\nafter  %s", before.Payload.Bytes(), after.Payload.Bytes())
	}
	if !after.UpdatedAt.Equal(before.UpdatedAt) {
		t.Errorf("UpdatedAt changed after parse failure")
	}
}

func TestRefresh_NonObject_IsParseError(t *testing.T) {
	r, st, path := newRefresher(t)
	writeFile(t, path, `null`)

	if err := r.Refresh(); !errors.Is(err, ErrParse) {
		t.Fatalf("Refresh: got %v, want ErrParse", err)
	}
	if _, ok := st.Get(); ok {
		t.Error("store should stay empty")
	}
}

func TestRefresh_MissingFile_KeepsPrevious(t *testing.T) {
	r, st, path := newRefresher(t)

	// Never read anything: store stays empty.
	if err := r.Refresh(); !errors.Is(err, ErrRead) {
		t.Fatalf("Refresh on missing file: got %v, want ErrRead", err)
	}
	if _, ok := st.Get(); ok {
		t.Fatal("store should be empty when the file never existed")
	}

	writeFile(t, path, validGraph)
	if err := r.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := r.Refresh(); !errors.Is(err, ErrRead) {
		t.Fatalf("Refresh after remove: got %v, want ErrRead", err)
	}
	e, ok := st.Get()
	if !ok || e.Payload.NodeCount() != 2 {
		t.Errorf("stale snapshot should still be served, got ok=%v %+v", ok, e.Payload)
	}
}

func TestRefresh_ReplacesInFull(t *testing.T) {
	r, st, path := newRefresher(t)
	writeFile(t, path, validGraph)
	r.Refresh() //nolint:errcheck

	writeFile(t, path, `{"nodes": [{"id": "9", "position": {"x": 1, "y": 2}, "data": {"title": "only", "content": ""}}]}`)
	if err := r.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	e, _ := st.Get()
	snap, err := e.Payload.Snapshot()
	if err != nil {
		t.Fatalf("decode held payload: %v", err)
	}
	if len(snap.Nodes) != 1 || snap.Nodes[0].ID != "9" {
		t.Errorf("nodes: got %+v, want only node 9", snap.Nodes)
	}
	if snap.Edges != nil {
		t.Errorf("edges: got %+v, want nil (absent in file, no merge)", snap.Edges)
	}
}

func TestStatus_TracksLastOutcome(t *testing.T) {
	r, _, path := newRefresher(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return base }

	r.Refresh() //nolint:errcheck
	s := r.Status()
	if !errors.Is(s.LastErr, ErrRead) {
		t.Errorf("LastErr: got %v, want ErrRead", s.LastErr)
	}
	if !s.LastSuccess.IsZero() {
		t.Errorf("LastSuccess: got %v, want zero", s.LastSuccess)
	}

	writeFile(t, path, validGraph)
	r.Refresh() //nolint:errcheck
	s = r.Status()
	if s.LastErr != nil {
		t.Errorf("LastErr: got %v, want nil", s.LastErr)
	}
	if !s.LastSuccess.Equal(base) || !s.LastAttempt.Equal(base) {
		t.Errorf("times: got %+v, want both %v", s, base)
	}
}

func TestRefresh_RecordsMetrics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	reg := prometheus.NewRegistry()
	r := New(path, store.New(), metrics.New(reg))

	r.Refresh() //nolint:errcheck
	writeFile(t, path, "{")
	r.Refresh() //nolint:errcheck
	writeFile(t, path, validGraph)
	r.Refresh() //nolint:errcheck

	n, err := testutil.GatherAndCount(reg, "graphcast_refresh_total")
	if err != nil {
		t.Fatalf("GatherAndCount: %v", err)
	}
	if n != 3 {
		t.Errorf("refresh_total series: got %d, want 3 (one per result)", n)
	}
}
