package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestNilMetrics_NoPanic(t *testing.T) {
	var m *Metrics
	m.Refresh(ResultOK)
	m.Snapshot(1, 2)
	m.Tick(3, 1)
	m.ClientConnected()
	m.ClientDisconnected()
}

func TestRefresh_CountsByResult(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.Refresh(ResultOK)
	m.Refresh(ResultOK)
	m.Refresh(ResultParseError)

	if got := testutil.ToFloat64(m.refreshes.WithLabelValues(ResultOK)); got != 2 {
		t.Errorf("ok: got %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.refreshes.WithLabelValues(ResultParseError)); got != 1 {
		t.Errorf("parse_error: got %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.refreshes.WithLabelValues(ResultReadError)); got != 0 {
		t.Errorf("read_error: got %v, want 0", got)
	}
}

func TestTick_AccumulatesFanOut(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.Tick(3, 1)
	m.Tick(2, 0)

	if got := testutil.ToFloat64(m.ticks); got != 2 {
		t.Errorf("ticks: got %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.sent); got != 5 {
		t.Errorf("sent: got %v, want 5", got)
	}
	if got := testutil.ToFloat64(m.skipped); got != 1 {
		t.Errorf("skipped: got %v, want 1", got)
	}
}

func TestGather_ClientGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.ClientConnected()
	m.ClientConnected()
	m.ClientDisconnected()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	var found *dto.MetricFamily
	for _, mf := range mfs {
		if mf.GetName() == "graphcast_clients_connected" {
			found = mf
		}
	}
	if found == nil {
		t.Fatal("graphcast_clients_connected: not gathered")
	}
	if got := found.GetMetric()[0].GetGauge().GetValue(); got != 1 {
		t.Errorf("clients: got %v, want 1", got)
	}
}
