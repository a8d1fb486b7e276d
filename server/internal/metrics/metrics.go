package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Refresh outcomes used as the "result" label.
const (
	ResultOK         = "ok"
	ResultReadError  = "read_error"
	ResultParseError = "parse_error"
)

// Metrics holds the graphcast collectors.
type Metrics struct {
	refreshes *prometheus.CounterVec
	ticks     prometheus.Counter
	sent      prometheus.Counter
	skipped   prometheus.Counter
	clients   prometheus.Gauge
	nodes     prometheus.Gauge
	edges     prometheus.Gauge
}

// New registers the collectors with reg and returns them.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		refreshes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "graphcast_refresh_total",
			Help: "Data file refresh attempts by result.",
		}, []string{"result"}),
		ticks: f.NewCounter(prometheus.CounterOpts{
			Name: "graphcast_broadcast_ticks_total",
			Help: "Broadcast ticks that had a snapshot to send.",
		}),
		sent: f.NewCounter(prometheus.CounterOpts{
			Name: "graphcast_messages_sent_total",
			Help: "Snapshot messages queued to open viewers.",
		}),
		skipped: f.NewCounter(prometheus.CounterOpts{
			Name: "graphcast_sends_skipped_total",
			Help: "Viewers skipped during a tick because they were not open or not ready.",
		}),
		clients: f.NewGauge(prometheus.GaugeOpts{
			Name: "graphcast_clients_connected",
			Help: "Currently connected viewers.",
		}),
		nodes: f.NewGauge(prometheus.GaugeOpts{
			Name: "graphcast_snapshot_nodes",
			Help: "Nodes in the held snapshot.",
		}),
		edges: f.NewGauge(prometheus.GaugeOpts{
			Name: "graphcast_snapshot_edges",
			Help: "Edges in the held snapshot.",
		}),
	}
}

// Refresh records one refresh attempt.
func (m *Metrics) Refresh(result string) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(result).Inc()
}

// Snapshot records the size of a newly held snapshot.
func (m *Metrics) Snapshot(nodes, edges int) {
	if m == nil {
		return
	}
	m.nodes.Set(float64(nodes))
	m.edges.Set(float64(edges))
}

// Tick records one broadcast tick and its fan-out.
func (m *Metrics) Tick(sent, skipped int) {
	if m == nil {
		return
	}
	m.ticks.Inc()
	m.sent.Add(float64(sent))
	m.skipped.Add(float64(skipped))
}

// ClientConnected increments the connected viewers gauge.
func (m *Metrics) ClientConnected() {
	if m == nil {
		return
	}
	m.clients.Inc()
}

// ClientDisconnected decrements the connected viewers gauge.
func (m *Metrics) ClientDisconnected() {
	if m == nil {
		return
	}
	m.clients.Dec()
}
