package broadcast

import (
	"context"
	"log/slog"
	"time"

	"github.com/obsidianstack/graphcast/server/internal/metrics"
	"github.com/obsidianstack/graphcast/server/internal/store"
)

// Refresher reloads the held snapshot from its source.
type Refresher interface {
	Refresh() error
}

// Fanout delivers one encoded payload to all open subscribers.
type Fanout interface {
	Broadcast(data []byte) (sent, skipped int)
	CloseAll()
}

// Broadcaster owns the tick loop.
type Broadcaster struct {
	refresher Refresher
	store     *store.Store
	fanout    Fanout
	interval  time.Duration
	metrics   *metrics.Metrics
}

// New creates a Broadcaster. m may be nil.
func New(r Refresher, st *store.Store, f Fanout, interval time.Duration, m *metrics.Metrics) *Broadcaster {
	return &Broadcaster{
		refresher: r,
		store:     st,
		fanout:    f,
		interval:  interval,
		metrics:   m,
	}
}

// Run performs an initial refresh, then ticks every interval until ctx is
// cancelled. On return every subscriber has been sent a close frame.
func (b *Broadcaster) Run(ctx context.Context) {
	defer b.fanout.CloseAll()

	b.refresher.Refresh() //nolint:errcheck // logged by the refresher

	t := time.NewTicker(b.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			b.Tick()
		}
	}
}

// Tick runs one refresh followed by one broadcast.
func (b *Broadcaster) Tick() {
	b.refresher.Refresh() //nolint:errcheck // logged by the refresher
	b.BroadcastTick()
}

// BroadcastTick sends the held snapshot to every open subscriber. It reports
// whether a snapshot was held.
func (b *Broadcaster) BroadcastTick() bool {
	data, ok := b.store.Encode()
	if !ok {
		return false
	}

	sent, skipped := b.fanout.Broadcast(data)
	b.metrics.Tick(sent, skipped)
	slog.Debug("broadcast: tick", "bytes", len(data), "sent", sent, "skipped", skipped)
	return true
}
