package tui

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/obsidianstack/graphcast/viewer/internal/client"
	"github.com/obsidianstack/graphcast/viewer/internal/render"
	"github.com/obsidianstack/graphcast/viewer/internal/state"
)

// Plain re-renders the whole graph to w after every applied update.
type Plain struct {
	w     io.Writer
	st    *state.State
	width int
}

// NewPlain returns a Plain writing frames of at most width columns to w.
func NewPlain(w io.Writer, width int) *Plain {
	return &Plain{w: w, st: state.New(), width: width}
}

// State exposes the reconciled graph.
func (p *Plain) State() *state.State { return p.st }

// Handle is a client event handler.
func (p *Plain) Handle(ev client.Event) {
	switch ev.Kind {
	case client.EventOpen:
		slog.Info("plain: connection open")
	case client.EventMessage:
		if _, err := p.st.Apply(ev.Data); err != nil {
			slog.Warn("plain: dropped message", "err", err)
			return
		}
		fmt.Fprintf(p.w, "%s\n\n", render.Graph(p.st.Nodes(), p.st.Edges(), p.width))
	case client.EventClose:
		slog.Info("plain: connection closed", "err", ev.Err)
	}
}
