package tui

import (
	"bytes"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obsidianstack/graphcast/viewer/internal/client"
)

const twoNodes = `{
  "nodes": [{"id": "1", "data": {"title": "alpha", "content": ""}},
            {"id": "2", "position": {"x": 400, "y": 0}, "data": {"title": "beta", "content": ""}}],
  "edges": []
}`

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok, "Update returned %T", next)
	return out, cmd
}

func typeLine(t *testing.T, m Model, line string) (Model, tea.Cmd) {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(line)})
	return update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
}

func loadedModel(t *testing.T) Model {
	t.Helper()
	m := NewModel("ws://test/")
	m, _ = update(t, m, EventMsg{client.Event{Kind: client.EventOpen}})
	m, _ = update(t, m, EventMsg{client.Event{Kind: client.EventMessage, Data: []byte(twoNodes)}})
	return m
}

func TestModel_AppliesMessages(t *testing.T) {
	m := loadedModel(t)

	assert.Len(t, m.State().Nodes(), 2)
	assert.Equal(t, "updated: 2 nodes, 0 edges", m.Status())
	view := m.View()
	assert.Contains(t, view, "alpha")
	assert.Contains(t, view, "beta")
	assert.Contains(t, view, "[live]")
}

func TestModel_ConnectCommandAddsLocalEdge(t *testing.T) {
	m := loadedModel(t)

	m, cmd := typeLine(t, m, "connect 1 2")
	assert.Nil(t, cmd)

	require.Len(t, m.State().Edges(), 1)
	e := m.State().Edges()[0]
	assert.Equal(t, "1", e.Source)
	assert.Equal(t, "2", e.Target)
	assert.Equal(t, "reactflow__edge-1a-2b", e.ID)
	assert.Len(t, m.State().Nodes(), 2)
	assert.Contains(t, m.View(), "reactflow__edge-1a-2b")

	m, _ = typeLine(t, m, "connect 1 2")
	assert.Len(t, m.State().Edges(), 1)
	assert.Equal(t, "edge already present", m.Status())
}

func TestModel_ConnectUnknownNode(t *testing.T) {
	m := loadedModel(t)
	m, _ = typeLine(t, m, "connect 1 7")

	assert.Empty(t, m.State().Edges())
	assert.Contains(t, m.Status(), `no node "7"`)
}

func TestModel_ServerEdgesEraseLocalEdge(t *testing.T) {
	m := loadedModel(t)
	m, _ = typeLine(t, m, "connect 2 1")
	require.Len(t, m.State().Edges(), 1)

	m, _ = update(t, m, EventMsg{client.Event{Kind: client.EventMessage, Data: []byte(`{"edges": []}`)}})
	assert.Empty(t, m.State().Edges())
	assert.Len(t, m.State().Nodes(), 2)
}

func TestModel_BadMessageKeepsGraph(t *testing.T) {
	m := loadedModel(t)
	m, _ = update(t, m, EventMsg{client.Event{Kind: client.EventMessage, Data: []byte(`{oops`)}})

	assert.Len(t, m.State().Nodes(), 2)
	assert.Contains(t, m.Status(), "decode")
}

func TestModel_CloseKeepsGraph(t *testing.T) {
	m := loadedModel(t)
	m, _ = update(t, m, EventMsg{client.Event{Kind: client.EventClose, Err: errors.New("reset")}})

	assert.Len(t, m.State().Nodes(), 2)
	assert.Equal(t, "disconnected: reset", m.Status())
	assert.Contains(t, m.View(), "[offline]")
}

func TestModel_DialFailureShown(t *testing.T) {
	m := NewModel("ws://test/")
	m, _ = update(t, m, DoneMsg{Err: errors.New("client: dial ws://test/: refused")})
	assert.Contains(t, m.Status(), "refused")
}

func TestModel_Quit(t *testing.T) {
	m := NewModel("ws://test/")

	_, cmd := typeLine(t, m, "quit")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	_, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_WindowSize(t *testing.T) {
	m := NewModel("ws://test/")
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, m.width)
}

func TestPlain_RendersEachMessage(t *testing.T) {
	var buf bytes.Buffer
	p := NewPlain(&buf, 0)

	p.Handle(client.Event{Kind: client.EventOpen})
	assert.Zero(t, buf.Len())

	p.Handle(client.Event{Kind: client.EventMessage, Data: []byte(twoNodes)})
	assert.Contains(t, buf.String(), "alpha")

	buf.Reset()
	p.Handle(client.Event{Kind: client.EventMessage, Data: []byte(`not json`)})
	assert.Zero(t, buf.Len())
	assert.Len(t, p.State().Nodes(), 2)

	p.Handle(client.Event{Kind: client.EventMessage, Data: []byte(`{"nodes": [{"id": "solo", "data": {"title": "gamma"}}]}`)})
	assert.Contains(t, buf.String(), "gamma")
	assert.NotContains(t, buf.String(), "alpha")

	p.Handle(client.Event{Kind: client.EventClose})
}
