package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/obsidianstack/graphcast/viewer/internal/client"
	"github.com/obsidianstack/graphcast/viewer/internal/render"
	"github.com/obsidianstack/graphcast/viewer/internal/state"
)

// EventMsg carries a connection event into the bubbletea loop.
type EventMsg struct {
	Event client.Event
}

// DoneMsg reports that the connection loop has returned. Err is set when the
// dial failed.
type DoneMsg struct {
	Err error
}

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	headerStyle = lipgloss.NewStyle().Bold(true)
)

// Model is the interactive viewer.
type Model struct {
	url       string
	st        *state.State
	input     textinput.Model
	status    string
	statusErr bool
	connected bool
	width     int
}

// NewModel returns a Model showing an empty graph for url.
func NewModel(url string) Model {
	ti := textinput.New()
	ti.Placeholder = "connect <source> <target>"
	ti.Prompt = "> "
	ti.CharLimit = 256
	ti.Focus()

	return Model{
		url:    url,
		st:     state.New(),
		input:  ti,
		status: "connecting to " + url,
	}
}

// State exposes the reconciled graph.
func (m Model) State() *state.State { return m.st }

// Status returns the current status line text.
func (m Model) Status() string { return m.status }

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(10, msg.Width-4)
		return m, nil

	case EventMsg:
		m.handleEvent(msg.Event)
		return m, nil

	case DoneMsg:
		if msg.Err != nil {
			m.setError(msg.Err.Error())
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			line := m.input.Value()
			m.input.Reset()
			return m.runCommand(line)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleEvent(ev client.Event) {
	switch ev.Kind {
	case client.EventOpen:
		m.connected = true
		m.setStatus("connected to " + m.url)
	case client.EventMessage:
		u, err := m.st.Apply(ev.Data)
		if err != nil {
			slog.Warn("tui: dropped message", "err", err)
			m.setError(err.Error())
			return
		}
		m.setStatus(describe(u, len(m.st.Nodes()), len(m.st.Edges())))
	case client.EventClose:
		m.connected = false
		if ev.Err != nil {
			m.setError("disconnected: " + ev.Err.Error())
			return
		}
		m.setStatus("disconnected")
	}
}

func (m Model) runCommand(line string) (tea.Model, tea.Cmd) {
	cmd, err := ParseCommand(line)
	if err != nil {
		m.setError(err.Error())
		return m, nil
	}

	switch cmd.Kind {
	case CmdQuit:
		return m, tea.Quit
	case CmdHelp:
		m.setStatus(helpText)
	case CmdConnect:
		if err := validate(cmd.Conn, m.st.NodeIDs()); err != nil {
			m.setError(err.Error())
			return m, nil
		}
		if !m.st.Connect(cmd.Conn) {
			m.setStatus("edge already present")
			return m, nil
		}
		slog.Debug("tui: local edge added", "source", cmd.Conn.Source, "target", cmd.Conn.Target)
		m.setStatus(fmt.Sprintf("connected %s → %s (local)", cmd.Conn.Source, cmd.Conn.Target))
	}
	return m, nil
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.statusErr = true
}

func (m Model) View() string {
	var b strings.Builder

	conn := "offline"
	if m.connected {
		conn = "live"
	}
	b.WriteString(headerStyle.Render(fmt.Sprintf("graphcast  %s  [%s]", m.url, conn)))
	b.WriteString("\n\n")
	b.WriteString(render.Graph(m.st.Nodes(), m.st.Edges(), m.width))
	b.WriteString("\n\n")

	if m.statusErr {
		b.WriteString(errorStyle.Render(m.status))
	} else {
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(m.input.View())
	return b.String()
}

func describe(u state.Update, nodes, edges int) string {
	var parts []string
	if u.Nodes {
		parts = append(parts, fmt.Sprintf("%d nodes", nodes))
	}
	if u.Edges {
		parts = append(parts, fmt.Sprintf("%d edges", edges))
	}
	if len(parts) == 0 {
		return "update carried no graph fields"
	}
	return "updated: " + strings.Join(parts, ", ")
}
